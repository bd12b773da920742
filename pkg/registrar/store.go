package registrar

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lantern-labs/beacon-backend/dao/model"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore returns a Store backed by the signups table.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindOrCreate(ctx context.Context, email, source string) (created bool, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Signup
		txErr := tx.Where("email = ?", email).First(&existing).Error
		if txErr == nil {
			return nil
		}
		if !errors.Is(txErr, gorm.ErrRecordNotFound) {
			return txErr
		}

		txErr = tx.Create(&model.Signup{Email: email, Source: source}).Error
		if txErr != nil {
			// The unique index backstops a race between two identical
			// submissions; losing that race is just a duplicate.
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				return nil
			}
			return txErr
		}
		created = true
		return nil
	})
	return created, err
}

func (s *gormStore) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Signup{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
