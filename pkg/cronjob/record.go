package cronjob

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/dao/model"
	"github.com/lantern-labs/beacon-backend/dao/query"
)

// GetRunTimeRange retrieves the time range covered by the recorded runs,
// padded by one day on each side for dashboard range pickers.
func (cm *CronJobManager) GetRunTimeRange(ctx context.Context) (startTime, endTime time.Time, err error) {
	var result struct {
		StartTime time.Time
		EndTime   time.Time
	}
	err = query.
		GetDB().
		WithContext(ctx).
		Model(&model.CheckRun{}).
		Select("min(execute_time) as start_time", "max(execute_time) as end_time").
		Scan(&result).
		Error
	if err != nil {
		err = fmt.Errorf("CronJobManager.GetRunTimeRange: %w", err)
		klog.Error(err)
		return time.Time{}, time.Time{}, err
	}
	startTime = result.StartTime.AddDate(0, 0, -1)
	endTime = result.EndTime.AddDate(0, 0, 1)

	return startTime, endTime, nil
}

// GetRuns retrieves run records with filtering, newest first.
func (cm *CronJobManager) GetRuns(
	ctx context.Context,
	startTime *time.Time,
	endTime *time.Time,
	status *string,
) (records []*model.CheckRun, total int64, err error) {
	filtered := func(tx *gorm.DB) *gorm.DB {
		if startTime != nil {
			tx = tx.Where("execute_time >= ?", *startTime)
		}
		if endTime != nil {
			tx = tx.Where("execute_time <= ?", *endTime)
		}
		if status != nil {
			tx = tx.Where("status = ?", *status)
		}
		return tx
	}

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tx := filtered(query.GetDB().WithContext(groupCtx).Model(&model.CheckRun{}))
		if err := tx.Order("execute_time desc").Find(&records).Error; err != nil {
			err := fmt.Errorf("CronJobManager.GetRuns: %w", err)
			klog.Error(err)
			return err
		}
		return nil
	})

	g.Go(func() error {
		tx := filtered(query.GetDB().WithContext(groupCtx).Model(&model.CheckRun{}))
		if err := tx.Count(&total).Error; err != nil {
			err := fmt.Errorf("CronJobManager.GetRuns: %w", err)
			klog.Error(err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// DeleteRuns deletes run records based on the given criteria.
func (cm *CronJobManager) DeleteRuns(
	ctx context.Context,
	ids []uint,
	startTime *time.Time,
	endTime *time.Time,
) (int64, error) {
	if len(ids) == 0 && startTime == nil && endTime == nil {
		return 0, fmt.Errorf("CronJobManager.DeleteRuns: no filter given")
	}

	tx := query.GetDB().WithContext(ctx)

	if len(ids) > 0 {
		tx = tx.Where("id IN ?", ids)
	}
	if startTime != nil {
		tx = tx.Where("execute_time >= ?", *startTime)
	}
	if endTime != nil {
		tx = tx.Where("execute_time <= ?", *endTime)
	}

	res := tx.Delete(&model.CheckRun{})
	if err := res.Error; err != nil {
		err := fmt.Errorf("CronJobManager.DeleteRuns: %w", err)
		klog.Error(err)
		return 0, err
	}

	return res.RowsAffected, nil
}
