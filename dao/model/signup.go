package model

import (
	"gorm.io/gorm"
)

// Signup is one waitlist registration from the landing page.
//
// Email carries a unique index so that two near-simultaneous submissions of
// the same address cannot both insert; the registrar treats the second one
// as a duplicate, never as an error.
type Signup struct {
	gorm.Model
	Email  string `gorm:"uniqueIndex;type:varchar(254);not null;comment:registrant address" json:"email"`
	Source string `gorm:"type:varchar(64);not null;comment:origin channel tag" json:"source"`
}

func (Signup) TableName() string {
	return "signups"
}
