package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CheckRunStatus string

const (
	CheckRunStatusUnknown CheckRunStatus = "unknown"
	CheckRunStatusSuccess CheckRunStatus = "success"
	CheckRunStatusFailed  CheckRunStatus = "failed"
)

// CheckRun records one execution of the scheduled health check, whether it
// was triggered by the external scheduler or by the in-process cron.
type CheckRun struct {
	gorm.Model
	RunID       string         `gorm:"type:varchar(36);not null;uniqueIndex;comment:run identifier" json:"runId"`
	ExecuteTime time.Time      `gorm:"not null;index;comment:execution time" json:"executeTime"`
	Status      CheckRunStatus `gorm:"type:varchar(32);not null;index;default:unknown;comment:overall outcome" json:"status"`
	Message     string         `gorm:"type:text;comment:failure summary, empty on success" json:"message"`
	DurationMs  int64          `gorm:"not null;comment:total wall time in milliseconds" json:"durationMs"`
	Results     datatypes.JSON `gorm:"type:jsonb;comment:per-target probe results" json:"results"`
	AlertSent   bool           `gorm:"not null;default:false;comment:whether an alert was delivered" json:"alertSent"`
}

func (CheckRun) TableName() string {
	return "check_runs"
}
