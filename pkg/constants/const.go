package constants

const (
	APIPrefix = "/v1"

	// CronAPIPrefix groups the endpoints reserved for the external scheduler.
	CronAPIPrefix = "/v1/cron"
)
