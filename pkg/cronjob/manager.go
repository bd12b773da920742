package cronjob

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/dao/model"
	"github.com/lantern-labs/beacon-backend/dao/query"
	"github.com/lantern-labs/beacon-backend/pkg/alert"
	"github.com/lantern-labs/beacon-backend/pkg/config"
	"github.com/lantern-labs/beacon-backend/pkg/constants"
	"github.com/lantern-labs/beacon-backend/pkg/probe"
)

const runTimeout = 60 * time.Second

// CheckRunSummary is the structured result of one health-check execution.
// The HTTP trigger returns it verbatim; the in-process scheduler only logs it.
type CheckRunSummary struct {
	RunID      string         `json:"runId"`
	Success    bool           `json:"success"`
	Timestamp  time.Time      `json:"timestamp"`
	DurationMs int64          `json:"duration"`
	Results    []probe.Result `json:"results"`
	AlertSent  bool           `json:"alertSent"`
}

// CronJobManager runs the periodic health check. The same execution path
// serves the external scheduler trigger and the optional in-process cron.
type CronJobManager struct {
	prober    *probe.Prober
	alerter   alert.AlertInterface
	cron      *cron.Cron
	cronMutex sync.Mutex
}

func NewCronJobManager(prober *probe.Prober, alerter alert.AlertInterface) *CronJobManager {
	return &CronJobManager{
		prober:  prober,
		alerter: alerter,
		cron:    cron.New(cron.WithLocation(time.Local)),
	}
}

// HealthCheckTargets lists the URLs probed on every run: the homepage and
// the self health-status endpoint.
func HealthCheckTargets(baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	return []string{
		base + "/",
		base + constants.APIPrefix + "/health",
	}
}

// RunHealthCheck probes all targets concurrently, dispatches an alert when
// anything failed, and persists a run record. It never returns an error:
// every failure mode ends up in the summary.
func (cm *CronJobManager) RunHealthCheck(ctx context.Context, baseURL string) *CheckRunSummary {
	start := time.Now()

	results := cm.prober.ProbeAll(ctx, HealthCheckTargets(baseURL))
	success := lo.EveryBy(results, func(r probe.Result) bool { return r.Success })

	alertSent := false
	if !success {
		alertSent = cm.alerter.Dispatch(ctx, results, baseURL, "")
	}

	summary := &CheckRunSummary{
		RunID:      uuid.NewString(),
		Success:    success,
		Timestamp:  start,
		DurationMs: time.Since(start).Milliseconds(),
		Results:    results,
		AlertSent:  alertSent,
	}
	cm.recordRun(ctx, summary)
	return summary
}

// recordRun persists the run. Best-effort: a broken database must not turn
// a completed health check into a failure.
func (cm *CronJobManager) recordRun(ctx context.Context, summary *CheckRunSummary) {
	resultsJSON, err := json.Marshal(summary.Results)
	if err != nil {
		klog.Errorf("CronJobManager.recordRun: marshal results: %v", err)
		resultsJSON = []byte("[]")
	}

	status := model.CheckRunStatusSuccess
	var message string
	if !summary.Success {
		status = model.CheckRunStatusFailed
		failed := lo.FilterMap(summary.Results, func(r probe.Result, _ int) (string, bool) {
			return fmt.Sprintf("%s: %s", r.URL, r.Error), !r.Success
		})
		message = strings.Join(failed, "; ")
	}

	record := &model.CheckRun{
		RunID:       summary.RunID,
		ExecuteTime: summary.Timestamp,
		Status:      status,
		Message:     message,
		DurationMs:  summary.DurationMs,
		Results:     datatypes.JSON(resultsJSON),
		AlertSent:   summary.AlertSent,
	}
	if err := query.GetDB().WithContext(ctx).Create(record).Error; err != nil {
		klog.Errorf("CronJobManager.recordRun: %v", err)
	}
}

// Start schedules the in-process health check from configuration and starts
// the cron scheduler. An empty schedule or the suspend flag disables it; the
// HTTP trigger keeps working either way.
func (cm *CronJobManager) Start(conf *config.Config) error {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()

	if conf.HealthCheck.Schedule == "" || conf.HealthCheck.Suspend {
		klog.Info("CronJobManager: in-process health check disabled")
		return nil
	}
	if conf.Host == "" {
		return fmt.Errorf("CronJobManager: healthCheck.schedule set but host is empty")
	}

	baseURL := conf.Host
	retainDays := conf.HealthCheck.RecordRetainDays
	_, err := cm.cron.AddFunc(conf.HealthCheck.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		summary := cm.RunHealthCheck(ctx, baseURL)
		klog.Infof("scheduled health check %s: success=%t duration=%dms alertSent=%t",
			summary.RunID, summary.Success, summary.DurationMs, summary.AlertSent)

		if retainDays > 0 {
			cutoff := time.Now().AddDate(0, 0, -retainDays)
			if deleted, err := cm.DeleteRuns(ctx, nil, nil, &cutoff); err == nil && deleted > 0 {
				klog.Infof("pruned %d health-check records older than %d days", deleted, retainDays)
			}
		}
	})
	if err != nil {
		klog.Error(err)
		return err
	}

	cm.cron.Start()
	klog.Infof("CronJobManager: health check scheduled on %q", conf.HealthCheck.Schedule)
	return nil
}

// StopCron stops the cron scheduler.
func (cm *CronJobManager) StopCron() {
	cm.cronMutex.Lock()
	defer cm.cronMutex.Unlock()
	cm.cron.Stop()
}
