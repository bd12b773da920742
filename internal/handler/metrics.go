package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/dao/model"
	"github.com/lantern-labs/beacon-backend/dao/query"
)

type MetricsMgr struct {
	name string
}

func NewMetricsMgr(_ *RegisterConfig) Manager {
	return &MetricsMgr{
		name: "metrics",
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("metrics", mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterCron(_ *gin.RouterGroup) {}

var registry *prometheus.Registry

var promHTTPHandler http.Handler

var signupsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "beacon_signups_total",
		Help: "Total number of waitlist signups",
	},
)

var failedRunsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "beacon_failed_check_runs_total",
		Help: "Total number of failed health-check runs on record",
	},
)

var checkRunsGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "beacon_check_runs_total",
		Help: "Total number of health-check runs on record",
	},
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
	registry = prometheus.NewRegistry()
	promHTTPHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	registry.MustRegister(signupsGauge, checkRunsGauge, failedRunsGauge)
}

// GetMetrics godoc
//
//	@Summary		Prometheus metrics
//	@Description	Signup and health-check totals, refreshed from the database on scrape
//	@Tags			Metrics
//	@Produce		plain
//	@Success		200	{string}	string	"Prometheus exposition format"
//	@Router			/v1/metrics [get]
func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	db := query.GetDB().WithContext(c.Request.Context())

	var signups, runs, failedRuns int64
	if err := db.Model(&model.Signup{}).Count(&signups).Error; err != nil {
		klog.Errorf("metrics: count signups: %v", err)
	}
	if err := db.Model(&model.CheckRun{}).Count(&runs).Error; err != nil {
		klog.Errorf("metrics: count check runs: %v", err)
	}
	if err := db.Model(&model.CheckRun{}).
		Where("status = ?", model.CheckRunStatusFailed).
		Count(&failedRuns).Error; err != nil {
		klog.Errorf("metrics: count failed check runs: %v", err)
	}

	signupsGauge.Set(float64(signups))
	checkRunsGauge.Set(float64(runs))
	failedRunsGauge.Set(float64(failedRuns))

	promHTTPHandler.ServeHTTP(c.Writer, c.Request)
}
