package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/dao/model"
	"github.com/lantern-labs/beacon-backend/internal/resputil"
	"github.com/lantern-labs/beacon-backend/pkg/cronjob"
	"github.com/lantern-labs/beacon-backend/pkg/probe"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewCronMgr)
}

type CronMgr struct {
	name    string
	cronMgr *cronjob.CronJobManager
}

func NewCronMgr(conf *RegisterConfig) Manager {
	return &CronMgr{
		name:    "cron",
		cronMgr: conf.CronMgr,
	}
}

func (mgr *CronMgr) GetName() string { return mgr.name }

func (mgr *CronMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *CronMgr) RegisterCron(g *gin.RouterGroup) {
	g.GET("health-check", mgr.RunHealthCheck)
	g.GET("runs", mgr.GetRuns)
	g.GET("runs/timerange", mgr.GetRunTimeRange)
	g.DELETE("runs", mgr.DeleteRuns)
}

// RunHealthCheck godoc
//
//	@Summary		Run the health check
//	@Description	Probes the service's own public surface and alerts on failures; always answers 200 when the check ran
//	@Tags			Cron
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	cronjob.CheckRunSummary	"Run summary"
//	@Failure		401	{object}	map[string]string	"Missing or invalid scheduler token"
//	@Router			/v1/cron/health-check [get]
func (mgr *CronMgr) RunHealthCheck(c *gin.Context) {
	baseURL := requestBaseURL(c)
	summary := mgr.cronMgr.RunHealthCheck(c.Request.Context(), baseURL)
	if !summary.Success {
		failures := lo.FilterMap(summary.Results, func(r probe.Result, _ int) (string, bool) {
			return r.Error, !r.Success
		})
		klog.Warningf("health check %s found failures: %v", summary.RunID, failures)
	}
	// 200 means "the check ran", not "the checks passed".
	c.JSON(http.StatusOK, summary)
}

// requestBaseURL derives the public base URL from the incoming request, so
// the handler probes whatever host is actually serving it.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

type GetRunsReq struct {
	StartTime *time.Time `form:"startTime"`
	EndTime   *time.Time `form:"endTime"`
	Status    *string    `form:"status"`
}

type GetRunsResp struct {
	Total int64             `json:"total"`
	Runs  []*model.CheckRun `json:"runs"`
}

// GetRuns godoc
//
//	@Summary		List health-check runs
//	@Description	Run records filtered by time range and status, newest first
//	@Tags			Cron
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[GetRunsResp]	"Run records"
//	@Failure		400	{object}	resputil.Response[any]	"Request parameter error"
//	@Failure		500	{object}	resputil.Response[any]	"Other errors"
//	@Router			/v1/cron/runs [get]
func (mgr *CronMgr) GetRuns(c *gin.Context) {
	var req GetRunsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	runs, total, err := mgr.cronMgr.GetRuns(c.Request.Context(), req.StartTime, req.EndTime, req.Status)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.ServiceError)
		return
	}
	resputil.Success(c, GetRunsResp{Total: total, Runs: runs})
}

// GetRunTimeRange godoc
//
//	@Summary		Run record time range
//	@Tags			Cron
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[any]	"Start and end time"
//	@Failure		500	{object}	resputil.Response[any]	"Other errors"
//	@Router			/v1/cron/runs/timerange [get]
func (mgr *CronMgr) GetRunTimeRange(c *gin.Context) {
	startTime, endTime, err := mgr.cronMgr.GetRunTimeRange(c.Request.Context())
	if err != nil {
		resputil.Error(c, err.Error(), resputil.ServiceError)
		return
	}
	resputil.Success(c, map[string]any{
		"startTime": startTime,
		"endTime":   endTime,
	})
}

type DeleteRunsReq struct {
	IDs       []uint     `json:"ids"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// DeleteRuns godoc
//
//	@Summary		Delete health-check runs
//	@Tags			Cron
//	@Accept			json
//	@Produce		json
//	@Security		Bearer
//	@Success		200	{object}	resputil.Response[any]	"Number of deleted records"
//	@Failure		400	{object}	resputil.Response[any]	"Request parameter error"
//	@Failure		500	{object}	resputil.Response[any]	"Other errors"
//	@Router			/v1/cron/runs [delete]
func (mgr *CronMgr) DeleteRuns(c *gin.Context) {
	var req DeleteRunsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	deleted, err := mgr.cronMgr.DeleteRuns(c.Request.Context(), req.IDs, req.StartTime, req.EndTime)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.ServiceError)
		return
	}
	resputil.Success(c, map[string]any{"deleted": deleted})
}
