package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"github.com/lantern-labs/beacon-backend/pkg/config"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewHealthMgr)
}

type HealthMgr struct {
	name string
	conf *config.Config
}

func NewHealthMgr(conf *RegisterConfig) Manager {
	return &HealthMgr{
		name: "health",
		conf: conf.Config,
	}
}

func (mgr *HealthMgr) GetName() string { return mgr.name }

func (mgr *HealthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET("health", mgr.GetHealth)
}

func (mgr *HealthMgr) RegisterCron(_ *gin.RouterGroup) {}

type HealthResp struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Checks    map[string]bool `json:"checks"`
	Error     string          `json:"error,omitempty"`
}

// GetHealth godoc
//
//	@Summary		Service health status
//	@Description	Configuration-presence checks; scraped by the scheduled health check
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	HealthResp	"All checks passed"
//	@Failure		503	{object}	HealthResp	"One or more checks failed"
//	@Router			/v1/health [get]
func (mgr *HealthMgr) GetHealth(c *gin.Context) {
	// This endpoint exists to be scraped; it must answer even when a check
	// itself blows up.
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("health check panic: %v", r)
			c.JSON(http.StatusServiceUnavailable, HealthResp{
				Status:    "error",
				Timestamp: time.Now(),
				Checks:    map[string]bool{},
				Error:     "internal error during health evaluation",
			})
		}
	}()

	checks := map[string]bool{
		"database":    mgr.conf.Postgres.Host != "",
		"environment": mgr.conf.Environment != "",
	}

	var failures []string
	if !checks["database"] {
		failures = append(failures, "database connection not configured")
	}
	if !checks["environment"] {
		failures = append(failures, "environment name not set")
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, HealthResp{
			Status:    "error",
			Timestamp: time.Now(),
			Checks:    checks,
			Error:     strings.Join(failures, "; "),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResp{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    checks,
	})
}
