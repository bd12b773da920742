package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lantern-labs/beacon-backend/pkg/config"
)

func healthRouter(conf *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mgr := &HealthMgr{name: "health", conf: conf}
	mgr.RegisterPublic(r.Group("/v1"))
	return r
}

func getHealth(t *testing.T, conf *config.Config) (int, HealthResp) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", http.NoBody)
	w := httptest.NewRecorder()
	healthRouter(conf).ServeHTTP(w, req)

	var resp HealthResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthOK(t *testing.T) {
	conf := &config.Config{Environment: "production"}
	conf.Postgres.Host = "db.internal"

	code, resp := getHealth(t, conf)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Checks["database"])
	assert.True(t, resp.Checks["environment"])
	assert.Empty(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealthDatabaseUnconfigured(t *testing.T) {
	conf := &config.Config{Environment: "production"}

	code, resp := getHealth(t, conf)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Checks["database"])
	assert.True(t, resp.Checks["environment"])
	assert.Contains(t, resp.Error, "database")
}

func TestHealthEverythingMissing(t *testing.T) {
	code, resp := getHealth(t, &config.Config{})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "database")
	assert.Contains(t, resp.Error, "environment")
}

func TestHealthRecoversFromPanic(t *testing.T) {
	// A nil config makes check evaluation blow up; the endpoint must still
	// answer with the error shape instead of dropping the connection.
	code, resp := getHealth(t, nil)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}
