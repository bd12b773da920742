package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func cronRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cron/ping", CronAuthProtected(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/cron/ping", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCronAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
	}{
		{"missing header", "s3cret", ""},
		{"wrong token", "s3cret", "Bearer nope"},
		{"not bearer", "s3cret", "Basic s3cret"},
		{"malformed header", "s3cret", "Bearers3cret"},
		{"unconfigured secret fails closed", "", "Bearer s3cret"},
		{"unconfigured secret with empty token", "", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(cronRouter(tt.secret), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestCronAuthAccepts(t *testing.T) {
	w := doRequest(cronRouter("s3cret"), "Bearer s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
}
