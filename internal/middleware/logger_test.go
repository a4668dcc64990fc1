package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newLoggedRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(log), OptionalAuth())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestLoggerIncludesAuthenticatedUser(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newLoggedRouter(zap.New(core))

	token, err := jwt.Sign("user-42", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	ctx := entry.ContextMap()
	assert.Equal(t, "user-42", ctx["user"])
	assert.Equal(t, "/ping", ctx["path"])
}

func TestLoggerOmitsUserWhenAnonymous(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newLoggedRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["user"]
	assert.False(t, ok)
}
