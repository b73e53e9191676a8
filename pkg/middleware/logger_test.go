package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gobusters/ectologger/zapadapter"

	"github.com/beanmap/drip/pkg/middleware"
)

func newObservedEcho() (*echo.Echo, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zapadapter.NewZapEctoLogger(zap.New(core), nil)

	e := echo.New()
	e.Use(middleware.Logger(logger))
	e.POST("/api/v2/webhook", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/api/v1/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	return e, logs
}

func TestLoggerLogsRequests(t *testing.T) {
	e, logs := newObservedEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v2/webhook", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Request", logs.All()[0].Message)
}

func TestLoggerSkipsHealthAndMetrics(t *testing.T) {
	e, logs := newObservedEcho()

	for _, path := range []string{"/api/v1/health/live", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
	}

	assert.Equal(t, 0, logs.Len())
}
