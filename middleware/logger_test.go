package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	original := util.Logger()
	util.SetLoggerForTest(zap.New(core))
	t.Cleanup(func() { util.SetLoggerForTest(original) })
	return logs
}

func TestRequestLogger(t *testing.T) {
	logs := observeLogs(t)
	setGinTestMode()

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/clients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/clients/7?verbose=1", nil)
	req.RemoteAddr = "192.168.1.100:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	entries := logs.FilterLoggerName("http").All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/clients/7", ok["path"])
	assert.Equal(t, "/clients/:id", ok["route"])
	assert.Equal(t, int64(200), ok["status"])
	assert.Equal(t, "verbose=1", ok["query"])
	assert.Equal(t, "192.168.1.100", ok["client_ip"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMetricsMiddleware(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/contract/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/contract/:id", "200")
	unmatched := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contract/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contract/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
	assert.Equal(t, float64(0), testutil.ToFloat64(ActiveRequests))
}
