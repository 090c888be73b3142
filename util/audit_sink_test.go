package util

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sampleSystemLog() audit.SystemLog {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return audit.SystemLog{
		ID:          "log-1",
		Timestamp:   start.Add(10 * time.Minute),
		UserName:    "Admin",
		UserID:      "admin-001",
		AccessLevel: audit.AccessAdmin,
		Action:      "Client Registration",
		Details:     "Registered client João Silva",
		Origin: audit.Origin{
			Module:    "Clients",
			Device:    "Windows 10.0 (desktop)",
			Browser:   "Chrome 120.0",
			IPAddress: audit.NotAvailable,
			Network:   audit.UnavailableNetwork,
		},
		Session: audit.UserSession{
			StartTime:     start,
			LastActivity:  start.Add(9 * time.Minute),
			LoginAttempts: 1,
			IPAddress:     audit.NotAvailable,
		},
		Result: audit.ResultSuccess,
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes newlines", "hello\nworld", "hello world"},
		{"removes carriage returns", "hello\rworld", "hello world"},
		{"removes tabs", "hello\tworld", "hello world"},
		{"truncates long values", strings.Repeat("a", 250), strings.Repeat("a", 200) + "..."},
		{"truncates on rune boundary", strings.Repeat("ç", 250), strings.Repeat("ç", 200) + "..."},
		{"keeps short multibyte values", strings.Repeat("ã", 150), strings.Repeat("ã", 150)},
		{"handles empty string", "", ""},
		{"combines multiple issues", "line1\nline2\rline3\ttab", "line1 line2 line3 tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLogValue(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestLoggerSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewLoggerSink(zap.New(core))

	e := sampleSystemLog()
	e.Details = "injected\nFAKE LINE"
	require.NoError(t, sink.Write(context.Background(), e))

	e.Result = audit.ResultError
	e.InteractionType = audit.InteractionClick
	require.NoError(t, sink.Write(context.Background(), e))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "audit", first.LoggerName)
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.Equal(t, "Client Registration", first.Message)
	fields := first.ContextMap()
	assert.Equal(t, "injected FAKE LINE", fields["details"])
	assert.Equal(t, "admin", fields["access_level"])
	assert.NotContains(t, fields, "interaction")

	second := entries[1]
	assert.Equal(t, zapcore.WarnLevel, second.Level)
	assert.Equal(t, "click", second.ContextMap()["interaction"])
}

func setupSinkTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_sink_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.SystemLogRecord{}))
	return db
}

func TestGormSink(t *testing.T) {
	db := setupSinkTestDB(t)
	sink := NewGormSink(db)

	e := sampleSystemLog()
	e.ElementInfo = &audit.ElementInfo{ID: "save", Type: "submit"}
	require.NoError(t, sink.Write(context.Background(), e))

	var rec model.SystemLogRecord
	require.NoError(t, db.Where("log_id = ?", "log-1").First(&rec).Error)
	assert.Equal(t, "Client Registration", rec.Action)
	assert.Equal(t, "Clients", rec.Module)
	assert.Equal(t, "admin", rec.AccessLevel)
	assert.Equal(t, audit.NotAvailable, rec.IP)
	assert.Empty(t, rec.Location)
	assert.True(t, e.Timestamp.Equal(rec.Timestamp))

	var origin audit.Origin
	require.NoError(t, json.Unmarshal(rec.Origin, &origin))
	assert.Equal(t, e.Origin, origin)

	var session map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Session, &session))
	assert.Equal(t, float64(1), session["loginAttempts"])

	assert.JSONEq(t, `{"id":"save","type":"submit"}`, string(rec.ElementInfo))
}

func TestGormSink_DuplicateID(t *testing.T) {
	db := setupSinkTestDB(t)
	sink := NewGormSink(db)

	require.NoError(t, sink.Write(context.Background(), sampleSystemLog()))
	assert.Error(t, sink.Write(context.Background(), sampleSystemLog()))
}

func TestRedisSink(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	sink := NewRedisSink(rdb, "audit:logs", 100)

	e := sampleSystemLog()
	payload, err := json.Marshal(e)
	require.NoError(t, err)

	mock.ExpectLPush("audit:logs", string(payload)).SetVal(1)
	mock.ExpectLTrim("audit:logs", 0, 99).SetVal("OK")

	require.NoError(t, sink.Write(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_PushError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	sink := NewRedisSink(rdb, "audit:logs", 100)

	e := sampleSystemLog()
	payload, _ := json.Marshal(e)
	mock.ExpectLPush("audit:logs", string(payload)).SetErr(fmt.Errorf("connection refused"))

	assert.Error(t, sink.Write(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_Unbounded(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	sink := NewRedisSink(rdb, "audit:logs", 0)

	e := sampleSystemLog()
	payload, _ := json.Marshal(e)
	mock.ExpectLPush("audit:logs", string(payload)).SetVal(3)

	require.NoError(t, sink.Write(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsSink(t *testing.T) {
	sink := MetricsSink{}
	counter := auditLogsTotal.WithLabelValues("system", "success")
	before := testutil.ToFloat64(counter)
	beforeIdle := testutil.ToFloat64(auditInactivityTotal)
	beforeDropped := testutil.ToFloat64(auditSinkDropped)

	e := sampleSystemLog()
	e.AccessLevel = audit.AccessSystem
	e.Action = audit.ActionInactivity
	require.NoError(t, sink.Write(context.Background(), e))
	sink.Dropped(e)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, beforeIdle+1, testutil.ToFloat64(auditInactivityTotal))
	assert.Equal(t, beforeDropped+1, testutil.ToFloat64(auditSinkDropped))
}

func TestSinks_ThroughStore(t *testing.T) {
	db := setupSinkTestDB(t)
	core, logs := observer.New(zapcore.InfoLevel)

	store := audit.NewStore(audit.NewSessionTracker(nil), audit.Options{
		Probe: audit.StaticProbe(audit.UnavailableNetwork),
		Sinks: []audit.Sink{NewLoggerSink(zap.New(core)), NewGormSink(db)},
	})
	stored := store.AddLog(context.Background(), audit.LogEntry{
		UserName:    "Admin",
		UserID:      "admin-001",
		AccessLevel: audit.AccessAdmin,
		Action:      "Company Update",
		Origin:      audit.Origin{Module: "Company"},
		Result:      audit.ResultSuccess,
	})
	store.Close()

	var count int64
	require.NoError(t, db.Model(&model.SystemLogRecord{}).Where("log_id = ?", stored.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, logs.FilterMessage("Company Update").Len())
}
