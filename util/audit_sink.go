package util

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxLogValueRunes = 200

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if utf8.RuneCountInString(value) > maxLogValueRunes {
		value = string([]rune(value)[:maxLogValueRunes]) + "..."
	}
	return value
}

// LoggerSink writes one structured line per audit entry.
type LoggerSink struct {
	logger *zap.Logger
}

func NewLoggerSink(logger *zap.Logger) *LoggerSink {
	return &LoggerSink{logger: logger.Named("audit")}
}

func (s *LoggerSink) Write(_ context.Context, e audit.SystemLog) error {
	fields := []zap.Field{
		zap.String("id", e.ID),
		zap.Time("timestamp", e.Timestamp),
		zap.String("user_name", sanitizeLogValue(e.UserName)),
		zap.String("user_id", sanitizeLogValue(e.UserID)),
		zap.String("access_level", string(e.AccessLevel)),
		zap.String("details", sanitizeLogValue(e.Details)),
		zap.String("module", sanitizeLogValue(e.Origin.Module)),
		zap.String("device", sanitizeLogValue(e.Origin.Device)),
		zap.String("browser", sanitizeLogValue(e.Origin.Browser)),
		zap.String("ip", sanitizeLogValue(e.Origin.IPAddress)),
		zap.String("network", e.Origin.Network.Type),
		zap.String("result", string(e.Result)),
	}
	if e.InteractionType != "" {
		fields = append(fields, zap.String("interaction", string(e.InteractionType)))
	}

	action := sanitizeLogValue(e.Action)
	if e.Result == audit.ResultError {
		s.logger.Warn(action, fields...)
	} else {
		s.logger.Info(action, fields...)
	}
	return nil
}

// GormSink mirrors audit entries into the system_logs table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, e audit.SystemLog) error {
	rec, err := newSystemLogRecord(e)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func newSystemLogRecord(e audit.SystemLog) (model.SystemLogRecord, error) {
	origin, err := json.Marshal(e.Origin)
	if err != nil {
		return model.SystemLogRecord{}, err
	}
	session, err := json.Marshal(e.Session)
	if err != nil {
		return model.SystemLogRecord{}, err
	}
	var element datatypes.JSON
	if e.ElementInfo != nil {
		b, err := json.Marshal(e.ElementInfo)
		if err != nil {
			return model.SystemLogRecord{}, err
		}
		element = datatypes.JSON(b)
	}

	// Best-effort; "not available" and private addresses resolve to nothing.
	location := GetIPLocation(e.Origin.IPAddress)

	return model.SystemLogRecord{
		LogID:           e.ID,
		Timestamp:       e.Timestamp,
		UserName:        sanitizeLogValue(e.UserName),
		UserID:          e.UserID,
		AccessLevel:     string(e.AccessLevel),
		Action:          sanitizeLogValue(e.Action),
		Details:         e.Details,
		Module:          e.Origin.Module,
		IP:              sanitizeLogValue(e.Origin.IPAddress),
		Result:          string(e.Result),
		InteractionType: string(e.InteractionType),
		Location:        sanitizeLogValue(location.String()),
		Origin:          datatypes.JSON(origin),
		Session:         datatypes.JSON(session),
		ElementInfo:     element,
	}, nil
}

// RedisSink keeps the most recent entries as JSON in a capped Redis list,
// newest at the head.
type RedisSink struct {
	rdb *redis.Client
	key string
	max int64
}

func NewRedisSink(rdb *redis.Client, key string, max int64) *RedisSink {
	return &RedisSink{rdb: rdb, key: key, max: max}
}

func (s *RedisSink) Write(ctx context.Context, e audit.SystemLog) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := s.rdb.LPush(ctx, s.key, string(b)).Err(); err != nil {
		return err
	}
	if s.max > 0 {
		return s.rdb.LTrim(ctx, s.key, 0, s.max-1).Err()
	}
	return nil
}

var (
	auditLogsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_logs_total",
			Help: "Total number of audit entries stored",
		},
		[]string{"access_level", "result"},
	)

	auditInactivityTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_inactivity_events_total",
			Help: "Total number of inactivity periods detected",
		},
	)

	auditSinkDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_sink_dropped_total",
			Help: "Audit entries not mirrored because the sink queue was full",
		},
	)
)

// MetricsSink counts audit entries in Prometheus.
type MetricsSink struct{}

func (MetricsSink) Write(_ context.Context, e audit.SystemLog) error {
	auditLogsTotal.WithLabelValues(string(e.AccessLevel), string(e.Result)).Inc()
	if e.Action == audit.ActionInactivity {
		auditInactivityTotal.Inc()
	}
	return nil
}

// Dropped implements audit.DropCounter.
func (MetricsSink) Dropped(audit.SystemLog) {
	auditSinkDropped.Inc()
}
