package util

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	loggerOnce   sync.Once
)

// InitLogger builds the process logger once and installs it as zap's global.
// production gets sampled ISO8601 output; anything else gets a colored development encoder.
func InitLogger(environment, level, format string) *zap.Logger {
	loggerOnce.Do(func() {
		var config zap.Config

		if environment == "production" {
			config = zap.NewProductionConfig()
			config.EncoderConfig.TimeKey = "timestamp"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			config.DisableStacktrace = true
			config.Sampling = &zap.SamplingConfig{
				Initial:    100,
				Thereafter: 100,
			}
		} else {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		config.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

		if format == "json" {
			config.Encoding = "json"
		} else {
			config.Encoding = "console"
		}
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}

		var err error
		globalLogger, err = config.Build(zap.AddCaller())
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		zap.ReplaceGlobals(globalLogger)
	})

	return globalLogger
}

// Logger returns the process logger, falling back to a production JSON logger.
func Logger() *zap.Logger {
	if globalLogger == nil {
		return InitLogger("production", "info", "json")
	}
	return globalLogger
}

// SyncLogger flushes any buffered log entries
func SyncLogger() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// SetLoggerForTest replaces the process logger, e.g. with an observer core.
func SetLoggerForTest(l *zap.Logger) {
	globalLogger = l
}

func parseLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
