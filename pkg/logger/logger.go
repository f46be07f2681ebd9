package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// Init initializes the global logger. Later calls are no-ops.
func Init(level, format string) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(level, format)
	})
	return err
}

// Get returns the global logger, initializing it from LOG_LEVEL if needed.
func Get() *zap.Logger {
	if globalLogger == nil {
		_ = Init(getDefaultLevel(), FormatJSON)
	}
	return globalLogger
}

// Sync flushes any buffered log entries
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

// New builds a logger without touching the global one. The json format is the
// service default; console is meant for the CLI.
func New(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	if format == FormatConsole {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.InitialFields = map[string]interface{}{"service": "ustva-extractor"}
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"

	return config.Build()
}

func getDefaultLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}
