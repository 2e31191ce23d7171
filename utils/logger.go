package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared structured logger. InitLogger must run before anything
// else touches it; until then it is a nop logger so tests don't need setup.
var Log = zap.NewNop()

// InitLogger builds the production JSON logger. Level comes from LOG_LEVEL
// (debug|info|warn|error), defaulting to info.
func InitLogger() {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		panic("logger init failed: " + err.Error())
	}
	Log = logger
}
