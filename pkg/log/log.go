package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Production gets JSON output; anything
// else gets the console encoder for readable operator sessions.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Must wraps New for callers with no way to recover from a logger
// construction failure.
func Must(environment string) *zap.Logger {
	logger, err := New(environment)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
