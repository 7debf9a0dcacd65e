package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap logger appropriate for the given environment.
// Development gets console output with colors; everything else gets
// production JSON with ISO8601 timestamps.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewNamed creates a logger with the service name attached to every entry.
func NewNamed(env, service string) (*zap.Logger, error) {
	log, err := New(env)
	if err != nil {
		return nil, err
	}
	return log.Named(service), nil
}
