package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds JSON logging in production and console logging
// elsewhere, at the configured level.
func NewLogger(s Settings) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if s.Production() {
		cfg = zap.NewProductionConfig()
	}
	if s.LogLevel != "" {
		level, err := zapcore.ParseLevel(s.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config: log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	return cfg.Build()
}
