// Package logger holds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"

	"sound-byte/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Initialize replaces the global logger. Env "production" writes JSON,
// anything else writes console lines. An empty level means info.
func Initialize(cfg config.LoggerConfig) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("logger level: %w", err)
		}
		level = parsed
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.SecondsDurationEncoder

	var encoder zapcore.Encoder
	if cfg.Env == "production" {
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		encoder = zapcore.NewConsoleEncoder(enc)
	}

	log = zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return nil
}

// Get returns the global logger, a no-op until Initialize runs.
func Get() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}
