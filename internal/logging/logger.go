package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger создаёт структурированный JSON-логгер с заданным уровнем.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// WithOperation добавляет к логгеру операцию и номер цикла.
func WithOperation(logger *zap.Logger, operation string, cycleID uint64) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if cycleID != 0 {
		fields = append(fields, zap.Uint64("cycle_id", cycleID))
	}
	return logger.With(fields...)
}
