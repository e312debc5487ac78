// Package logger wraps a process-wide zap logger. Until Init is called every
// call is a no-op, which keeps tests and scripts quiet.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents logger configuration
type Config struct {
	Level  string
	Format string // console or json
}

var sugar = zap.NewNop().Sugar()

// Init builds the global logger.
func Init(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

// Replace swaps the global logger.
func Replace(l *zap.Logger) {
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Debug(msg string, keysAndValues ...interface{}) { sugar.Debugw(msg, keysAndValues...) }

func Info(msg string, keysAndValues ...interface{}) { sugar.Infow(msg, keysAndValues...) }

func Warn(msg string, keysAndValues ...interface{}) { sugar.Warnw(msg, keysAndValues...) }

func Error(msg string, keysAndValues ...interface{}) { sugar.Errorw(msg, keysAndValues...) }

// Fatal logs and exits the process.
func Fatal(msg string, keysAndValues ...interface{}) { sugar.Fatalw(msg, keysAndValues...) }

// Sync flushes buffered entries.
func Sync() {
	_ = sugar.Sync()
}
