package logging

import (
	"go.uber.org/zap"
)

// ZapLogger adapts a zap logger to the Logger interface. Key/value pairs are
// passed through the sugared logger, so they become structured fields.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level LogLevel
}

// NewZapLogger wraps logger. A nil logger is replaced by zap.NewNop.
func NewZapLogger(logger *zap.Logger, level LogLevel) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{
		sugar: logger.Sugar(),
		level: level,
	}
}

func (l *ZapLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...any) {
	if l.level >= LogLevelDebug {
		l.sugar.Debugw(msg, keysAndValues...)
	}
}

func (l *ZapLogger) Info(msg string, keysAndValues ...any) {
	if l.level >= LogLevelInfo {
		l.sugar.Infow(msg, keysAndValues...)
	}
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...any) {
	if l.level >= LogLevelWarn {
		l.sugar.Warnw(msg, keysAndValues...)
	}
}

func (l *ZapLogger) Error(msg string, keysAndValues ...any) {
	if l.level >= LogLevelError {
		l.sugar.Errorw(msg, keysAndValues...)
	}
}

// Sync flushes buffered zap output.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
