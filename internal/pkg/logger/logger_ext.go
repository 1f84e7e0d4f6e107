package logger

import (
	"go.uber.org/zap"
)

// Logger wraps zap.Logger for components that log through helper methods,
// so the reported caller is the component and not the helper.
type Logger struct {
	*zap.Logger
}

// Wrap 将 zap.Logger 包装成扩展 Logger，nil 时使用 no-op logger
func Wrap(zapLogger *zap.Logger) *Logger {
	return &Logger{Logger: OrNop(zapLogger)}
}

// Skip 返回一个跳过指定层数调用栈的 Logger
func (l *Logger) Skip(skip int) *Logger {
	if skip <= 0 {
		return l
	}
	return &Logger{Logger: l.Logger.WithOptions(zap.AddCallerSkip(skip))}
}

// Debug logs at DebugLevel, reporting the caller of this method.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.Logger.WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Info logs at InfoLevel, reporting the caller of this method.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.Logger.WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

// Warn logs at WarnLevel, reporting the caller of this method.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.Logger.WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

// Error logs at ErrorLevel, reporting the caller of this method.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.Logger.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

// With adds fields and returns a new Logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Named adds a name segment and returns a new Logger.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}
