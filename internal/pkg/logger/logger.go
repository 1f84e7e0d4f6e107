package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 控制 logger 的输出
type Options struct {
	// Level: debug, info, warn, error，未知值回退到 info
	Level string
	// Format: json 或 console
	Format string
	// Output 默认 stderr，stdout 留给回答内容
	Output string
	// CallerSkip 跳过的调用栈层数
	CallerSkip int
}

// New 创建一个 JSON 格式、输出到 stderr 的 zap logger
func New(level string) (*zap.Logger, error) {
	return NewWithOptions(Options{Level: level})
}

// NewWithCallerSkip 创建 logger 并设置 caller skip
func NewWithCallerSkip(level string, skip int) (*zap.Logger, error) {
	return NewWithOptions(Options{Level: level, CallerSkip: skip})
}

// NewWithOptions 按 Options 构建 logger
func NewWithOptions(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if strings.EqualFold(opts.Format, "console") {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	output := opts.Output
	if output == "" {
		output = "stderr"
	}
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{"stderr"}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableCaller = false

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if opts.CallerSkip > 0 {
		logger = logger.WithOptions(zap.AddCallerSkip(opts.CallerSkip))
	}

	return logger, nil
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// WithCallerSkip 为现有的 logger 添加 caller skip
func WithCallerSkip(logger *zap.Logger, skip int) *zap.Logger {
	if logger == nil || skip <= 0 {
		return logger
	}
	return logger.WithOptions(zap.AddCallerSkip(skip))
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
