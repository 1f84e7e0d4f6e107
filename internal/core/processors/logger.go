package processors

import (
	"time"

	"go.uber.org/zap"

	"answerlens/internal/core"
)

// RequestLogger 记录每次查询的开始和结束
type RequestLogger struct {
	name     string
	priority int
}

// NewRequestLogger 创建一个新的请求日志处理器
func NewRequestLogger() *RequestLogger {
	return &RequestLogger{
		name:     "request-logger",
		priority: -100, // 必须是第一个执行
	}
}

// Name 返回处理器名称
func (r *RequestLogger) Name() string {
	return r.name
}

// Priority 返回处理器优先级
func (r *RequestLogger) Priority() int {
	return r.priority
}

// OnRequest 记录查询开始，不修改请求
// request_id 已经在 QueryContext 创建时注入
func (r *RequestLogger) OnRequest(ctx *core.QueryContext, req *core.GenerateRequest) error {
	ctx.Log.Info("Query Started",
		zap.String("provider", ctx.Provider),
		zap.String("model", ctx.Model),
		zap.Int("prompt_chars", len(req.Prompt)),
	)
	return nil
}

// OnResponse 记录查询完成和延迟
func (r *RequestLogger) OnResponse(ctx *core.QueryContext, answer string) error {
	fields := []zap.Field{
		zap.Duration("latency", time.Since(ctx.StartTime)),
		zap.Int("answer_chars", len(answer)),
		zap.String("status", "Success"),
	}
	if n, ok := ctx.GetMetadata(MetadataRedactions); ok {
		fields = append(fields, zap.Any("redactions", n))
	}
	ctx.Log.Info("Query Finished", fields...)
	return nil
}
