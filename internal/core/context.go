package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QueryContext extends standard context with per-query fields
type QueryContext struct {
	context.Context
	RequestID string
	Provider  string
	Model     string
	StartTime time.Time
	Log       *zap.Logger

	mu       sync.RWMutex
	metadata map[string]interface{}
}

// NewQueryContext creates a QueryContext with a fresh request id. The
// logger is scoped with the request id.
func NewQueryContext(ctx context.Context, logger *zap.Logger) *QueryContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	requestID := "q_" + uuid.NewString()
	return &QueryContext{
		Context:   ctx,
		RequestID: requestID,
		StartTime: time.Now(),
		Log:       logger.With(zap.String("request_id", requestID)),
		metadata:  make(map[string]interface{}),
	}
}

// SetMetadata sets a metadata value (thread-safe)
func (c *QueryContext) SetMetadata(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// GetMetadata gets a metadata value (thread-safe)
func (c *QueryContext) GetMetadata(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.metadata[key]
	return v, ok
}

// Metadata returns a copy of all metadata (thread-safe)
func (c *QueryContext) Metadata() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]interface{}, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}
