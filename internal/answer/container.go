// Package answer drives one question through a provider and renders the
// streamed answer card, followed by an optional promotion once the answer
// has completed.
package answer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/observability"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/remote"
)

// Status is the lifecycle state of a Container.
type Status string

const (
	StatusPending   Status = "pending"
	StatusStreaming Status = "streaming"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// ErrAlreadyRun is returned when Run is called a second time.
var ErrAlreadyRun = errors.New("answer container already ran")

// Renderer displays the answer card. RenderSupplement is called from a
// separate goroutine, after Run has returned.
type Renderer interface {
	RenderStatus(status Status)
	RenderAnswer(answer core.AnswerEvent)
	RenderError(err error)
	RenderSupplement(promotion *remote.Promotion)
}

// SupplementFetcher looks up the content shown below a successful answer.
type SupplementFetcher interface {
	FetchPromotion(ctx context.Context) (*remote.Promotion, error)
}

// Config wires a Container.
type Config struct {
	Provider   core.Provider
	Pipeline   *core.Pipeline
	Supplement SupplementFetcher
	Renderer   Renderer
	Logger     *zap.Logger
}

// Container holds the state of one question. It is single use.
type Container struct {
	provider   core.Provider
	pipeline   *core.Pipeline
	supplement SupplementFetcher
	renderer   Renderer
	zlog       *zap.Logger
	log        *logger.Logger

	mu        sync.Mutex
	started   bool
	status    Status
	answer    core.AnswerEvent
	err       error
	promotion *remote.Promotion

	supplementOnce sync.Once
	wg             sync.WaitGroup
}

// NewContainer creates a pending container. Renderer and Supplement may be nil.
func NewContainer(cfg Config) *Container {
	r := cfg.Renderer
	if r == nil {
		r = nopRenderer{}
	}
	zlog := logger.OrNop(cfg.Logger).Named("answer")
	return &Container{
		provider:   cfg.Provider,
		pipeline:   cfg.Pipeline,
		supplement: cfg.Supplement,
		renderer:   r,
		zlog:       zlog,
		log:        logger.Wrap(zlog),
		status:     StatusPending,
	}
}

// Run asks question and renders the answer as it streams. It returns when
// the stream completes, fails or ctx is cancelled. The returned error is
// also rendered through RenderError.
func (c *Container) Run(ctx context.Context, question string) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyRun
	}
	c.started = true
	c.mu.Unlock()

	if c.provider == nil {
		return c.fail(nil, fmt.Errorf("no provider configured"))
	}

	qctx := core.NewQueryContext(ctx, c.zlog)
	qctx.Provider = c.provider.ID()
	qctx.Model = c.provider.Model()
	c.renderer.RenderStatus(StatusPending)

	req := core.GenerateRequest{Prompt: question}
	if err := c.pipeline.ExecuteRequest(qctx, &req); err != nil {
		return c.fail(qctx, fmt.Errorf("request rejected: %w", err))
	}

	stream, err := c.provider.GenerateAnswer(qctx, req)
	if err != nil {
		return c.fail(qctx, err)
	}

	done := false
	for ev, err := range core.All(stream) {
		if err != nil {
			return c.fail(qctx, err)
		}
		switch ev := ev.(type) {
		case *core.AnswerEvent:
			c.update(*ev)
		case *core.DoneEvent:
			done = true
		default:
			qctx.Log.Warn("unknown stream event", zap.String("type", fmt.Sprintf("%T", ev)))
		}
	}
	if !done {
		// a stream may report io.EOF without ever sending Done
		return c.fail(qctx, core.ErrIncompleteStream)
	}

	return c.succeed(ctx, qctx)
}

func (c *Container) update(ev core.AnswerEvent) {
	c.mu.Lock()
	first := c.status != StatusStreaming
	c.status = StatusStreaming
	c.answer = ev
	c.mu.Unlock()

	if first {
		c.renderer.RenderStatus(StatusStreaming)
	}
	c.renderer.RenderAnswer(ev)
}

func (c *Container) succeed(ctx context.Context, qctx *core.QueryContext) error {
	c.mu.Lock()
	c.status = StatusSuccess
	text := c.answer.Text
	c.mu.Unlock()

	if err := c.pipeline.ExecuteResponse(qctx, text); err != nil {
		qctx.Log.Warn("response processor failed", zap.Error(err))
	}
	c.observe(qctx, StatusSuccess)
	c.renderer.RenderStatus(StatusSuccess)
	c.fetchSupplement(ctx)
	return nil
}

func (c *Container) fail(qctx *core.QueryContext, err error) error {
	c.mu.Lock()
	c.status = StatusError
	c.err = err
	c.mu.Unlock()

	if qctx != nil {
		if errors.Is(err, context.Canceled) {
			qctx.Log.Info("Query cancelled")
		} else {
			qctx.Log.Error("Query failed", zap.Error(err))
		}
		c.observe(qctx, StatusError)
	}
	c.renderer.RenderStatus(StatusError)
	c.renderer.RenderError(err)
	return err
}

func (c *Container) observe(qctx *core.QueryContext, status Status) {
	observability.QueriesTotal.WithLabelValues(qctx.Provider, string(status)).Inc()
	observability.QueryDuration.WithLabelValues(qctx.Provider).Observe(time.Since(qctx.StartTime).Seconds())
}

// fetchSupplement starts the promotion lookup at most once. It never blocks
// the caller; failures are logged and otherwise ignored.
func (c *Container) fetchSupplement(ctx context.Context) {
	if c.supplement == nil {
		return
	}
	c.supplementOnce.Do(func() {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			promotion, err := c.supplement.FetchPromotion(ctx)
			if err != nil {
				c.log.Debug("promotion lookup failed", zap.Error(err))
				return
			}
			if promotion == nil {
				return
			}

			c.mu.Lock()
			if c.status != StatusSuccess {
				c.mu.Unlock()
				return
			}
			c.promotion = promotion
			c.mu.Unlock()
			c.renderer.RenderSupplement(promotion)
		}()
	})
}

// Wait blocks until the supplementary lookup, if any, has finished.
func (c *Container) Wait() {
	c.wg.Wait()
}

// Status returns the current lifecycle state.
func (c *Container) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Answer returns the latest answer event received.
func (c *Container) Answer() core.AnswerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// Err returns the error that ended the container in StatusError.
func (c *Container) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Promotion returns the supplementary content, if it was rendered.
func (c *Container) Promotion() *remote.Promotion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.promotion
}

type nopRenderer struct{}

func (nopRenderer) RenderStatus(Status)                {}
func (nopRenderer) RenderAnswer(core.AnswerEvent)      {}
func (nopRenderer) RenderError(error)                  {}
func (nopRenderer) RenderSupplement(*remote.Promotion) {}
