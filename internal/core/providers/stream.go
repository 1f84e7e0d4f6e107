package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/observability"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/pkg/sse"
)

// DoneMarker is the frame that ends a completion stream.
const DoneMarker = "[DONE]"

// Framing tokens of the conversational prompt template. They never reach
// the accumulated answer.
const (
	tokenIMEnd = "<|im_end|>"
	tokenIMSep = "<|im_sep|>"
)

// frame is one decoded stream message.
type frame struct {
	token string
	id    string
	// skip marks frames that are well formed but carry no text.
	skip bool
}

// frameDecoder parses one data payload. An error marks the frame malformed.
type frameDecoder func(payload string) (frame, error)

// answerStream turns SSE frames into core events. It owns the accumulated
// answer of one request.
type answerStream struct {
	ctx      context.Context
	provider string
	body     io.ReadCloser
	frames   *sse.Reader
	decode   frameDecoder
	log      *logger.Logger

	answer strings.Builder
	done   bool
	err    error

	closed      atomic.Bool
	releaseOnce sync.Once
}

func newAnswerStream(ctx context.Context, provider string, body io.ReadCloser, decode frameDecoder, log *logger.Logger) *answerStream {
	observability.StreamsActive.Inc()
	return &answerStream{
		ctx:      ctx,
		provider: provider,
		body:     body,
		frames:   sse.NewReader(body),
		decode:   decode,
		log:      log,
	}
}

// Next implements core.EventStream.
func (s *answerStream) Next() (core.Event, error) {
	if s.closed.Load() {
		return nil, core.ErrStreamClosed
	}
	if s.done {
		return nil, io.EOF
	}
	if s.err != nil {
		return nil, s.err
	}

	for {
		if err := s.ctx.Err(); err != nil {
			return nil, s.fail(err)
		}

		payload, err := s.frames.Next()
		if err != nil {
			if ctxErr := s.ctx.Err(); ctxErr != nil {
				return nil, s.fail(ctxErr)
			}
			if errors.Is(err, io.EOF) {
				return nil, s.fail(core.ErrIncompleteStream)
			}
			return nil, s.fail(fmt.Errorf("failed to read stream: %w", err))
		}

		s.log.Debug("stream frame", zap.String("data", truncate(payload, 200)))

		if payload == DoneMarker {
			s.done = true
			s.release()
			s.count(observability.FrameDone)
			return &core.DoneEvent{}, nil
		}

		f, err := s.decode(payload)
		if err != nil {
			s.log.Warn("skipping malformed stream frame",
				zap.Error(err),
				zap.String("data", truncate(payload, 200)),
			)
			s.count(observability.FrameSkipped)
			continue
		}
		if f.skip {
			continue
		}
		if f.token == tokenIMEnd || f.token == tokenIMSep {
			s.count(observability.FrameFiltered)
			continue
		}

		s.answer.WriteString(f.token)
		s.count(observability.FrameAnswer)
		return &core.AnswerEvent{
			Text:           s.answer.String(),
			MessageID:      f.id,
			ConversationID: f.id,
		}, nil
	}
}

// Close implements core.EventStream.
func (s *answerStream) Close() error {
	s.closed.Store(true)
	s.release()
	return nil
}

func (s *answerStream) fail(err error) error {
	s.err = err
	s.release()
	return err
}

func (s *answerStream) release() {
	s.releaseOnce.Do(func() {
		observability.StreamsActive.Dec()
		if err := s.body.Close(); err != nil {
			s.log.Debug("close stream body", zap.Error(err))
		}
	})
}

func (s *answerStream) count(kind string) {
	observability.StreamFramesTotal.WithLabelValues(s.provider, kind).Inc()
}
