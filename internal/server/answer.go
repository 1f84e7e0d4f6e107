package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"answerlens/internal/answer"
	"answerlens/internal/core"
	"answerlens/internal/core/providers"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/remote"
)

// Frame types written on the answer stream.
const (
	frameAnswer    = "answer"
	frameDone      = "done"
	frameError     = "error"
	framePromotion = "promotion"
)

type answerRequest struct {
	Question string `json:"question"`
}

type answerData struct {
	Text           string `json:"text"`
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
}

type streamFrame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// handleAnswer streams the answer to a question as SSE frames: answer
// frames, then done or error, then a promotion frame if one resolves.
func (s *Server) handleAnswer(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return badRequest("question is required")
	}

	ctx := c.Request().Context()
	configs, err := s.deps.Repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load provider configs: %w", err)
	}
	provider, err := providers.FromConfigs(configs, s.deps.HTTPClient, s.zlog)
	if err != nil {
		return badRequest(err.Error())
	}

	res := c.Response()
	header := res.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	cfg := answer.Config{
		Provider: provider,
		Pipeline: s.deps.Pipeline,
		Renderer: &sseRenderer{res: res, log: s.log},
		Logger:   s.zlog,
	}
	if s.deps.Remote != nil {
		cfg.Supplement = s.deps.Remote
	}
	container := answer.NewContainer(cfg)
	if err := container.Run(ctx, question); err != nil {
		s.log.Debug("answer stream ended with error", zap.Error(err))
	}
	container.Wait()
	return nil
}

// sseRenderer writes container updates as SSE data frames.
type sseRenderer struct {
	mu  sync.Mutex
	res *echo.Response
	log *logger.Logger
}

func (r *sseRenderer) RenderStatus(status answer.Status) {
	if status == answer.StatusSuccess {
		r.write(streamFrame{Type: frameDone})
	}
}

func (r *sseRenderer) RenderAnswer(a core.AnswerEvent) {
	r.write(streamFrame{Type: frameAnswer, Data: answerData{
		Text:           a.Text,
		MessageID:      a.MessageID,
		ConversationID: a.ConversationID,
	}})
}

func (r *sseRenderer) RenderError(err error) {
	r.write(streamFrame{Type: frameError, Error: err.Error()})
}

func (r *sseRenderer) RenderSupplement(p *remote.Promotion) {
	r.write(streamFrame{Type: framePromotion, Data: p})
}

func (r *sseRenderer) write(frame streamFrame) {
	data, err := sonic.Marshal(frame)
	if err != nil {
		r.log.Error("failed to marshal stream frame", zap.String("type", frame.Type), zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintf(r.res, "data: %s\n\n", data); err != nil {
		r.log.Debug("failed to write stream frame", zap.String("type", frame.Type), zap.Error(err))
		return
	}
	r.res.Flush()
}
