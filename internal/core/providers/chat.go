package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/pkg/logger"
)

// DefaultChatModel is used when the chatgpt variant has no model configured.
const DefaultChatModel = "gpt-3.5-turbo"

// ChatProvider streams from an OpenAI-compatible /v1/chat/completions
// endpoint. The key is optional so local gateways work without one.
type ChatProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	log      *logger.Logger
}

// NewChatProvider creates a chat completions provider.
func NewChatProvider(cfg core.ProviderConfig, client *http.Client, log *zap.Logger) *ChatProvider {
	if client == nil {
		client = &http.Client{}
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = core.DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatProvider{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		model:    model,
		client:   client,
		log:      logger.Wrap(log).Named("chat").With(zap.String("model", model)),
	}
}

// ID returns the unique identifier for this provider
func (p *ChatProvider) ID() string {
	return string(core.ProviderChatGPT)
}

// Model returns the model requests are sent to.
func (p *ChatProvider) Model() string {
	return p.model
}

func buildChatBody(model, prompt string) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	if body, err = sjson.SetBytes(body, "model", model); err != nil {
		return nil, err
	}
	messages := []map[string]string{{"role": "user", "content": prompt}}
	if body, err = sjson.SetBytes(body, "messages", messages); err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "stream", true)
}

// GenerateAnswer opens the chat completion stream.
func (p *ChatProvider) GenerateAnswer(ctx context.Context, req core.GenerateRequest) (core.EventStream, error) {
	body, err := buildChatBody(p.model, req.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		headers.Set("Authorization", "Bearer "+p.apiKey)
	}

	target := p.endpoint + "/v1/chat/completions"
	resp, err := openStream(ctx, p.client, target, headers, body)
	if err != nil {
		return nil, err
	}

	p.log.Debug("stream opened", zap.String("url", target))
	return newAnswerStream(ctx, p.ID(), resp.Body, decodeChatFrame, p.log), nil
}

// decodeChatFrame reads choices[0].delta.content and id. Role-only and
// finish chunks carry no content and are skipped.
func decodeChatFrame(payload string) (frame, error) {
	if !gjson.Valid(payload) {
		return frame{}, errors.New("invalid JSON")
	}
	if !gjson.Get(payload, "choices.0").Exists() {
		return frame{}, errors.New("missing choices[0]")
	}
	content := gjson.Get(payload, "choices.0.delta.content")
	switch content.Type {
	case gjson.Null:
		return frame{skip: true}, nil
	case gjson.String:
		if content.Str == "" {
			return frame{skip: true}, nil
		}
		return frame{token: content.Str, id: gjson.Get(payload, "id").String()}, nil
	default:
		return frame{}, fmt.Errorf("choices[0].delta.content is %s, not a string", content.Type)
	}
}
