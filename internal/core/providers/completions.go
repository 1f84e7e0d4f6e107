package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/pkg/logger"
)

const (
	// AzureAPIVersion is sent to Azure-hosted deployments.
	AzureAPIVersion = "2022-12-01"
	// MaxTokens caps every completion.
	MaxTokens = 2048

	azureMarker     = ".azure.com"
	chatModelPrefix = "text-chat-davinci"
)

// CompletionProvider streams from an OpenAI-compatible /v1/completions
// endpoint, or from an Azure OpenAI deployment.
type CompletionProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	log      *logger.Logger
}

// NewCompletionProvider creates a completions provider. A nil client uses a
// client without timeout; the stream lives as long as its context.
func NewCompletionProvider(cfg core.ProviderConfig, client *http.Client, log *zap.Logger) *CompletionProvider {
	if client == nil {
		client = &http.Client{}
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = core.DefaultEndpoint
	}
	return &CompletionProvider{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   client,
		log:      logger.Wrap(log).Named("completions").With(zap.String("model", cfg.Model)),
	}
}

// ID returns the unique identifier for this provider
func (p *CompletionProvider) ID() string {
	return string(core.ProviderGPT3)
}

// Model returns the configured model.
func (p *CompletionProvider) Model() string {
	return p.model
}

// BuildPrompt wraps prompt in the conversational template for
// text-chat-davinci models and returns it unchanged for every other model.
func BuildPrompt(model, prompt string) string {
	if strings.HasPrefix(model, chatModelPrefix) {
		return "Respond conversationally.<|im_end|>\n\nUser: " + prompt + "<|im_sep|>\nChatGPT:"
	}
	return prompt
}

// IsAzureEndpoint reports whether endpoint is an Azure OpenAI resource.
func IsAzureEndpoint(endpoint string) bool {
	return strings.Contains(endpoint, azureMarker)
}

// target returns the request URL and the credential header.
func (p *CompletionProvider) target() (string, http.Header) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")

	if IsAzureEndpoint(p.endpoint) {
		headers.Set("api-key", p.apiKey)
		return fmt.Sprintf("%s/openai/deployments/%s/completions?api-version=%s",
			p.endpoint, url.PathEscape(p.model), AzureAPIVersion), headers
	}

	headers.Set("Authorization", "Bearer "+p.apiKey)
	return p.endpoint + "/v1/completions", headers
}

func buildCompletionBody(prompt string) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	if body, err = sjson.SetBytes(body, "prompt", prompt); err != nil {
		return nil, err
	}
	if body, err = sjson.SetBytes(body, "stream", true); err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "max_tokens", MaxTokens)
}

// GenerateAnswer opens the completion stream.
func (p *CompletionProvider) GenerateAnswer(ctx context.Context, req core.GenerateRequest) (core.EventStream, error) {
	body, err := buildCompletionBody(BuildPrompt(p.model, req.Prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}

	target, headers := p.target()
	resp, err := openStream(ctx, p.client, target, headers, body)
	if err != nil {
		return nil, err
	}

	p.log.Debug("stream opened", zap.String("url", target))
	return newAnswerStream(ctx, p.ID(), resp.Body, decodeCompletionFrame, p.log), nil
}

// decodeCompletionFrame reads choices[0].text and id.
func decodeCompletionFrame(payload string) (frame, error) {
	if !gjson.Valid(payload) {
		return frame{}, errors.New("invalid JSON")
	}
	text := gjson.Get(payload, "choices.0.text")
	if !text.Exists() {
		return frame{}, errors.New("missing choices[0].text")
	}
	if text.Type != gjson.String {
		return frame{}, fmt.Errorf("choices[0].text is %s, not a string", text.Type)
	}
	return frame{
		token: text.Str,
		id:    gjson.Get(payload, "id").String(),
	}, nil
}

// openStream posts body and returns the response once a 2xx status arrived.
func openStream(ctx context.Context, client *http.Client, target string, headers http.Header, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header = headers
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, handleHTTPError(resp.StatusCode, respBody)
	}
	return resp, nil
}
