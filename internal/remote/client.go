// Package remote reads the extension's hosted configuration: the list of
// selectable model names and the optional promotion shown under an answer.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"answerlens/internal/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

// Promotion is supplementary content rendered below a finished answer.
type Promotion struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}

// Client talks to the remote configuration service.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

// NewClient creates a client for baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		log:     logger.Wrap(log).Named("remote"),
	}
}

// FetchModelNames returns openai_model_names from /api/config.
func (c *Client) FetchModelNames(ctx context.Context) ([]string, error) {
	body, status, err := c.get(ctx, "/api/config")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fetch config: HTTP %d", status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("fetch config: invalid JSON")
	}

	result := gjson.GetBytes(body, "openai_model_names")
	if !result.IsArray() {
		return nil, fmt.Errorf("fetch config: openai_model_names missing")
	}
	names := make([]string, 0, len(result.Array()))
	for _, v := range result.Array() {
		if v.Type == gjson.String && v.Str != "" {
			names = append(names, v.Str)
		}
	}
	return names, nil
}

// FetchPromotion returns the current promotion, or nil when there is none.
func (c *Client) FetchPromotion(ctx context.Context) (*Promotion, error) {
	body, status, err := c.get(ctx, "/api/promotion")
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("fetch promotion: HTTP %d", status)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("fetch promotion: invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return nil, nil
	}

	p := &Promotion{
		Title: root.Get("title").String(),
		Text:  root.Get("text").String(),
		URL:   root.Get("url").String(),
		Image: root.Get("image").String(),
	}
	if p.Title == "" && p.Text == "" {
		return nil, nil
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	if c.baseURL == "" {
		return nil, 0, fmt.Errorf("remote base url is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", path, err)
	}
	c.log.Debug("remote response", zap.String("path", path), zap.Int("status", resp.StatusCode))
	return body, resp.StatusCode, nil
}
