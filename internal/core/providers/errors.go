package providers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

// ErrUnsupportedProvider is returned by New for unknown provider variants.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// HTTPError is a non-2xx answer from the upstream endpoint.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Sprintf("unauthorized: %s", e.Message)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("rate limit exceeded: %s", e.Message)
	case http.StatusBadRequest:
		return fmt.Sprintf("bad request: %s", e.Message)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
}

// handleHTTPError extracts the upstream error message, OpenAI format first.
func handleHTTPError(statusCode int, body []byte) error {
	var errMsg string
	if root, err := sonic.Get(body); err == nil {
		errMsg, _ = root.Get("error").Get("message").String()
		if errMsg == "" {
			errMsg, _ = root.Get("message").String()
		}
	}
	if errMsg == "" {
		errMsg = string(body)
	}
	if errMsg == "" {
		errMsg = http.StatusText(statusCode)
	}
	return &HTTPError{StatusCode: statusCode, Message: errMsg}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
