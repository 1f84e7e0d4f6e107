package providers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"answerlens/internal/core"
)

// New builds the provider for variant t.
func New(t core.ProviderType, cfg core.ProviderConfig, client *http.Client, log *zap.Logger) (core.Provider, error) {
	switch t {
	case core.ProviderGPT3:
		if cfg.Model == "" {
			return nil, fmt.Errorf("provider %s: model must be configured", t)
		}
		return NewCompletionProvider(cfg, client, log), nil
	case core.ProviderChatGPT:
		return NewChatProvider(cfg, client, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, t)
	}
}

// FromConfigs builds the active provider.
func FromConfigs(configs core.ProviderConfigs, client *http.Client, log *zap.Logger) (core.Provider, error) {
	t, cfg := configs.Active()
	return New(t, cfg, client, log)
}
