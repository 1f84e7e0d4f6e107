package core

import (
	"fmt"
	"strings"
)

// ProviderType identifies a provider variant.
type ProviderType string

const (
	// ProviderChatGPT streams from a chat completions endpoint; the key is optional.
	ProviderChatGPT ProviderType = "chatgpt"
	// ProviderGPT3 streams from a completions endpoint and requires a key and model.
	ProviderGPT3 ProviderType = "gpt3"
)

// DefaultEndpoint is used when a variant has no endpoint configured.
const DefaultEndpoint = "https://api.openai.com"

// ProviderTypes lists every known variant in display order.
func ProviderTypes() []ProviderType {
	return []ProviderType{ProviderChatGPT, ProviderGPT3}
}

// ParseProviderType validates a variant name.
func ParseProviderType(s string) (ProviderType, error) {
	t := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ProviderTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// RequiresCredentials reports whether saving this variant needs a key and model.
func (t ProviderType) RequiresCredentials() bool {
	return t == ProviderGPT3
}

// ProviderConfig holds the connection settings of one variant.
type ProviderConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	APIKey   string `json:"apiKey" yaml:"api_key"`
	Model    string `json:"model" yaml:"model"`
}

// ProviderConfigs is the persisted configuration: per-variant settings plus
// the active variant.
type ProviderConfigs struct {
	Provider ProviderType                    `json:"provider" yaml:"provider"`
	Configs  map[ProviderType]ProviderConfig `json:"configs" yaml:"configs"`
}

// DefaultProviderConfigs is what an empty store loads as.
func DefaultProviderConfigs() ProviderConfigs {
	return ProviderConfigs{
		Provider: ProviderChatGPT,
		Configs:  map[ProviderType]ProviderConfig{},
	}
}

// Config returns the stored settings of t, with the endpoint defaulted.
func (c ProviderConfigs) Config(t ProviderType) ProviderConfig {
	cfg := c.Configs[t]
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return cfg
}

// Active returns the active variant and its settings.
func (c ProviderConfigs) Active() (ProviderType, ProviderConfig) {
	return c.Provider, c.Config(c.Provider)
}
