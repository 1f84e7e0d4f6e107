package store

import (
	"context"
	"sync"

	"answerlens/internal/core"
)

// Memory is an in-process Repository.
type Memory struct {
	mu      sync.RWMutex
	configs core.ProviderConfigs
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{configs: core.DefaultProviderConfigs()}
}

// Load returns a copy of the stored configuration.
func (m *Memory) Load(ctx context.Context) (core.ProviderConfigs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConfigs(m.configs), nil
}

// Save stores cfg for provider and makes it active.
func (m *Memory) Save(ctx context.Context, provider core.ProviderType, cfg core.ProviderConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs.Provider = provider
	m.configs.Configs[provider] = cfg
	return nil
}

// SetActive changes the active provider.
func (m *Memory) SetActive(ctx context.Context, provider core.ProviderType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs.Provider = provider
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
