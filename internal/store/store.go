// Package store persists provider configuration: per-variant connection
// settings plus the active variant.
package store

import (
	"context"
	"fmt"

	"answerlens/internal/core"
)

// Repository loads and saves provider configuration.
type Repository interface {
	// Load returns the persisted configuration. An empty store yields
	// core.DefaultProviderConfigs().
	Load(ctx context.Context) (core.ProviderConfigs, error)
	// Save overwrites the settings of provider only and makes it active.
	Save(ctx context.Context, provider core.ProviderType, cfg core.ProviderConfig) error
	// SetActive changes the active provider without touching settings.
	SetActive(ctx context.Context, provider core.ProviderType) error
	Close() error
}

// Options selects and configures a Repository implementation.
type Options struct {
	// Driver is one of "file", "sqlite", "redis" or "memory".
	Driver    string
	Path      string
	RedisAddr string
	RedisKey  string
}

// Open creates the repository named by opts.Driver.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch opts.Driver {
	case "", "file":
		return NewFile(opts.Path), nil
	case "sqlite":
		return NewSQLite(opts.Path)
	case "redis":
		return NewRedis(ctx, opts.RedisAddr, opts.RedisKey)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func cloneConfigs(c core.ProviderConfigs) core.ProviderConfigs {
	out := core.ProviderConfigs{
		Provider: c.Provider,
		Configs:  make(map[core.ProviderType]core.ProviderConfig, len(c.Configs)),
	}
	for k, v := range c.Configs {
		out.Configs[k] = v
	}
	return out
}
