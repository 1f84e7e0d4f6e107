package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"answerlens/internal/core"
)

const defaultRedisKey = "answerlens"

// Redis keeps each variant in a hash ({prefix}:provider:{name}) and the
// active variant in {prefix}:active.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects to addr, a host:port or a redis:// URL, and pings it.
func NewRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("redis store requires an address")
	}

	var rdb *redis.Client
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisWithClient(rdb, prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisKey
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) providerKey(provider core.ProviderType) string {
	return r.prefix + ":provider:" + string(provider)
}

func (r *Redis) activeKey() string {
	return r.prefix + ":active"
}

// Load reads the active marker and the hash of every known variant.
func (r *Redis) Load(ctx context.Context) (core.ProviderConfigs, error) {
	configs := core.DefaultProviderConfigs()

	active, err := r.rdb.Get(ctx, r.activeKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return core.ProviderConfigs{}, fmt.Errorf("read active provider: %w", err)
	}
	if active != "" {
		configs.Provider = core.ProviderType(active)
	}

	for _, provider := range core.ProviderTypes() {
		fields, err := r.rdb.HGetAll(ctx, r.providerKey(provider)).Result()
		if err != nil {
			return core.ProviderConfigs{}, fmt.Errorf("read provider %s: %w", provider, err)
		}
		if len(fields) == 0 {
			continue
		}
		configs.Configs[provider] = core.ProviderConfig{
			Endpoint: fields["endpoint"],
			APIKey:   fields["api_key"],
			Model:    fields["model"],
		}
	}
	return configs, nil
}

// Save writes provider's hash and the active marker in one transaction.
func (r *Redis) Save(ctx context.Context, provider core.ProviderType, cfg core.ProviderConfig) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.providerKey(provider),
			"endpoint", cfg.Endpoint,
			"api_key", cfg.APIKey,
			"model", cfg.Model,
		)
		pipe.Set(ctx, r.activeKey(), string(provider), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save provider %s: %w", provider, err)
	}
	return nil
}

// SetActive updates the active marker.
func (r *Redis) SetActive(ctx context.Context, provider core.ProviderType) error {
	if err := r.rdb.Set(ctx, r.activeKey(), string(provider), 0).Err(); err != nil {
		return fmt.Errorf("set active provider: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
