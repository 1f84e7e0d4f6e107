package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"answerlens/internal/answer"
	"answerlens/internal/config"
	"answerlens/internal/core"
	"answerlens/internal/core/processors"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/remote"
	"answerlens/internal/store"
)

// app holds what every command needs once configuration is resolved.
type app struct {
	settings config.Settings
	log      *zap.Logger
	repo     store.Repository
	remote   *remote.Client
}

func newApp(ctx context.Context) (*app, error) {
	settings := config.Load(viper.GetViper())

	// 初始化全局 logger
	log, err := logger.NewWithOptions(logger.Options{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	repo, err := store.Open(ctx, settings.Store)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open config store: %w", err)
	}

	a := &app{settings: settings, log: log, repo: repo}
	if settings.RemoteBaseURL != "" {
		a.remote = remote.NewClient(settings.RemoteBaseURL, nil, log)
	}
	return a, nil
}

func (a *app) pipeline() *core.Pipeline {
	p := core.NewPipeline(processors.NewRequestLogger())
	if a.settings.PrivacyRedact {
		p.AddProcessor(processors.NewPrivacyGuard())
	}
	return p
}

// supplement returns the promotion source, or nil when no remote is set.
func (a *app) supplement() answer.SupplementFetcher {
	if a.remote == nil {
		return nil
	}
	return a.remote
}

func (a *app) Close() {
	if err := a.repo.Close(); err != nil {
		a.log.Warn("failed to close config store", zap.Error(err))
	}
	_ = a.log.Sync()
}
