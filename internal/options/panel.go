// Package options is the provider configuration panel: it holds unsaved
// edits per variant, validates them and persists the selected variant.
package options

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"answerlens/internal/core"
	"answerlens/internal/pkg/logger"
	"answerlens/internal/store"
)

const (
	MsgMissingModel = "Please enter your OpenAI API model name"
	MsgMissingKey   = "Please enter your OpenAI API key"
	MsgSaved        = "Changes saved"
)

// ValidationError reports a required field left empty. Nothing is persisted
// when Save returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Fields is the edit state of one variant.
type Fields struct {
	Endpoint string `json:"endpoint"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// Panel is the configuration form. Edits apply to the selected variant and
// stay local until Save.
type Panel struct {
	mu       sync.Mutex
	repo     store.Repository
	notifier Notifier
	log      *logger.Logger
	selected core.ProviderType
	fields   map[core.ProviderType]Fields
}

// NewPanel seeds the edit state from repo. The active variant is selected.
func NewPanel(ctx context.Context, repo store.Repository, notifier Notifier, log *zap.Logger) (*Panel, error) {
	configs, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider configs: %w", err)
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}

	p := &Panel{
		repo:     repo,
		notifier: notifier,
		log:      logger.Wrap(log).Named("options"),
		selected: configs.Provider,
		fields:   make(map[core.ProviderType]Fields),
	}
	if _, err := core.ParseProviderType(string(p.selected)); err != nil {
		p.selected = core.ProviderChatGPT
	}
	for _, t := range core.ProviderTypes() {
		cfg := configs.Config(t)
		p.fields[t] = Fields{Endpoint: cfg.Endpoint, APIKey: cfg.APIKey, Model: cfg.Model}
	}
	return p, nil
}

// Select switches the variant that edits and Save apply to.
func (p *Panel) Select(t core.ProviderType) error {
	t, err := core.ParseProviderType(string(t))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = t
	return nil
}

// Selected returns the selected variant.
func (p *Panel) Selected() core.ProviderType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

func (p *Panel) SetEndpoint(v string) { p.edit(func(f *Fields) { f.Endpoint = v }) }
func (p *Panel) SetAPIKey(v string)   { p.edit(func(f *Fields) { f.APIKey = v }) }
func (p *Panel) SetModel(v string)    { p.edit(func(f *Fields) { f.Model = v }) }

func (p *Panel) edit(fn func(*Fields)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.fields[p.selected]
	fn(&f)
	p.fields[p.selected] = f
}

// Fields returns the edit state of the selected variant.
func (p *Panel) Fields() Fields {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fields[p.selected]
}

// Save validates the selected variant, persists it and makes it active.
// Validation failures alert the user and return a *ValidationError.
func (p *Panel) Save(ctx context.Context) error {
	p.mu.Lock()
	selected := p.selected
	f := p.fields[selected]
	p.mu.Unlock()

	if selected.RequiresCredentials() {
		if strings.TrimSpace(f.Model) == "" {
			return p.reject("model", MsgMissingModel)
		}
		if strings.TrimSpace(f.APIKey) == "" {
			return p.reject("apiKey", MsgMissingKey)
		}
	}

	cfg := core.ProviderConfig{
		Endpoint: strings.TrimSpace(f.Endpoint),
		APIKey:   strings.TrimSpace(f.APIKey),
		Model:    strings.TrimSpace(f.Model),
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = core.DefaultEndpoint
	}
	if err := p.repo.Save(ctx, selected, cfg); err != nil {
		return fmt.Errorf("failed to save %s config: %w", selected, err)
	}

	p.log.Info("provider config saved",
		zap.String("provider", string(selected)),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("model", cfg.Model),
	)
	p.notifier.Toast(MsgSaved)
	return nil
}

func (p *Panel) reject(field, msg string) error {
	p.log.Debug("provider config rejected", zap.String("field", field))
	p.notifier.Alert(msg)
	return &ValidationError{Field: field, Message: msg}
}
