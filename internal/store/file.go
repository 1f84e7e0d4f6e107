package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"answerlens/internal/core"
)

// File stores the configuration as a YAML document.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a store at path. The file is created on first save.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultPath()
	}
	return &File{path: path}
}

// DefaultPath is ~/.config/answerlens/providers.yaml, or a relative file
// when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "providers.yaml"
	}
	return filepath.Join(dir, "answerlens", "providers.yaml")
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

// Load reads the file; a missing file yields defaults.
func (f *File) Load(ctx context.Context) (core.ProviderConfigs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

// Save rewrites the file with provider's settings replaced.
func (f *File) Save(ctx context.Context, provider core.ProviderType, cfg core.ProviderConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	configs, err := f.read()
	if err != nil {
		return err
	}
	configs.Provider = provider
	configs.Configs[provider] = cfg
	return f.write(configs)
}

// SetActive rewrites the active provider.
func (f *File) SetActive(ctx context.Context, provider core.ProviderType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	configs, err := f.read()
	if err != nil {
		return err
	}
	configs.Provider = provider
	return f.write(configs)
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}

func (f *File) read() (core.ProviderConfigs, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.DefaultProviderConfigs(), nil
	}
	if err != nil {
		return core.ProviderConfigs{}, fmt.Errorf("read config file %q: %w", f.path, err)
	}

	configs := core.DefaultProviderConfigs()
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return core.ProviderConfigs{}, fmt.Errorf("parse config file %q: %w", f.path, err)
	}
	if configs.Provider == "" {
		configs.Provider = core.ProviderChatGPT
	}
	if configs.Configs == nil {
		configs.Configs = map[core.ProviderType]core.ProviderConfig{}
	}
	return configs, nil
}

// write replaces the file atomically; it holds an API key, so it is 0600.
func (f *File) write(configs core.ProviderConfigs) error {
	data, err := yaml.Marshal(configs)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".providers-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}
