package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"answerlens/internal/core"
)

const (
	sqliteDriver     = "sqlite"
	schemaVersion    = "1"
	metaActive       = "active_provider"
	metaSchema       = "schema_version"
	defaultSQLiteDSN = "answerlens.db"
)

// SQLite is a SQLite-backed Repository.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = defaultSQLiteDSN
	}
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS provider_configs (
			provider TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			api_key  TEXT NOT NULL,
			model    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &SQLite{db: db}
	version, err := s.getMetadata(context.Background(), metaSchema)
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadata(context.Background(), s.db, metaSchema, schemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case schemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, schemaVersion)
	}

	return s, nil
}

// Load reads every stored variant and the active marker.
func (s *SQLite) Load(ctx context.Context) (core.ProviderConfigs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	configs := core.DefaultProviderConfigs()

	active, err := s.getMetadata(ctx, metaActive)
	if err != nil {
		return core.ProviderConfigs{}, err
	}
	if active != "" {
		configs.Provider = core.ProviderType(active)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT provider, endpoint, api_key, model FROM provider_configs")
	if err != nil {
		return core.ProviderConfigs{}, fmt.Errorf("query provider configs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var provider string
		var cfg core.ProviderConfig
		if err := rows.Scan(&provider, &cfg.Endpoint, &cfg.APIKey, &cfg.Model); err != nil {
			return core.ProviderConfigs{}, fmt.Errorf("scan provider config: %w", err)
		}
		configs.Configs[core.ProviderType(provider)] = cfg
	}
	if err := rows.Err(); err != nil {
		return core.ProviderConfigs{}, fmt.Errorf("iterate provider configs: %w", err)
	}
	return configs, nil
}

// Save upserts provider's row and the active marker in one transaction.
func (s *SQLite) Save(ctx context.Context, provider core.ProviderType, cfg core.ProviderConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO provider_configs (provider, endpoint, api_key, model) VALUES (?, ?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			endpoint = excluded.endpoint,
			api_key = excluded.api_key,
			model = excluded.model
	`, string(provider), cfg.Endpoint, cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("save provider config: %w", err)
	}
	if err := s.setMetadata(ctx, tx, metaActive, string(provider)); err != nil {
		return err
	}
	return tx.Commit()
}

// SetActive updates the active marker.
func (s *SQLite) SetActive(ctx context.Context, provider core.ProviderType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setMetadata(ctx, s.db, metaActive, string(provider))
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLite) getMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read metadata %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) setMetadata(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write metadata %s: %w", key, err)
	}
	return nil
}
