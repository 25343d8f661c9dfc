package backend

import (
	"context"
	"fmt"
	"log/slog"

	"cuentas/internal/accounts"
	"cuentas/internal/jsonfile"
	"cuentas/internal/postgrest"
	"cuentas/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case PostgrestBackend:
		return f.createPostgrestBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case JSONFileBackend:
		return f.createJSONFileBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createPostgrestBackend(config Config) (*BackendResult, error) {
	if config.PostgrestURL == "" {
		return nil, fmt.Errorf("postgrest backend requires a base URL")
	}

	client := postgrest.New(postgrest.Config{
		URL:    config.PostgrestURL,
		APIKey: config.PostgrestAPIKey,
	})

	f.logger.Info("Initialized PostgREST backend",
		"url", config.PostgrestURL,
		"authenticated", config.PostgrestAPIKey != "")

	return &BackendResult{
		Store:   accounts.NewPostgrestStore(client),
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createJSONFileBackend(config Config) (*BackendResult, error) {
	path := config.JSONFilePath
	if path == "" {
		path = "data/accounts.json"
	}

	store, err := jsonfile.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file store: %w", err)
	}

	f.logger.Info("Initialized JSON file backend", "path", path)

	return &BackendResult{
		Store:   store,
		Cleanup: nil,
	}, nil
}
