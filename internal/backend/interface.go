package backend

import (
	"context"

	"cuentas/internal/accounts"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// BackendResult contains the account store and an optional cleanup function.
type BackendResult struct {
	Store   accounts.Store
	Cleanup CleanupFunc
}

// Factory creates account stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type BackendType

	// PostgREST specific
	PostgrestURL    string
	PostgrestAPIKey string

	// SQLite specific
	SQLiteDBPath string

	// JSON file specific
	JSONFilePath string
}

// BackendType represents the type of backend.
type BackendType string

const (
	PostgrestBackend BackendType = "postgrest"
	SQLiteBackend    BackendType = "sqlite"
	JSONFileBackend  BackendType = "jsonfile"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case PostgrestBackend, SQLiteBackend, JSONFileBackend:
		return true
	default:
		return false
	}
}
