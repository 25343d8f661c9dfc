// Package storage implements the embedded SQLite account store. IDs are
// store-generated UUIDs and created_at is assigned at insert, matching
// the managed backend's behavior.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cuentas/internal/core"
)

// ErrNotFound is returned when an operation is scoped to an id the store
// does not know.
var ErrNotFound = errors.New("account not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// List returns all accounts, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, url, username, password, requires_dynamic_pin, category, created_at
		FROM accounts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var pin int
		if err := rows.Scan(&a.ID, &a.Name, &a.URL, &a.Username, &a.Password, &pin, &a.Category, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.RequiresDynamicPin = pin != 0
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// Create inserts a new account with a generated UUID and the current
// instant as created_at.
func (r *SQLiteRepository) Create(ctx context.Context, a core.NewAccount) error {
	id := uuid.NewString()
	createdAt := core.NowISO(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, url, username, password, requires_dynamic_pin, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.Name, a.URL, a.Username, a.Password, boolToInt(a.RequiresDynamicPin), a.Category, createdAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved to SQLite", "id", id, "name", a.Name, "category", a.Category)
	return nil
}

// Update replaces the mutable columns only; id and created_at stay as
// written at creation no matter what the caller supplied.
func (r *SQLiteRepository) Update(ctx context.Context, a core.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, url = ?, username = ?, password = ?, requires_dynamic_pin = ?, category = ?
		WHERE id = ?`,
		a.Name, a.URL, a.Username, a.Password, boolToInt(a.RequiresDynamicPin), a.Category, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one account; an unknown id is a reported failure.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	slog.InfoContext(ctx, "Account deleted from SQLite", "id", id)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
