package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cuentas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, core.NewAccount{
		Name: "Site", URL: "https://s.example", Username: "u", Password: "p", Category: "trabajo",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d", len(got))
	}
	a := got[0]
	if a.ID == "" {
		t.Fatalf("id not assigned")
	}
	if _, err := core.ParseCreatedAt(a.CreatedAt); err != nil {
		t.Fatalf("createdAt %q: %v", a.CreatedAt, err)
	}
	if a.Name != "Site" || a.Category != "trabajo" {
		t.Fatalf("round trip mismatch: %+v", a)
	}
}

func TestUpdatePreservesIdentityColumns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Create(ctx, core.NewAccount{Name: "A", URL: "u", Username: "us", Password: "p"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := repo.List(ctx)
	orig := before[0]

	changed := orig
	changed.Name = "B"
	changed.RequiresDynamicPin = true
	changed.CreatedAt = "1999-01-01T00:00:00Z" // must be ignored
	if err := repo.Update(ctx, changed); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, _ := repo.List(ctx)
	got := after[0]
	if got.Name != "B" || !got.RequiresDynamicPin {
		t.Fatalf("mutable fields not applied: %+v", got)
	}
	if got.ID != orig.ID || got.CreatedAt != orig.CreatedAt {
		t.Fatalf("identity changed: %+v vs %+v", got, orig)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.Update(context.Background(), core.Account{ID: "nope", Name: "n", URL: "u", Username: "us", Password: "p"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Create(ctx, core.NewAccount{Name: "A", URL: "u", Username: "us", Password: "p"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	rows, _ := repo.List(ctx)
	if err := repo.Delete(ctx, rows[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, _ = repo.List(ctx)
	if len(rows) != 0 {
		t.Fatalf("rows=%v", rows)
	}
}

func TestListOrdersNewestFirstWithinSameSecond(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// created_at is compared as text by the list query, so rapid creates
	// landing in the same second must still come back in creation order.
	for _, name := range []string{"First", "Second", "Third"} {
		err := repo.Create(ctx, core.NewAccount{
			Name: name, URL: "https://s.example", Username: "u", Password: "p",
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Name != "Third" || got[1].Name != "Second" || got[2].Name != "First" {
		t.Fatalf("unexpected order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
	for i := 1; i < len(got); i++ {
		if !(got[i].CreatedAt < got[i-1].CreatedAt) {
			t.Fatalf("created_at not strictly descending: %q then %q", got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
}
