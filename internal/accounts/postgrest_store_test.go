package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cuentas/internal/core"
	"cuentas/internal/postgrest"
)

// fakeTable emulates the remote accounts table: equality-scoped CRUD with
// store-assigned uuid-ish ids and created_at.
type fakeTable struct {
	mu   sync.Mutex
	rows []map[string]any
	seq  int
}

func (f *fakeTable) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.URL.Path != "/accounts" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			// Newest first when order=created_at.desc is requested.
			out := append([]map[string]any(nil), f.rows...)
			if strings.Contains(r.URL.RawQuery, "created_at.desc") {
				for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
					out[i], out[j] = out[j], out[i]
				}
			}
			_ = json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var in []map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			for i := range in {
				f.seq++
				in[i]["id"] = "uuid-" + string(rune('0'+f.seq))
				in[i]["created_at"] = time.Date(2025, 3, 1, 10, 0, f.seq, 0, time.UTC).Format(time.RFC3339)
				f.rows = append(f.rows, in[i])
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(in)
		case http.MethodPatch:
			id := f.eqID(r)
			var patch map[string]any
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for _, row := range f.rows {
				if row["id"] == id {
					for k, v := range patch {
						row[k] = v
					}
					_ = json.NewEncoder(w).Encode([]map[string]any{row})
					return
				}
			}
			_ = json.NewEncoder(w).Encode([]map[string]any{})
		case http.MethodDelete:
			id := f.eqID(r)
			for i, row := range f.rows {
				if row["id"] == id {
					f.rows = append(f.rows[:i], f.rows[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no rows deleted"}`))
		}
	})
}

func (f *fakeTable) eqID(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
}

func newTestStore(t *testing.T) (*PostgrestStore, *fakeTable) {
	t.Helper()
	table := &fakeTable{}
	srv := httptest.NewServer(table.handler())
	t.Cleanup(srv.Close)
	return NewPostgrestStore(postgrest.New(postgrest.Config{URL: srv.URL})), table
}

func TestCreateThenListRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	in := core.NewAccount{
		Name: "Site", URL: "https://s.example", Username: "u", Password: "p",
		RequiresDynamicPin: false, Category: "trabajo",
	}
	if err := store.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d", len(got))
	}
	a := got[0]
	if a.Name != in.Name || a.URL != in.URL || a.Username != in.Username ||
		a.Password != in.Password || a.Category != in.Category {
		t.Fatalf("round trip mismatch: %+v", a)
	}
	if a.ID == "" {
		t.Fatalf("id not assigned by store")
	}
	if _, err := core.ParseCreatedAt(a.CreatedAt); err != nil {
		t.Fatalf("createdAt %q: %v", a.CreatedAt, err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"First", "Second"} {
		if err := store.Create(ctx, core.NewAccount{Name: name, URL: "https://x", Username: "u", Password: "p"}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Second" || got[1].Name != "First" {
		t.Fatalf("order wrong: %v", got)
	}
}

func TestUpdateNeverSendsIdentity(t *testing.T) {
	table := &fakeTable{}
	var gotPatch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			_ = json.NewDecoder(r.Body).Decode(&gotPatch)
			_, _ = w.Write([]byte(`[]`))
			return
		}
		table.handler().ServeHTTP(w, r)
	}))
	defer srv.Close()
	store := NewPostgrestStore(postgrest.New(postgrest.Config{URL: srv.URL}))

	err := store.Update(context.Background(), core.Account{
		ID: "fixed", Name: "n", URL: "u", Username: "us", Password: "p",
		CreatedAt: "2020-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := gotPatch["id"]; ok {
		t.Fatalf("patch body contains id: %v", gotPatch)
	}
	if _, ok := gotPatch["created_at"]; ok {
		t.Fatalf("patch body contains created_at: %v", gotPatch)
	}
}

func TestDeleteUnknownIDIsStoreError(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Delete(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "no rows deleted") {
		t.Fatalf("err=%v", err)
	}
}
