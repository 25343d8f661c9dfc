package accounts

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"cuentas/internal/core"
)

var errMissingID = errors.New("missing account id")

// Domain-level error messages shown to the user. The underlying store
// detail is only suitable for diagnostic logging.
const (
	msgLoadFailed   = "Error al cargar las cuentas"
	msgCreateFailed = "Error al guardar la cuenta"
	msgUpdateFailed = "Error al actualizar la cuenta"
	msgDeleteFailed = "Error al eliminar la cuenta"
)

// Repository maintains the authoritative in-memory account collection on
// top of a Store. Mutations never touch the collection directly: a
// successful mutation triggers a full refresh, a failed one leaves the
// collection exactly as it was. Readers always observe either the old
// complete collection or the new one, never an interleaved state.
type Repository struct {
	store Store

	mu       sync.Mutex
	accounts []core.Account
	loading  bool
	errMsg   string
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Accounts returns a snapshot copy of the current collection.
func (r *Repository) Accounts() []core.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Loading reports whether an operation is in flight.
func (r *Repository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the message of the last failed operation, or "".
func (r *Repository) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

// begin marks an operation in flight and clears the previous error.
// It fails when another operation is already running: operations are
// gated by a single busy flag, never composed or overlapped.
func (r *Repository) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loading {
		return false
	}
	r.loading = true
	r.errMsg = ""
	return true
}

func (r *Repository) end() {
	r.mu.Lock()
	r.loading = false
	r.mu.Unlock()
}

// Refresh replaces the full in-memory collection from the store. On any
// store error the visible collection is cleared rather than left stale
// beside an error banner.
func (r *Repository) Refresh(ctx context.Context) bool {
	if !r.begin() {
		return false
	}
	defer r.end()

	rows, err := r.store.List(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		slog.ErrorContext(ctx, "Account list failed", "error", err)
		r.accounts = nil
		r.errMsg = msgLoadFailed
		return false
	}
	r.accounts = rows
	return true
}

// Create stores a new account and refreshes the collection. The category
// is lowercase-normalized before storage so derived views can match
// exactly. Returns false on validation or store failure; the collection
// is untouched in that case.
func (r *Repository) Create(ctx context.Context, a core.NewAccount) bool {
	a.Category = core.NormalizeCategory(a.Category)
	if err := a.Validate(); err != nil {
		r.fail(ctx, msgCreateFailed, err)
		return false
	}
	if !r.begin() {
		return false
	}
	if err := r.store.Create(ctx, a); err != nil {
		r.end()
		r.fail(ctx, msgCreateFailed, err)
		return false
	}
	r.end()
	r.Refresh(ctx)
	return true
}

// Update replaces the mutable fields of an existing account and refreshes
// the collection. id and createdAt are preserved by the store layer no
// matter what the caller passed in.
func (r *Repository) Update(ctx context.Context, a core.Account) bool {
	a.Category = core.NormalizeCategory(a.Category)
	if a.ID == "" {
		r.fail(ctx, msgUpdateFailed, errMissingID)
		return false
	}
	if err := a.Validate(); err != nil {
		r.fail(ctx, msgUpdateFailed, err)
		return false
	}
	if !r.begin() {
		return false
	}
	if err := r.store.Update(ctx, a); err != nil {
		r.end()
		r.fail(ctx, msgUpdateFailed, err)
		return false
	}
	r.end()
	r.Refresh(ctx)
	return true
}

// Delete removes an account by id and refreshes the collection. Deleting
// an id the store does not know is a reported failure.
func (r *Repository) Delete(ctx context.Context, id string) bool {
	if !r.begin() {
		return false
	}
	if err := r.store.Delete(ctx, id); err != nil {
		r.end()
		r.fail(ctx, msgDeleteFailed, err)
		return false
	}
	r.end()
	r.Refresh(ctx)
	return true
}

func (r *Repository) fail(ctx context.Context, msg string, err error) {
	slog.ErrorContext(ctx, "Account operation failed", "error", err, "message", msg)
	r.mu.Lock()
	r.errMsg = msg
	r.mu.Unlock()
}
