package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"cuentas/internal/core"
	"cuentas/internal/postgrest"
)

const accountsTable = "accounts"

// accountRow is the wire representation of an account: snake_case column
// names as stored in the remote table.
type accountRow struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	URL                string `json:"url"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	RequiresDynamicPin bool   `json:"requires_dynamic_pin"`
	Category           string `json:"category"`
	CreatedAt          string `json:"created_at"`
}

// writeRow carries only the caller-writable columns. id and created_at
// are intentionally absent so the store can never be asked to change them.
type writeRow struct {
	Name               string `json:"name"`
	URL                string `json:"url"`
	Username           string `json:"username"`
	Password           string `json:"password"`
	RequiresDynamicPin bool   `json:"requires_dynamic_pin"`
	Category           string `json:"category,omitempty"`
}

// PostgrestStore maps the generic table client onto the account domain.
type PostgrestStore struct {
	client *postgrest.Client
}

var _ Store = (*PostgrestStore)(nil)

func NewPostgrestStore(client *postgrest.Client) *PostgrestStore {
	return &PostgrestStore{client: client}
}

// List fetches all rows ordered by creation time descending.
func (s *PostgrestStore) List(ctx context.Context) ([]core.Account, error) {
	res := s.client.From(accountsTable).Select("*").Order("created_at", false).Execute(ctx)
	if res.Error != nil {
		return nil, storeErr("list accounts", res.Error)
	}
	var rows []accountRow
	if res.Data != nil {
		if err := json.Unmarshal(res.Data, &rows); err != nil {
			return nil, fmt.Errorf("decode accounts: %w", err)
		}
	}
	out := make([]core.Account, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Create inserts one row with the writable fields only; the store assigns
// id and created_at and echoes the created representation back.
func (s *PostgrestStore) Create(ctx context.Context, a core.NewAccount) error {
	row := writeRow{
		Name:               a.Name,
		URL:                a.URL,
		Username:           a.Username,
		Password:           a.Password,
		RequiresDynamicPin: a.RequiresDynamicPin,
		Category:           a.Category,
	}
	res := s.client.From(accountsTable).Insert([]writeRow{row}).Execute(ctx)
	if res.Error != nil {
		return storeErr("create account", res.Error)
	}
	return nil
}

// Update patches the full mutable field set scoped by id.
func (s *PostgrestStore) Update(ctx context.Context, a core.Account) error {
	patch := writeRow{
		Name:               a.Name,
		URL:                a.URL,
		Username:           a.Username,
		Password:           a.Password,
		RequiresDynamicPin: a.RequiresDynamicPin,
		Category:           a.Category,
	}
	res := s.client.From(accountsTable).Update(patch).Eq("id", a.ID).Execute(ctx)
	if res.Error != nil {
		return storeErr("update account", res.Error)
	}
	return nil
}

// Delete removes the row scoped by id. Whether an absent id is a failure
// is decided by the remote store, not detected here.
func (s *PostgrestStore) Delete(ctx context.Context, id string) error {
	res := s.client.From(accountsTable).Delete().Eq("id", id).Execute(ctx)
	if res.Error != nil {
		return storeErr("delete account", res.Error)
	}
	return nil
}

func (r accountRow) toDomain() core.Account {
	return core.Account{
		ID:                 r.ID,
		Name:               r.Name,
		URL:                r.URL,
		Username:           r.Username,
		Password:           r.Password,
		RequiresDynamicPin: r.RequiresDynamicPin,
		Category:           r.Category,
		CreatedAt:          r.CreatedAt,
	}
}

func storeErr(op string, e *postgrest.Error) error {
	if e.Details != "" {
		return fmt.Errorf("%s: %s (%s)", op, e.Message, e.Details)
	}
	return fmt.Errorf("%s: %s", op, e.Message)
}
