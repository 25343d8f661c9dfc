package accounts

import (
	"context"

	"cuentas/internal/core"
)

// Store is the outbound port every account backend implements. List
// returns the full collection ordered by creation time, newest first.
// Update must preserve id and createdAt regardless of the input values,
// and Delete of an unknown id must return an error.
type Store interface {
	List(ctx context.Context) ([]core.Account, error)
	Create(ctx context.Context, a core.NewAccount) error
	Update(ctx context.Context, a core.Account) error
	Delete(ctx context.Context, id string) error
}
