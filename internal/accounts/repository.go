package accounts

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// Repository is the persistence contract for profiles. Implementations are
// bound to a dbx.DBTX so the same code runs against a plain handle or a
// transaction.
type Repository interface {
	// Get returns the stored profile or common.ErrorNotFound.
	Get(ctx context.Context, owner string) (*Profile, error)

	// Create inserts an empty profile row for a first-time owner.
	Create(ctx context.Context, owner string) (*Profile, error)

	// Apply writes the non-nil fields of upd in a single statement.
	Apply(ctx context.Context, owner string, upd *ProfileUpdate) error
}

// RepositoryFactory builds a Repository bound to the given handle.
// Used by Service to run repository calls inside transactions.
type RepositoryFactory func(db dbx.DBTX) Repository
