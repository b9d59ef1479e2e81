package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// Repository is the persistence contract for file metadata.
type Repository interface {
	// Create inserts a metadata row for a freshly uploaded file.
	Create(ctx context.Context, f *SecureFile) error

	// Get returns one file by owner and id, or common.ErrorNotFound.
	Get(ctx context.Context, owner, id string) (*SecureFile, error)

	// ListByOwner returns the owner's files ordered by upload time.
	ListByOwner(ctx context.Context, owner string) ([]*SecureFile, error)

	// Delete removes the metadata row. Missing rows yield common.ErrorNotFound.
	Delete(ctx context.Context, owner, id string) error
}

// RepositoryFactory builds a Repository bound to the given handle.
type RepositoryFactory func(db dbx.DBTX) Repository
