package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/db"
	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// Service is the account service consumed by the vault core. Load returns
// the current profile; Update applies a partial change atomically per call.
type Service struct {
	db      *sql.DB
	newRepo RepositoryFactory
}

// NewService constructs a Service over the given handle, choosing the
// repository implementation matching the dialect.
func NewService(database *sql.DB, dialect db.Dialect) *Service {
	var factory RepositoryFactory
	switch dialect {
	case db.DialectPostgres:
		factory = func(h dbx.DBTX) Repository { return NewPostgresRepository(h) }
	default:
		factory = func(h dbx.DBTX) Repository { return NewSQLiteRepository(h) }
	}
	return &Service{db: database, newRepo: factory}
}

// Load fetches the owner's profile, creating an empty record on first run.
func (s *Service) Load(ctx context.Context, owner string) (*Profile, error) {
	repo := s.newRepo(s.db)

	profile, err := repo.Get(ctx, owner)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("profile load error: %w", err)
	}

	profile, err = repo.Create(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("profile create error: %w", err)
	}
	return profile, nil
}

// Update applies upd inside a transaction. Either every field in the update
// is persisted or none of them are; there is no partial credential state.
func (s *Service) Update(ctx context.Context, owner string, upd *ProfileUpdate) error {
	if upd == nil || upd.Empty() {
		return nil
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.newRepo(tx).Apply(ctx, owner, upd)
	})
}
