package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// PostgresRepository stores profiles in PostgreSQL for shared installs.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, owner string) (*Profile, error) {
	query :=
		`SELECT owner, password_hash, answer_school_hash, answer_city_hash, answer_food_hash,
		        created_at, updated_at
		 FROM profiles
		 WHERE owner = $1`

	return scanProfile(r.db.QueryRowContext(ctx, query, owner))
}

func (r *PostgresRepository) Create(ctx context.Context, owner string) (*Profile, error) {
	query := `INSERT INTO profiles (owner) VALUES ($1)`

	if _, err := r.db.ExecContext(ctx, query, owner); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, owner)
}

func (r *PostgresRepository) Apply(ctx context.Context, owner string, upd *ProfileUpdate) error {
	sets, args := updateColumns(upd, func(pos int) string { return fmt.Sprintf("$%d", pos) })
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, owner)

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE owner = $%d`,
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
