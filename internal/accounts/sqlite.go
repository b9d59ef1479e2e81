package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// SQLiteRepository stores profiles in the local SQLite database.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, owner string) (*Profile, error) {
	query :=
		`SELECT owner, password_hash, answer_school_hash, answer_city_hash, answer_food_hash,
		        created_at, updated_at
		 FROM profiles
		 WHERE owner = ?`

	return scanProfile(r.db.QueryRowContext(ctx, query, owner))
}

func (r *SQLiteRepository) Create(ctx context.Context, owner string) (*Profile, error) {
	query := `INSERT INTO profiles (owner) VALUES (?)`

	if _, err := r.db.ExecContext(ctx, query, owner); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r.Get(ctx, owner)
}

func (r *SQLiteRepository) Apply(ctx context.Context, owner string, upd *ProfileUpdate) error {
	sets, args := updateColumns(upd, func(int) string { return "?" })
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, owner)

	query := `UPDATE profiles SET ` + strings.Join(sets, ", ") + ` WHERE owner = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// scanProfile maps one row onto a Profile, translating NULL digests to "".
func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	var password, school, city, food sql.NullString

	err := row.Scan(&p.Owner, &password, &school, &city, &food, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.PasswordHash = password.String
	p.AnswerSchoolHash = school.String
	p.AnswerCityHash = city.String
	p.AnswerFoodHash = food.String
	return p, nil
}

// updateColumns renders SET clauses for the non-nil fields of upd.
// The placeholder function receives a 1-based argument position, which lets
// the Postgres repository produce $n markers from the same logic.
func updateColumns(upd *ProfileUpdate, placeholder func(pos int) string) ([]string, []any) {
	var sets []string
	var args []any

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = %s", column, placeholder(len(args))))
	}

	add("password_hash", upd.PasswordHash)
	add("answer_school_hash", upd.AnswerSchoolHash)
	add("answer_city_hash", upd.AnswerCityHash)
	add("answer_food_hash", upd.AnswerFoodHash)

	return sets, args
}
