package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
)

// SQLiteRepository stores file metadata in the local SQLite database.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, f *SecureFile) error {
	query :=
		`INSERT INTO files (id, owner, name, storage_key, media_type, size, file_key, nonce)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.Owner, f.Name, f.StorageKey, f.MediaType, f.Size, f.FileKey, f.Nonce)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, owner, id string) (*SecureFile, error) {
	query :=
		`SELECT id, owner, name, storage_key, media_type, size, file_key, nonce, uploaded_at
		 FROM files
		 WHERE owner = ? AND id = ?`

	f := &SecureFile{}
	err := r.db.QueryRowContext(ctx, query, owner, id).Scan(
		&f.ID, &f.Owner, &f.Name, &f.StorageKey, &f.MediaType, &f.Size,
		&f.FileKey, &f.Nonce, &f.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]*SecureFile, error) {
	query :=
		`SELECT id, owner, name, storage_key, media_type, size, file_key, nonce, uploaded_at
		 FROM files
		 WHERE owner = ?
		 ORDER BY uploaded_at, id`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*SecureFile
	for rows.Next() {
		f := &SecureFile{}
		if err := rows.Scan(
			&f.ID, &f.Owner, &f.Name, &f.StorageKey, &f.MediaType, &f.Size,
			&f.FileKey, &f.Nonce, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
