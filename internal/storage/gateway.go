package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filevault/internal/cryptox"
	"github.com/dmitrijs2005/filevault/internal/db"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/filex"
	"github.com/dmitrijs2005/filevault/internal/files"
	"github.com/dmitrijs2005/filevault/internal/logging"
)

// Gateway combines the object store, the metadata repository, and the AEAD
// envelope into the file operations of the vault. It never reads or writes
// profiles; access control is enforced above it by the auth controller.
type Gateway struct {
	objects  ObjectStore
	db       *sql.DB
	newRepo  files.RepositoryFactory
	logger   logging.Logger
	shareTTL time.Duration
}

// NewGateway constructs a Gateway over the given object store and database.
func NewGateway(objects ObjectStore, database *sql.DB, dialect db.Dialect, logger logging.Logger, shareTTL time.Duration) *Gateway {
	var factory files.RepositoryFactory
	switch dialect {
	case db.DialectPostgres:
		factory = func(h dbx.DBTX) files.Repository { return files.NewPostgresRepository(h) }
	default:
		factory = func(h dbx.DBTX) files.Repository { return files.NewSQLiteRepository(h) }
	}
	return &Gateway{
		objects:  objects,
		db:       database,
		newRepo:  factory,
		logger:   logger,
		shareTTL: shareTTL,
	}
}

// storageKey generates a date-partitioned random object key for an upload.
func storageKey(owner string) string {
	d := time.Now()
	return fmt.Sprintf("users/%s/%d/%d/%d/%v", owner, d.Year(), d.Month(), d.Day(), uuid.New())
}

// List returns the owner's file metadata.
func (g *Gateway) List(ctx context.Context, owner string) ([]*files.SecureFile, error) {
	return g.newRepo(g.db).ListByOwner(ctx, owner)
}

// Upload reads a local file, seals it, stores the ciphertext in the object
// store, and records the metadata row. If the metadata write fails the
// uploaded object is removed again on a best-effort basis.
func (g *Gateway) Upload(ctx context.Context, owner, path string) (*files.SecureFile, error) {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	sealed, err := cryptox.SealBlob(plaintext)
	if err != nil {
		return nil, fmt.Errorf("seal error: %w", err)
	}

	key := storageKey(owner)
	if err := g.objects.Put(ctx, key, sealed.Ciphertext); err != nil {
		return nil, err
	}

	f := &files.SecureFile{
		ID:         uuid.NewString(),
		Owner:      owner,
		Name:       filepath.Base(path),
		StorageKey: key,
		MediaType:  http.DetectContentType(plaintext),
		Size:       int64(len(plaintext)),
		FileKey:    sealed.Key,
		Nonce:      sealed.Nonce,
	}

	if err := g.newRepo(g.db).Create(ctx, f); err != nil {
		if delErr := g.objects.Delete(ctx, key); delErr != nil {
			g.logger.Warn(ctx, "orphaned object after failed metadata write",
				"key", key, "error", delErr.Error())
		}
		return nil, err
	}

	g.logger.Info(ctx, "file uploaded", "owner", owner, "file_id", f.ID, "size", f.Size)
	return f, nil
}

// Download fetches a sealed object, opens it, and writes the plaintext into
// destDir under the file's original name. Returns the local path.
func (g *Gateway) Download(ctx context.Context, owner, id, destDir string) (string, error) {
	f, err := g.newRepo(g.db).Get(ctx, owner, id)
	if err != nil {
		return "", err
	}

	ciphertext, err := g.objects.Get(ctx, f.StorageKey)
	if err != nil {
		return "", err
	}

	plaintext, err := cryptox.OpenBlob(ciphertext, f.FileKey, f.Nonce)
	if err != nil {
		return "", fmt.Errorf("open seal error: %w", err)
	}

	dir, err := filex.EnsureDir(destDir)
	if err != nil {
		return "", err
	}

	local := filepath.Join(dir, f.Name)
	if err := os.WriteFile(local, plaintext, 0o600); err != nil {
		return "", fmt.Errorf("write error: %w", err)
	}
	return local, nil
}

// Delete removes the object first and the metadata row after, so a failure
// never leaves a dangling row pointing at nothing readable.
func (g *Gateway) Delete(ctx context.Context, owner, id string) error {
	f, err := g.newRepo(g.db).Get(ctx, owner, id)
	if err != nil {
		return err
	}

	if err := g.objects.Delete(ctx, f.StorageKey); err != nil {
		return err
	}

	if err := g.newRepo(g.db).Delete(ctx, owner, id); err != nil {
		return err
	}

	g.logger.Info(ctx, "file deleted", "owner", owner, "file_id", id)
	return nil
}

// ShareURL returns a temporary presigned link to the sealed object. The
// content stays encrypted; the link is meant for transfer between the
// owner's own devices.
func (g *Gateway) ShareURL(ctx context.Context, owner, id string) (string, error) {
	f, err := g.newRepo(g.db).Get(ctx, owner, id)
	if err != nil {
		return "", err
	}
	return g.objects.PresignGet(ctx, f.StorageKey, g.shareTTL)
}
