package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/filevault/internal/accounts"
	"github.com/dmitrijs2005/filevault/internal/config"
	"github.com/dmitrijs2005/filevault/internal/db"
	"github.com/dmitrijs2005/filevault/internal/files"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/storage"
	"github.com/dmitrijs2005/filevault/internal/vault"
)

// Controller is the command surface the CLI drives. The real
// vault.Controller satisfies it; tests can provide a lightweight stub.
type Controller interface {
	Load(ctx context.Context) (vault.Phase, error)
	Phase() vault.Phase
	Authenticated() bool
	SetPassword(ctx context.Context, secret string) error
	SetSecurityAnswers(ctx context.Context, school, city, food string) error
	AttemptLogin(ctx context.Context, secret string) (bool, error)
	ForgotPassword(ctx context.Context) error
	CancelReset(ctx context.Context) error
	VerifyResetAnswers(ctx context.Context, school, city, food string) (bool, error)
	CompleteReset(ctx context.Context, newPassword string) error
	Logout(ctx context.Context) error
	ListFiles(ctx context.Context) ([]*files.SecureFile, error)
	UploadFile(ctx context.Context, path string) (*files.SecureFile, error)
	DownloadFile(ctx context.Context, id, destDir string) (string, error)
	DeleteFile(ctx context.Context, id string) error
	ShareFile(ctx context.Context, id string) (string, error)
}

type App struct {
	config     *config.Config
	controller Controller
	logger     logging.Logger
	reader     *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.Default())

	database, dialect, err := db.Open(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	objects, err := storage.NewS3Store(ctx, storage.S3Config{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, err
	}

	svc := accounts.NewService(database, dialect)
	gw := storage.NewGateway(objects, database, dialect, logger, c.ShareURLTTL)
	ctrl := vault.NewController(c.Owner, svc, gw, logger)

	return &App{
		config:     c,
		controller: ctrl,
		logger:     logger,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// Run loads the profile and hands control to the REPL. It returns when the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	phase, err := a.controller.Load(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug(ctx, "profile loaded", "phase", phase.String())

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
	return nil
}

func (a *App) getStatus() string {
	s := a.config.Owner + " " + a.controller.Phase().String()
	if a.controller.Authenticated() {
		s += " unlocked"
	}
	return "(" + s + ")"
}
