// Package server wires configuration, storage, the re-encryption engine and
// the gRPC endpoint into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/server/auth"
	"github.com/dmitrijs2005/gophvault/internal/server/blobstore"
	"github.com/dmitrijs2005/gophvault/internal/server/config"
	"github.com/dmitrijs2005/gophvault/internal/server/reencrypt"
	"github.com/dmitrijs2005/gophvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophvault/internal/server/services"

	gs "github.com/dmitrijs2005/gophvault/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	engine   *reencrypt.Engine
	services gs.Services
}

// parseLogLevel accepts slog level names; anything unknown means info.
func parseLogLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newBlobStore(ctx context.Context, c *config.Config, google *services.GoogleService) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BackendMemory, "":
		return blobstore.NewMemoryStore(), nil
	case config.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.BackendAzure:
		return blobstore.NewAzureStore(blobstore.AzureOptions{
			ServiceURL:  c.AzureServiceURL,
			AccountName: c.AzureAccountName,
			AccountKey:  c.AzureAccountKey,
			Container:   c.AzureContainer,
		})
	case config.BackendDrive:
		return blobstore.NewDriveStore(google.DriveService), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, parseLogLevel(c.LogLevel))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	oauth := services.NewGoogleOAuthConfig(c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
	google := services.NewGoogleService(db, rm, oauth, logger)

	blobs, err := newBlobStore(ctx, c, google)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	engine := reencrypt.NewEngine(rm.Users(db), rm.Files(db), blobs, reencrypt.NewMemoryJobStore(),
		reencrypt.WithWorkers(c.ReEncryptionWorkers),
		reencrypt.WithLogger(logger),
	)

	creds := services.NewCredentialService(db, rm, engine, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		engine: engine,
		services: gs.Services{
			Users:       services.NewUserService(db, rm, blobs, logger),
			Credentials: creds,
			Files:       services.NewFileService(db, rm, blobs, creds, logger),
			Google:      google,
		},
	}, nil
}

// MintToken issues an access token for userID signed with the configured
// secret. Identity is owned by an external provider; this is for local use.
func MintToken(c *config.Config, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	return auth.GenerateToken(userID, []byte(c.SecretKey), c.AccessTokenValidityDuration)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// shutdown cancels running re-encryption jobs and closes the database.
// In-flight files are allowed to finish within ShutdownTimeout.
func (app *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.engine.Shutdown(ctx); err != nil {
		app.logger.Warn(ctx, "re-encryption jobs did not stop in time", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "blob_backend", app.config.BlobBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	start := time.Now()
	app.shutdown()
	app.logger.Debug(context.Background(), "shutdown finished", "duration", time.Since(start))
}
