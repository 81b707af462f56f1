package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	firebase "firebase.google.com/go/v4"

	"github.com/durgapur-services/marketplace-backend/config"
	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/bootstrap"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/storage/blob"
	"github.com/durgapur-services/marketplace-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)
	logger.Log.Info("starting marketplace backend", "port", cfg.Server.Port, "env", cfg.App.Environment, "city", cfg.App.City)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fatal("failed to run migrations", err)
	}

	sqlDB, err := bootstrap.OpenSQL(&cfg.Database)
	if err != nil {
		fatal("failed to open users database", err)
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer rdb.Close()

	app, authClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		fatal("failed to initialize firebase", err)
	}

	blobs, err := openBlobStore(ctx, cfg, app)
	if err != nil {
		fatal("failed to initialize blob storage", err)
	}

	built, err := bootstrap.Build(bootstrap.RouterDeps{
		Config: cfg,
		DB:     pool,
		SQL:    sqlDB,
		Redis:  rdb,
		Auth:   authClient,
		Blobs:  blobs,
	})
	if err != nil {
		fatal("failed to build router", err)
	}
	built.Scheduler.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: built.Router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("listen failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", "error", err)
	}
	built.Scheduler.Stop(shutdownCtx)

	logger.Log.Info("server exiting")
}

func openBlobStore(ctx context.Context, cfg *config.Config, app *firebase.App) (blob.Store, error) {
	if cfg.Storage.Provider == config.StorageS3 {
		client, err := blob.NewS3Client(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		return blob.NewS3Store(client, cfg.Storage.S3Bucket, cfg.Storage.S3Region), nil
	}
	store, err := blob.NewFirebaseStore(ctx, app, cfg.Firebase.StorageBucket)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func fatal(msg string, err error) {
	logger.Log.Error(msg, "error", err)
	os.Exit(1)
}
