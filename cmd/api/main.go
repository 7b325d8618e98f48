// Package main boots the HandyHub marketplace API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/handyhub/marketplace-system/docs"
	"github.com/handyhub/marketplace-system/internal/api"
	"github.com/handyhub/marketplace-system/internal/infrastructure/config"
	mongodb "github.com/handyhub/marketplace-system/internal/infrastructure/db/mongo"
	redisdb "github.com/handyhub/marketplace-system/internal/infrastructure/db/redis"
	"github.com/handyhub/marketplace-system/internal/infrastructure/payments"
	"github.com/handyhub/marketplace-system/internal/infrastructure/storage"
	"github.com/handyhub/marketplace-system/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

//	@title			HandyHub Marketplace API
//	@version		1.0
//	@description	Two-sided marketplace connecting clients who post service requests with technicians who accept and fulfil them.
//	@BasePath		/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, disconnect, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		return err
	}

	media, err := storage.New(ctx, storage.Config{
		Bucket:     cfg.Media.Bucket,
		Region:     cfg.Media.Region,
		PresignTTL: cfg.Media.PresignTTL,
	})
	if err != nil {
		return fmt.Errorf("media store: %w", err)
	}

	processor := payments.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.Currency)

	e, dispatcher := api.NewRouter(api.Dependencies{
		DB:        db,
		Redis:     rdb,
		Processor: processor,
		Media:     media,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Workers:   cfg.Workers,
		Log:       log,
	})

	dispatcher.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api listening")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	}

	log.Info().Msg("server stopped")
	return nil
}

// ensureIndexes creates the collection indexes each repository relies on.
// Index builds are idempotent, so this runs on every boot.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := mongodb.NewRequestRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("request indexes: %w", err)
	}
	if err := mongodb.NewPaymentRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("payment indexes: %w", err)
	}
	if err := mongodb.NewNotificationRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("notification indexes: %w", err)
	}
	return nil
}
