package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"paisable/internal/app/config"
	"paisable/internal/app/di"
	"paisable/internal/app/router"
	authhandler "paisable/internal/feature/auth/transport/handler"
	authusecase "paisable/internal/feature/auth/usecase"
	jwtmw "paisable/internal/platform/jwt"
	"paisable/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env when present
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	if !cfg.JWT.SecretFromEnv {
		slog.Warn("JWT_SECRET is not set. Using a development secret; set a strong secret in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Cache (optional)
	rdb := di.NewRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Store
	store, err := di.NewStore(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			slog.Error("failed to close user store", "error", err)
		}
	}()

	// Email
	transport, closeMail := di.NewMailTransport(ctx, cfg)
	notifier := di.NewNotifier(cfg, transport)

	// Usecase and handler
	generator := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.Expiration)
	authUC := authusecase.NewAuthUsecase(store.Users, generator, notifier)
	authH := authhandler.NewAuthHandler(authUC)

	r := router.NewRouter(authH, jwtmw.NewVerifier(cfg.JWT.Secret), store.Checks, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	// Let welcome emails already dispatched finish before closing the pool
	notifier.Wait()
	if err := closeMail(); err != nil {
		slog.Warn("failed to close email transport", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
