package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/passgen/passgen-go/internal/config"
	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/handler"
	"github.com/passgen/passgen-go/internal/middleware"
	"github.com/passgen/passgen-go/internal/repository"
	"github.com/passgen/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst)
	go limiter.Run(ctx)

	routes := handler.Routes{
		Generator: handler.NewGeneratorHandler(service.NewGeneratorService()),
		Derive:    handler.NewDeriveHandler(service.NewDeriveService(nil)),
		Limiter:   limiter,
	}

	// Accounts and profiles need a database.
	if cfg.DatabaseDSN == "" {
		slog.Warn("DATABASE_DSN not set, account and profile routes disabled")
	} else if db, err := openDB(ctx, cfg.DatabaseDSN); err != nil {
		slog.Warn("database unavailable, account and profile routes disabled", "error", err)
	} else {
		defer db.Close()

		profiles := repository.NewProfileRepository(db)
		tokens := crypto.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)
		authService := service.NewAuthService(
			repository.NewUserRepository(db),
			crypto.NewAccountHasher(crypto.DefaultArgon2Params()),
			tokens,
		)

		routes.Derive = handler.NewDeriveHandler(service.NewDeriveService(profiles))
		routes.Auth = handler.NewAuthHandler(authService)
		routes.Profiles = handler.NewProfileHandler(service.NewProfileService(profiles))
		routes.Tokens = tokens
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openDB connects to MySQL and applies the schema.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := repository.NewDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
