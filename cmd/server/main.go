// Package main initializes and starts the member authentication server,
// setting up configuration, logging, storage, services, handlers and the
// HTTP listener.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/MemberAuth/internal/config"
	"github.com/atinyakov/MemberAuth/internal/credential"
	"github.com/atinyakov/MemberAuth/internal/db"
	"github.com/atinyakov/MemberAuth/internal/logger"
	"github.com/atinyakov/MemberAuth/internal/repository"
	"github.com/atinyakov/MemberAuth/internal/server/handler/http"
	"github.com/atinyakov/MemberAuth/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

// orDefault returns v when non-empty, otherwise def (equivalent to cmp.Or,
// which is unavailable before Go 1.22).
func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", orDefault(version, "N/A"))
	fmt.Printf("Build date: %s\n", orDefault(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	// Pick the member store: PostgreSQL when a DSN is configured, memory otherwise.
	var authRepo service.AuthRepository
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer postgresDB.Close()
		authRepo = repository.NewPostgresAuthRepository(postgresDB)
	} else {
		zapLogger.Warn("no database configured, members are kept in memory")
		authRepo = repository.NewMemoryAuthRepository()
	}

	creds, err := credential.New(options.BcryptCost)
	if err != nil {
		zapLogger.Fatal("invalid bcrypt cost", zap.Error(err))
	}

	authService := service.NewAuthService(authRepo, creds, zapLogger)
	authHandler := &http.AuthHandler{AuthService: authService}

	var staticHandler *http.StaticHandler
	if options.StaticDir != "" {
		staticHandler = &http.StaticHandler{Dir: options.StaticDir}
	}

	router := http.NewRouter(authHandler, staticHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Port),
			zap.Bool("tls", options.TLSCert != ""),
			zap.Int("bcrypt_cost", options.BcryptCost),
		)
		if options.TLSCert != "" {
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
