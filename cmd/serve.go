package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/handlers"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/server"
	"task_tracker/internal/service"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// init logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// schema
	if cfg.DB.AutoMigrate {
		version, err := db.Migrate(dbConfig(cfg.DB), db.Up)
		if err != nil {
			return err
		}
		log.Infow("database schema ready", "driver", cfg.DB.Driver, "version", version)
	}

	// open DB
	conn, err := db.Open(cmd.Context(), dbConfig(cfg.DB))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	apiHandler, err := newAPIHandler(cfg, conn, log)
	if err != nil {
		return err
	}

	// start HTTP server
	srv := &server.Server{}
	errc := runHTTPServer(srv, cfg.Server.Port, apiHandler, log)

	// graceful shutdown
	return waitForShutdown(srv, errc, cfg.Server.ShutdownTimeout, log)
}

func newAPIHandler(cfg config.Config, conn *sql.DB, log *logger.Logger) (*handlers.Handler, error) {
	dialect, err := repository.ParseDialect(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	tokens, err := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}
	hasher, err := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepository(conn, dialect)
	services := service.NewService(repos, tokens, hasher)
	return handlers.NewHandler(services, log,
		handlers.WithExposeInternalErrors(cfg.Server.ExposeInternalErrors),
		handlers.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.WithSessionInterval(cfg.WS.Interval),
	), nil
}

// runHTTPServer runs the HTTP server in a separate goroutine. The returned
// channel receives the error that stopped it, if any.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			errc <- fmt.Errorf("error starting server: %w", err)
		}
		close(errc)
	}()
	return errc
}

// waitForShutdown blocks until a termination signal arrives or the server
// fails, then drains in-flight requests.
func waitForShutdown(srv *server.Server, errc <-chan error, timeout time.Duration, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errc:
		if ok && err != nil {
			return err
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server...", "signal", sig.String())
	}

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
