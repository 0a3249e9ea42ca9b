package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/config"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"github.com/vsinha/garmentmrp/pkg/interfaces/api"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// ServeCommand runs the HTTP API until ctx is cancelled
type ServeCommand struct {
	config Config
}

// NewServeCommand creates a serve command. ScenarioFile and SuppliersFile
// are optional seed data.
func NewServeCommand(config Config) *ServeCommand {
	return &ServeCommand{config: config}
}

// Execute starts the server and shuts it down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	if app.Tokens == nil {
		return fmt.Errorf("auth.secret is required to serve the API")
	}
	if c.config.ScenarioFile != "" {
		sc, err := app.LoadScenario(c.config.ScenarioFile)
		if err != nil {
			return fmt.Errorf("error loading scenario: %w", err)
		}
		log.Info("scenario loaded", zap.String("scenario", sc.Name), zap.Int("jobs", len(sc.Jobs)))
	}
	if c.config.SuppliersFile != "" {
		if _, err := app.LoadSuppliers(c.config.SuppliersFile); err != nil {
			return fmt.Errorf("error loading suppliers: %w", err)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(app.APIDeps()),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
