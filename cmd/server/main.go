package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"docroute/internal/bootstrap"
	"docroute/internal/config"
	"docroute/internal/handler"
	"docroute/internal/observability/logging"
	"docroute/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Metrics.Service, cfg.Log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}

	analysisH := handler.NewAnalysisHandler(app.Service, cfg.Server.MaxBodyMB)
	healthH := handler.NewHealthHandler(map[string]handler.ReadinessCheck{
		"rules": func(context.Context) error {
			if app.Rules == nil {
				return errors.New("rule set not loaded")
			}
			return nil
		},
	})

	r := router.Setup(analysisH, healthH, app.Metrics, cfg.CORS.AllowedOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server.stopped")
	return nil
}
