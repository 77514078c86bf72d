package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energydash/internal/app"
	"energydash/internal/config"
	"energydash/internal/logger"
	"energydash/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	log := logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)

	log.Info("Starting energy dashboard", logger.Fields{
		"version":     config.GetVersion(),
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"storage":     cfg.StorageMode,
	})

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize dashboard", err)
	}
	defer a.Close()

	if cfg.WatchDataset {
		go func() {
			if err := a.Watch(ctx); err != nil {
				log.Error("Dataset watcher stopped", err)
			}
		}()
	}

	srv := server.NewServer(a.Dashboard, a.Snapshots, a.Storage, log)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
	log.Info("Server stopped")
}
