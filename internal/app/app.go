// Package app wires configuration, data loading, the dashboard and
// snapshot storage together for the binaries.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"energydash/internal/config"
	"energydash/internal/dashboard"
	"energydash/internal/fetchers"
	"energydash/internal/logger"
	"energydash/internal/models"
	"energydash/internal/reports"
	"energydash/internal/storage"
)

// App is a loaded dashboard with its snapshot storage.
type App struct {
	Config    *config.Config
	Loader    *fetchers.DataLoader
	Dashboard *dashboard.Dashboard
	Storage   storage.StorageClient
	Snapshots *reports.SnapshotService

	log *logger.Logger
}

// Span is the configured year range.
func Span(cfg *config.Config) models.YearSpan {
	return models.YearSpan{Min: cfg.MinYear, Max: cfg.MaxYear}
}

// Sources returns where cfg says the inputs live.
func Sources(cfg *config.Config) fetchers.Sources {
	return fetchers.Sources{
		DatasetPath: cfg.DatasetPath,
		DatasetURL:  cfg.DatasetURL,
		NameMapPath: cfg.NameMapPath,
		NameMapURL:  cfg.NameMapURL,
	}
}

// New loads the inputs, builds the dashboard at the default year and opens
// snapshot storage.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	loader := fetchers.NewDataLoader(log)
	bundle, err := loader.LoadAll(ctx, Sources(cfg), Span(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	dash, err := dashboard.New(bundle.Store, bundle.Names, cfg.DefaultYear, log)
	if err != nil {
		return nil, err
	}

	mode := storage.DeploymentMode(strings.ToLower(cfg.StorageMode))
	client, err := storage.NewStorageClient(ctx, mode, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Loader:    loader,
		Dashboard: dash,
		Storage:   client,
		Snapshots: reports.NewSnapshotService(dash, client, log),
		log:       log.WithComponent("app"),
	}, nil
}

// Reload reads the inputs again and swaps the new store into the dashboard.
func (a *App) Reload(ctx context.Context) error {
	bundle, err := a.Loader.LoadAll(ctx, Sources(a.Config), Span(a.Config))
	if err != nil {
		return err
	}
	return a.Dashboard.Replace(bundle.Store, bundle.Names)
}

// Watch reloads whenever the local dataset or name map changes, until ctx
// is done. Remote sources are not watched.
func (a *App) Watch(ctx context.Context) error {
	var paths []string
	if a.Config.DatasetURL == "" {
		paths = append(paths, a.Config.DatasetPath)
	}
	if a.Config.NameMapURL == "" {
		paths = append(paths, a.Config.NameMapPath)
	}
	if len(paths) == 0 {
		a.log.Warn("nothing to watch: both inputs are remote")
		return nil
	}
	w, err := fetchers.NewWatcher(paths, 500*time.Millisecond, a.Reload, a.log)
	if err != nil {
		return err
	}
	a.log.Info("watching dataset files", logger.Fields{"paths": paths})
	return w.Run(ctx)
}

// Close releases storage.
func (a *App) Close() error {
	return a.Storage.Close()
}
