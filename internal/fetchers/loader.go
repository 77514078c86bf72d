package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"energydash/internal/logger"
	"energydash/internal/metrics"
	"energydash/internal/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyDataset is returned when a dataset decodes but holds no country.
var ErrEmptyDataset = errors.New("dataset has no countries")

// Sources tells the loader where the dataset and the name map live. A URL,
// when set, wins over the corresponding path.
type Sources struct {
	DatasetPath string
	DatasetURL  string
	NameMapPath string
	NameMapURL  string
}

// Bundle is one consistent load: the raw dataset, the store derived from
// it and the display names.
type Bundle struct {
	Dataset *models.Dataset
	Store   *metrics.Store
	Names   models.NameMap
}

// DataLoader reads the dashboard inputs from disk or over HTTP.
type DataLoader struct {
	client *resty.Client
	log    *logger.Logger
}

// NewDataLoader creates a loader with a retrying HTTP client.
func NewDataLoader(log *logger.Logger) *DataLoader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= http.StatusInternalServerError
	})
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &DataLoader{client: client, log: log.WithComponent("fetchers")}
}

// LoadDataset reads and decodes the per-country dataset.
func (l *DataLoader) LoadDataset(ctx context.Context, path, url string) (*models.Dataset, error) {
	body, origin, err := l.read(ctx, path, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	ds := &models.Dataset{}
	if err := json.Unmarshal(body, ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset from %s: %w", origin, err)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", origin, ErrEmptyDataset)
	}
	span, _ := ds.Span()
	l.log.Info("dataset loaded", logger.Fields{
		"origin":    origin,
		"countries": ds.Len(),
		"min_year":  span.Min,
		"max_year":  span.Max,
	})
	return ds, nil
}

// LoadNameMap reads the ISO code to display name map.
func (l *DataLoader) LoadNameMap(ctx context.Context, path, url string) (models.NameMap, error) {
	body, origin, err := l.read(ctx, path, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read name map: %w", err)
	}
	names := models.NameMap{}
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, fmt.Errorf("failed to decode name map from %s: %w", origin, err)
	}
	l.log.Debug("name map loaded", logger.Fields{"origin": origin, "names": len(names)})
	return names, nil
}

// LoadAll fetches the dataset and the name map concurrently and builds the
// metrics store over span. A missing name map is logged and replaced by an
// empty one, since every lookup falls back to the country code.
func (l *DataLoader) LoadAll(ctx context.Context, src Sources, span models.YearSpan) (*Bundle, error) {
	var (
		ds    *models.Dataset
		names models.NameMap
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ds, err = l.LoadDataset(gctx, src.DatasetPath, src.DatasetURL)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = l.LoadNameMap(gctx, src.NameMapPath, src.NameMapURL)
		if err != nil {
			l.log.Warn("continuing without country names", logger.Fields{"error": err.Error()})
			names = models.NameMap{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	start := time.Now()
	store := metrics.Build(ds, span)
	l.log.Info("metrics store built", logger.Fields{
		"countries":   len(store.Countries()),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return &Bundle{Dataset: ds, Store: store, Names: names}, nil
}

func (l *DataLoader) read(ctx context.Context, path, url string) ([]byte, string, error) {
	if url != "" {
		body, err := l.fetch(ctx, url)
		return body, url, err
	}
	if path == "" {
		return nil, "", errors.New("neither path nor url configured")
	}
	body, err := os.ReadFile(path)
	return body, path, err
}

func (l *DataLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
