package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"energydash/internal/charts"
	"energydash/internal/dashboard"
	"energydash/internal/logger"
	"energydash/internal/storage"
)

// Files written into every snapshot folder.
const (
	IndexFile       = storage.SnapshotIndex
	StackImageFile  = "stack.png"
	LegendImageFile = "legend.png"
	StackPageFile   = "stack.html"
	StateFile       = "state.json"
)

// Snapshot describes a stored snapshot.
type Snapshot struct {
	Folder    string    `json:"folder"`
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
}

// SnapshotService renders the current dashboard state and stores it.
type SnapshotService struct {
	dash    *dashboard.Dashboard
	charts  *charts.ChartGenerator
	html    *HTMLBuilder
	storage storage.StorageClient
	log     *logger.Logger

	// TopCountries bounds the summary table and the hover charts.
	TopCountries int
	now          func() time.Time
}

// NewSnapshotService creates a snapshot service writing through client.
func NewSnapshotService(dash *dashboard.Dashboard, client storage.StorageClient, log *logger.Logger) *SnapshotService {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &SnapshotService{
		dash:         dash,
		charts:       charts.NewChartGenerator(),
		html:         NewHTMLBuilder(),
		storage:      client,
		log:          log.WithComponent("snapshots"),
		TopCountries: 10,
		now:          time.Now,
	}
}

// Create renders the current state and stores it in a new timestamped
// folder. Everything is taken from one dashboard read, and the transition
// cache is left as the painter last drew it.
func (s *SnapshotService) Create(ctx context.Context) (*Snapshot, error) {
	created := s.now().UTC()
	folder := storage.SnapshotFolderPath(created)

	files, err := s.render(created)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Folder: folder, CreatedAt: created}
	for _, name := range []string{StateFile, StackImageFile, LegendImageFile, StackPageFile, IndexFile} {
		p := path.Join(folder, name)
		if err := s.storage.StoreFile(ctx, p, files[name]); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", name, err)
		}
		snap.Files = append(snap.Files, p)
	}

	s.log.Info("snapshot stored", logger.Fields{"folder": folder, "files": len(snap.Files)})
	return snap, nil
}

func (s *SnapshotService) render(created time.Time) (map[string][]byte, error) {
	capture := s.dash.Capture(func(m dashboard.MapView) []string {
		fills := TopCountries(m, s.TopCountries)
		codes := make([]string, 0, len(fills))
		for _, f := range fills {
			codes = append(codes, f.Code)
		}
		return codes
	})
	state, stack := capture.State, capture.Stack
	files := make(map[string][]byte, 5)

	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	files[StateFile] = stateJSON

	var buf bytes.Buffer
	if err := s.charts.StackPNG(&buf, stack); err != nil {
		return nil, err
	}
	files[StackImageFile] = append([]byte(nil), buf.Bytes()...)

	buf.Reset()
	if err := s.charts.LegendPNG(&buf, state.Legend); err != nil {
		return nil, err
	}
	files[LegendImageFile] = append([]byte(nil), buf.Bytes()...)

	page, err := s.charts.StackPageHTML(stack)
	if err != nil {
		return nil, err
	}
	files[StackPageFile] = []byte(page)

	var hovers []charts.ChartSnippet
	for _, view := range capture.Hovers {
		snippet, err := s.charts.HoverSnippet(view)
		if err != nil {
			return nil, err
		}
		hovers = append(hovers, snippet)
	}

	title := fmt.Sprintf("Electricity generation %d", state.Selection.Year)
	index, err := s.html.BuildPage(title, SummaryMarkdown(state, s.TopCountries), hovers, created)
	if err != nil {
		return nil, err
	}
	files[IndexFile] = []byte(index)
	return files, nil
}

// List returns stored snapshot folders, newest first.
func (s *SnapshotService) List(ctx context.Context, limit int) ([]string, error) {
	return storage.ListSnapshots(ctx, s.storage, limit)
}
