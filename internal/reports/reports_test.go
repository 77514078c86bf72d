package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"path"
	"strings"
	"testing"
	"time"

	"energydash/internal/charts"
	"energydash/internal/dashboard"
	"energydash/internal/logger"
	"energydash/internal/metrics"
	"energydash/internal/models"
	"energydash/internal/storage"
)

func rec(pop, elec float64, pct map[models.Source]float64) models.RawRecord {
	r := models.RawRecord{Population: models.Some(pop), ElectricityPct: models.Some(elec)}
	for src, v := range pct {
		r.SourcePct[src.Index()] = models.Some(v)
	}
	return r
}

func testDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	ds := models.NewDataset(map[string]map[int]models.RawRecord{
		"AUT": {
			2001: rec(1e6, 800, map[models.Source]float64{models.Coal: 50, models.Wind: 50}),
			2002: rec(1e6, 1000, map[models.Source]float64{models.Coal: 60, models.Gas: 40}),
		},
		"BEL": {
			2002: rec(1e6, 500, map[models.Source]float64{models.Nuclear: 100}),
		},
		"DEU": {
			2001: rec(2e6, 100, map[models.Source]float64{models.Hydro: 100}),
		},
	})
	span := models.YearSpan{Min: 2000, Max: 2002}
	names := models.NameMap{"AUT": "Austria", "BEL": "Belgium", "DEU": "Germany"}
	d, err := dashboard.New(metrics.Build(ds, span), names, 2002, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTopCountries(t *testing.T) {
	m := testDashboard(t).Map()

	all := TopCountries(m, 0)
	if len(all) != 2 {
		t.Fatalf("got %d countries, want the 2 with data", len(all))
	}
	if all[0].Code != "AUT" || all[1].Code != "BEL" {
		t.Errorf("order = %s, %s; want AUT, BEL", all[0].Code, all[1].Code)
	}
	if one := TopCountries(m, 1); len(one) != 1 || one[0].Code != "AUT" {
		t.Errorf("TopCountries(1) = %+v", one)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	d := testDashboard(t)
	md := SummaryMarkdown(d.State(), 5)

	for _, want := range []string{
		"# Electricity generation, 2002",
		"| Mode | absolute |",
		"| Sources | all |",
		"| 1 | Austria | AUT | 1.0 PWh |",
		"| 2 | Belgium | BEL | 0.5 PWh |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Germany") {
		t.Error("countries without data should not be listed")
	}

	if _, err := d.ToggleSource("all"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.ToggleSource("coal"); err != nil {
		t.Fatal(err)
	}
	d.ToggleMode()
	md = SummaryMarkdown(d.State(), 5)
	if !strings.Contains(md, "| Sources | coal |") || !strings.Contains(md, "| Mode | per capita |") {
		t.Errorf("filtered summary:\n%s", md)
	}
}

func TestSummaryMarkdownEscapesPipes(t *testing.T) {
	state := testDashboard(t).State()
	for i := range state.Map.Fills {
		if state.Map.Fills[i].Code == "AUT" {
			state.Map.Fills[i].Name = "Austria | Tyrol"
		}
	}
	md := SummaryMarkdown(state, 5)
	if !strings.Contains(md, `| 1 | Austria \| Tyrol | AUT | 1.0 PWh |`) {
		t.Errorf("pipe in name not escaped:\n%s", md)
	}
}

func TestSummaryMarkdownWithoutData(t *testing.T) {
	d := testDashboard(t)
	if _, err := d.SetYear(2000); err != nil {
		t.Fatal(err)
	}
	if md := SummaryMarkdown(d.State(), 5); !strings.Contains(md, "No country has data") {
		t.Errorf("summary for an empty year:\n%s", md)
	}
}

func TestSnapshotLeavesStackTransition(t *testing.T) {
	d := testDashboard(t)
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewSnapshotService(d, client, logger.Discard())
	svc.TopCountries = 1

	before := d.Stack()
	if _, err := d.ToggleSource("gas"); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	snap, err := svc.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}

	index, err := client.GetFile(ctx, path.Join(snap.Folder, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(index, []byte("chart-hover-AUT")) || bytes.Contains(index, []byte("chart-hover-BEL")) {
		t.Error("index.html should carry exactly the top country's hover chart")
	}

	after := d.Stack()
	for i, s := range after.Bars[2].Segments {
		prev := before.Bars[2].Segments[i].Frame
		if s.Frame.FromY != prev.ToY || s.Frame.FromHeight != prev.ToHeight {
			t.Errorf("%s: snapshot advanced the cache, from %+v want %+v", s.Source, s.Frame, prev)
		}
	}
}

func TestBuildPage(t *testing.T) {
	h := NewHTMLBuilder()
	hover := charts.ChartSnippet{ID: "chart-hover-AUT", HTML: `<div id="chart-hover-AUT"></div>`}
	page, err := h.BuildPage("Test <page>", "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", []charts.ChartSnippet{hover},
		time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildPage() error = %v", err)
	}
	for _, want := range []string{
		"<title>Test &lt;page&gt;</title>",
		`<h1 id="title">Title</h1>`,
		"<table>",
		`<div id="chart-hover-AUT"></div>`,
		"echarts.min.js",
		`src="stack.png"`,
		"2024-03-01 12:00:00 UTC",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestSnapshotServiceCreate(t *testing.T) {
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewSnapshotService(testDashboard(t), client, logger.Discard())
	ts := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	svc.now = func() time.Time { return ts }

	ctx := context.Background()
	snap, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if snap.Folder != "snapshots/2024/03/01/Snapshot-2024-03-01-12-30-45" {
		t.Errorf("folder = %s", snap.Folder)
	}
	if len(snap.Files) != 5 {
		t.Errorf("stored %d files, want 5", len(snap.Files))
	}

	index, err := client.GetFile(ctx, path.Join(snap.Folder, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(index, []byte("chart-hover-AUT")) || !bytes.Contains(index, []byte("Austria")) {
		t.Error("index.html is missing the hover charts or the summary")
	}

	img, err := client.GetFile(ctx, path.Join(snap.Folder, StackImageFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Error("stack.png is not a PNG")
	}

	raw, err := client.GetFile(ctx, path.Join(snap.Folder, StateFile))
	if err != nil {
		t.Fatal(err)
	}
	var state dashboard.State
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("state.json: %v", err)
	}
	if state.Selection.Year != 2002 || len(state.Map.Fills) != 3 {
		t.Errorf("state.json = year %d, %d fills", state.Selection.Year, len(state.Map.Fills))
	}

	svc.now = func() time.Time { return ts.Add(time.Hour) }
	if _, err := svc.Create(ctx); err != nil {
		t.Fatal(err)
	}
	folders, err := svc.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(folders) != 2 || folders[1] != snap.Folder {
		t.Errorf("List() = %v, want newest first", folders)
	}
}
