package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energydash/internal/dashboard"
	"energydash/internal/logger"
	"energydash/internal/metrics"
	"energydash/internal/models"
	"energydash/internal/reports"
	"energydash/internal/selection"
	"energydash/internal/storage"
)

func rec(pop, elec float64, pct map[models.Source]float64) models.RawRecord {
	r := models.RawRecord{Population: models.Some(pop), ElectricityPct: models.Some(elec)}
	for src, v := range pct {
		r.SourcePct[src.Index()] = models.Some(v)
	}
	return r
}

type testEnv struct {
	server  *Server
	ts      *httptest.Server
	storage *storage.LocalStorageClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ds := models.NewDataset(map[string]map[int]models.RawRecord{
		"AUT": {
			2001: rec(1e6, 800, map[models.Source]float64{models.Coal: 50, models.Wind: 50}),
			2002: rec(1e6, 1000, map[models.Source]float64{models.Coal: 60, models.Gas: 40}),
		},
		"DEU": {
			2001: rec(2e6, 100, map[models.Source]float64{models.Hydro: 100}),
		},
	})
	span := models.YearSpan{Min: 2000, Max: 2002}
	dash, err := dashboard.New(metrics.Build(ds, span), models.NameMap{"AUT": "Austria"}, 2002, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	client, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(dash, reports.NewSnapshotService(dash, client, logger.Discard()), client, logger.Discard())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{server: s, ts: ts, storage: client}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp, body := e.do(t, "GET", "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var health map[string]interface{}
	if err := json.Unmarshal(body, &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" {
		t.Errorf("health = %v", health)
	}
}

func TestSelectionEndpoints(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, "POST", "/api/selection/sources/coal/toggle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle coal status = %d: %s", resp.StatusCode, body)
	}
	var snap selection.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Sources[models.Coal] || snap.All {
		t.Errorf("after toggling coal off: %+v", snap)
	}

	resp, body = e.do(t, "POST", "/api/selection/mode/toggle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mode toggle status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatal(err)
	}
	if !snap.PerCapita {
		t.Error("mode toggle did not switch to per capita")
	}

	resp, body = e.do(t, "PUT", "/api/selection/year", strings.NewReader(`{"year":2001}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set year status = %d: %s", resp.StatusCode, body)
	}
	resp, body = e.do(t, "GET", "/api/selection", nil)
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || snap.Year != 2001 {
		t.Errorf("selection year = %d", snap.Year)
	}
}

func TestErrorMapping(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown source", "POST", "/api/selection/sources/tidal/toggle", "", http.StatusBadRequest},
		{"year out of range", "PUT", "/api/selection/year", `{"year":1999}`, http.StatusBadRequest},
		{"missing year", "PUT", "/api/selection/year", `{}`, http.StatusBadRequest},
		{"bad json", "PUT", "/api/selection/year", `{`, http.StatusBadRequest},
		{"unknown country", "GET", "/api/countries/ZZZ/hover", "", http.StatusNotFound},
		{"bad legend stops", "GET", "/api/legend?stops=1", "", http.StatusBadRequest},
		{"missing file", "GET", "/files/snapshots/nope/index.html", "", http.StatusNotFound},
		{"escaping file", "GET", "/files/a/../../etc/passwd", "", http.StatusBadRequest},
		{"no route", "GET", "/nope", "", http.StatusNotFound},
		{"wrong method", "DELETE", "/api/map", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			resp, data := e.do(t, tt.method, tt.path, body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.want, data)
			}
		})
	}
}

func TestViewEndpoints(t *testing.T) {
	e := newTestEnv(t)

	resp, body := e.do(t, "GET", "/api/map", nil)
	var m dashboard.MapView
	if err := json.Unmarshal(body, &m); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("map: %d %v", resp.StatusCode, err)
	}
	if len(m.Fills) != 2 || m.Fills[0].Text != "1.0 PWh" {
		t.Errorf("map fills = %+v", m.Fills)
	}

	resp, body = e.do(t, "GET", "/api/legend?stops=5", nil)
	var l dashboard.LegendView
	if err := json.Unmarshal(body, &l); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("legend: %d %v", resp.StatusCode, err)
	}
	if len(l.Stops) != 5 {
		t.Errorf("legend has %d stops, want 5", len(l.Stops))
	}

	resp, body = e.do(t, "GET", "/api/stack", nil)
	var st dashboard.StackView
	if err := json.Unmarshal(body, &st); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stack: %d %v", resp.StatusCode, err)
	}
	if len(st.Bars) != 3 {
		t.Errorf("stack has %d bars, want 3", len(st.Bars))
	}

	resp, body = e.do(t, "GET", "/api/countries/AUT/hover", nil)
	var h dashboard.HoverView
	if err := json.Unmarshal(body, &h); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("hover: %d %v", resp.StatusCode, err)
	}
	if h.Name != "Austria" || len(h.Bars) != models.NumSources {
		t.Errorf("hover = %+v", h)
	}

	resp, _ = e.do(t, "GET", "/api/toggles", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("toggles status = %d", resp.StatusCode)
	}
	resp, _ = e.do(t, "GET", "/api/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("state status = %d", resp.StatusCode)
	}
}

func TestChartEndpoints(t *testing.T) {
	e := newTestEnv(t)

	for _, path := range []string{"/charts/stack.png", "/charts/legend.png"} {
		resp, body := e.do(t, "GET", path, nil)
		if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
			t.Errorf("%s: status %d type %s", path, resp.StatusCode, resp.Header.Get("Content-Type"))
		}
		if !bytes.HasPrefix(body, []byte("\x89PNG")) {
			t.Errorf("%s did not return a PNG", path)
		}
	}

	resp, body := e.do(t, "GET", "/charts/stack.html", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "echarts") {
		t.Errorf("stack page: status %d", resp.StatusCode)
	}
}

func (e *testEnv) coalFrame(t *testing.T, year int) dashboard.StackSegment {
	t.Helper()
	resp, body := e.do(t, "GET", "/api/stack", nil)
	var st dashboard.StackView
	if err := json.Unmarshal(body, &st); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("stack: %d %v", resp.StatusCode, err)
	}
	for _, b := range st.Bars {
		if b.Year != year {
			continue
		}
		for _, s := range b.Segments {
			if s.Source == models.Coal {
				return s
			}
		}
	}
	t.Fatalf("no coal segment for %d", year)
	return dashboard.StackSegment{}
}

func TestStaticChartsKeepStackTransition(t *testing.T) {
	e := newTestEnv(t)
	drawn := e.coalFrame(t, 2002)
	if drawn.Frame.ToHeight == 0 {
		t.Fatalf("coal 2002 drawn with no height: %+v", drawn.Frame)
	}

	if resp, _ := e.do(t, "POST", "/api/selection/sources/coal/toggle", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle coal status = %d", resp.StatusCode)
	}
	for _, path := range []string{"/charts/stack.png", "/charts/stack.html", "/api/snapshots"} {
		method := "GET"
		if path == "/api/snapshots" {
			method = "POST"
		}
		if resp, body := e.do(t, method, path, nil); resp.StatusCode >= 300 {
			t.Fatalf("%s %s: status %d: %s", method, path, resp.StatusCode, body)
		}
	}

	next := e.coalFrame(t, 2002)
	if next.Frame.FromHeight != drawn.Frame.ToHeight || next.Frame.FromY != drawn.Frame.ToY {
		t.Errorf("coal animates from %+v, want the last drawn %+v", next.Frame, drawn.Frame)
	}
	if next.Frame.ToHeight != 0 {
		t.Errorf("filtered coal ends at height %v", next.Frame.ToHeight)
	}
}

func TestSnapshotsAndFiles(t *testing.T) {
	e := newTestEnv(t)

	resp, _ := e.do(t, "GET", "/", nil)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/charts/stack.html" {
		t.Errorf("root without snapshots: %d -> %s", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body := e.do(t, "POST", "/api/snapshots", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create snapshot: %d %s", resp.StatusCode, body)
	}
	var snap reports.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatal(err)
	}

	resp, body = e.do(t, "GET", "/api/snapshots?limit=5", nil)
	var list struct {
		Snapshots []string `json:"snapshots"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Snapshots[0] != snap.Folder {
		t.Errorf("list = %+v, want [%s]", list, snap.Folder)
	}

	index := "/files/" + snap.Folder + "/" + reports.IndexFile
	resp, _ = e.do(t, "GET", "/", nil)
	if resp.Header.Get("Location") != index {
		t.Errorf("root redirects to %s, want %s", resp.Header.Get("Location"), index)
	}

	resp, body = e.do(t, "GET", index, nil)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("index: status %d type %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "Austria") {
		t.Error("index does not mention Austria")
	}
}

func TestSnapshotInProgress(t *testing.T) {
	e := newTestEnv(t)
	e.server.snapshotMu.Lock()
	defer e.server.snapshotMu.Unlock()

	resp, _ := e.do(t, "POST", "/api/snapshots", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSnapshotsDisabled(t *testing.T) {
	e := newTestEnv(t)
	s := NewServer(e.server.Dashboard, nil, nil, logger.Discard())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/snapshots", nil).WithContext(context.Background()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRecoversFromPanics(t *testing.T) {
	e := newTestEnv(t)
	router := e.server.SetupRoutes()
	router.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	e.server.wrap(router).ServeHTTP(rec, httptest.NewRequest("GET", "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
