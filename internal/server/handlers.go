package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"energydash/internal/config"
	"energydash/internal/dashboard"
	"energydash/internal/logger"
	"energydash/internal/reports"
	"energydash/internal/selection"
	"energydash/internal/storage"

	"github.com/gorilla/mux"
)

// errSnapshotBusy is returned when a snapshot is requested while another is
// being rendered.
var errSnapshotBusy = errors.New("snapshot already in progress")

// errDisabled is returned by endpoints whose backing service is not
// configured.
var errDisabled = errors.New("snapshots are not configured")

type apiFunc func(r *http.Request) (int, interface{}, error)

// apiCall runs f and writes its result as JSON, or the error with the
// status it maps to.
func (s *Server) apiCall(f apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, body, err := f(r)
		if err != nil {
			if code == 0 {
				code = statusFor(err)
			}
			if code >= http.StatusInternalServerError {
				s.log.Error("request failed", err, logger.Fields{"method": r.Method, "path": r.URL.Path})
			}
			writeError(w, code, err)
			return
		}
		writeJSON(w, code, body)
	}
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, selection.ErrUnknownSource), errors.Is(err, selection.ErrYearOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrUnknownCountry), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errSnapshotBusy):
		return http.StatusConflict
	case errors.Is(err, errDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleRoot redirects to the latest snapshot, or to the live chart when
// none exists.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	target := "/charts/stack.html"
	if s.Snapshots != nil {
		if folders, err := s.Snapshots.List(r.Context(), 1); err == nil && len(folders) > 0 {
			target = "/files/" + folders[0] + "/" + reports.IndexFile
		}
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	span := s.Dashboard.Span()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   config.GetVersion(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"years":     span,
	})
}

func (s *Server) apiState(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.State(), nil
}

func (s *Server) apiSelection(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.Selection(), nil
}

func (s *Server) apiToggleSource(r *http.Request) (int, interface{}, error) {
	snap, err := s.Dashboard.ToggleSource(mux.Vars(r)["source"])
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, snap, nil
}

func (s *Server) apiToggleMode(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.ToggleMode(), nil
}

type yearRequest struct {
	Year *int `json:"year"`
}

func (s *Server) apiSetYear(r *http.Request) (int, interface{}, error) {
	var req yearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return http.StatusBadRequest, nil, fmt.Errorf("invalid request body: %w", err)
	}
	if req.Year == nil {
		return http.StatusBadRequest, nil, errors.New("year is required")
	}
	snap, err := s.Dashboard.SetYear(*req.Year)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, snap, nil
}

func (s *Server) apiToggles(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.Toggles(), nil
}

func (s *Server) apiMap(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.Map(), nil
}

func (s *Server) apiLegend(r *http.Request) (int, interface{}, error) {
	n := dashboard.LegendStops
	if v := r.URL.Query().Get("stops"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2 || parsed > 100 {
			return http.StatusBadRequest, nil, fmt.Errorf("stops must be an integer in 2..100, got %q", v)
		}
		n = parsed
	}
	return http.StatusOK, s.Dashboard.Legend(n), nil
}

func (s *Server) apiStack(r *http.Request) (int, interface{}, error) {
	return http.StatusOK, s.Dashboard.Stack(), nil
}

func (s *Server) apiHover(r *http.Request) (int, interface{}, error) {
	view, err := s.Dashboard.Hover(mux.Vars(r)["code"])
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, view, nil
}

func (s *Server) apiCreateSnapshot(r *http.Request) (int, interface{}, error) {
	if s.Snapshots == nil {
		return 0, nil, errDisabled
	}
	if !s.snapshotMu.TryLock() {
		return 0, nil, errSnapshotBusy
	}
	defer s.snapshotMu.Unlock()

	snap, err := s.Snapshots.Create(r.Context())
	if err != nil {
		return 0, nil, fmt.Errorf("snapshot failed: %w", err)
	}
	return http.StatusCreated, snap, nil
}

func (s *Server) apiListSnapshots(r *http.Request) (int, interface{}, error) {
	if s.Snapshots == nil {
		return 0, nil, errDisabled
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
		if limit > 100 {
			limit = 100
		}
	}
	folders, err := s.Snapshots.List(r.Context(), limit)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, map[string]interface{}{
		"snapshots": folders,
		"count":     len(folders),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// HandleStackPage renders the stacked chart as an ECharts page. It does
// not advance the transition cache.
func (s *Server) HandleStackPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.Charts.StackPageHTML(s.Dashboard.StackValues())
	if err != nil {
		s.log.Error("stack page failed", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType("stack.html"))
	w.Write([]byte(page))
}

// HandleStackPNG renders the stacked chart as a PNG image. It does not
// advance the transition cache.
func (s *Server) HandleStackPNG(w http.ResponseWriter, r *http.Request) {
	s.writePNG(w, func(buf *bytes.Buffer) error {
		return s.Charts.StackPNG(buf, s.Dashboard.StackValues())
	})
}

// HandleLegendPNG renders the heat legend as a PNG image.
func (s *Server) HandleLegendPNG(w http.ResponseWriter, r *http.Request) {
	s.writePNG(w, func(buf *bytes.Buffer) error {
		return s.Charts.LegendPNG(buf, s.Dashboard.Legend(dashboard.LegendStops))
	})
}

// HandleFileProxy serves stored snapshot files.
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, statusFor(errDisabled), errDisabled)
		return
	}
	p, err := storage.CleanPath(mux.Vars(r)["path"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	data, err := s.Storage.GetFile(r.Context(), p)
	if err != nil {
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			s.log.Error("failed to get file from storage", err, logger.Fields{"path": p})
		}
		writeError(w, code, err)
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(p))
	w.Write(data)
}
