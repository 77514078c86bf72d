// Package server exposes the dashboard over HTTP.
package server

import (
	"fmt"
	"net/http"
	"sync"

	"energydash/internal/charts"
	"energydash/internal/dashboard"
	"energydash/internal/logger"
	"energydash/internal/reports"
	"energydash/internal/storage"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server routes dashboard events and views.
type Server struct {
	Dashboard *dashboard.Dashboard
	Charts    *charts.ChartGenerator
	Snapshots *reports.SnapshotService
	Storage   storage.StorageClient

	log        *logger.Logger
	snapshotMu sync.Mutex
}

// NewServer creates a server. snapshots and client may be nil, which
// disables the snapshot and file endpoints.
func NewServer(dash *dashboard.Dashboard, snapshots *reports.SnapshotService, client storage.StorageClient, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Server{
		Dashboard: dash,
		Charts:    charts.NewChartGenerator(),
		Snapshots: snapshots,
		Storage:   client,
		log:       log.WithComponent("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *mux.Router {
	// File paths are validated by storage.CleanPath rather than redirected.
	router := mux.NewRouter().SkipClean(true)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path))
	})

	router.HandleFunc("/", s.HandleRoot).Methods("GET")
	router.HandleFunc("/health", s.HandleHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.apiCall(s.apiState)).Methods("GET")
	api.HandleFunc("/selection", s.apiCall(s.apiSelection)).Methods("GET")
	api.HandleFunc("/selection/sources/{source}/toggle", s.apiCall(s.apiToggleSource)).Methods("POST")
	api.HandleFunc("/selection/mode/toggle", s.apiCall(s.apiToggleMode)).Methods("POST")
	api.HandleFunc("/selection/year", s.apiCall(s.apiSetYear)).Methods("PUT")
	api.HandleFunc("/toggles", s.apiCall(s.apiToggles)).Methods("GET")
	api.HandleFunc("/map", s.apiCall(s.apiMap)).Methods("GET")
	api.HandleFunc("/legend", s.apiCall(s.apiLegend)).Methods("GET")
	api.HandleFunc("/stack", s.apiCall(s.apiStack)).Methods("GET")
	api.HandleFunc("/countries/{code:[A-Za-z]+}/hover", s.apiCall(s.apiHover)).Methods("GET")
	api.HandleFunc("/snapshots", s.apiCall(s.apiCreateSnapshot)).Methods("POST")
	api.HandleFunc("/snapshots", s.apiCall(s.apiListSnapshots)).Methods("GET")

	router.HandleFunc("/charts/stack.html", s.HandleStackPage).Methods("GET")
	router.HandleFunc("/charts/stack.png", s.HandleStackPNG).Methods("GET")
	router.HandleFunc("/charts/legend.png", s.HandleLegendPNG).Methods("GET")
	router.HandleFunc("/files/{path:.*}", s.HandleFileProxy).Methods("GET")

	return router
}

// Handler wraps the routes with panic recovery, gzip and an access log.
func (s *Server) Handler() http.Handler {
	return s.wrap(s.SetupRoutes())
}

func (s *Server) wrap(h http.Handler) http.Handler {
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log}))(h)
	h = handlers.CompressHandler(h)
	return handlers.CombinedLoggingHandler(s.log.Writer(logger.INFO), h)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

type recoveryLogger struct {
	log *logger.Logger
}

func (r recoveryLogger) Println(args ...interface{}) {
	r.log.Error("handler panic", fmt.Errorf("%s", fmt.Sprint(args...)))
}
