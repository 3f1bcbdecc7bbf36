package web

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/thanhtantran/kea-lease-manager/internal/config"
	"github.com/thanhtantran/kea-lease-manager/internal/keaconf"
	"github.com/thanhtantran/kea-lease-manager/internal/lease"
	"github.com/thanhtantran/kea-lease-manager/internal/monitor"
	"github.com/thanhtantran/kea-lease-manager/internal/reservation"
)

// Server represents the HTTP server. It is a thin adapter: every
// request re-invokes the core against the external files.
type Server struct {
	cfg        *config.Config
	reconciler *lease.Reconciler
	extractor  *keaconf.Extractor
	builder    *reservation.Builder
	monitor    *monitor.Monitor

	templates map[string]*template.Template
	mux       *http.ServeMux
}

// NewServer creates a new web server. mon may be nil when file watching
// is disabled.
func NewServer(cfg *config.Config, rec *lease.Reconciler, ext *keaconf.Extractor, builder *reservation.Builder, mon *monitor.Monitor) *Server {
	server := &Server{
		cfg:        cfg,
		reconciler: rec,
		extractor:  ext,
		builder:    builder,
		monitor:    mon,
		templates:  make(map[string]*template.Template),
		mux:        http.NewServeMux(),
	}

	server.loadTemplates()
	server.setupRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return http.ListenAndServe(s.cfg.HTTPListen, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/refresh", s.handleIndex)
	s.mux.HandleFunc("/api/leases", s.handleLeasesAPI)
	s.mux.HandleFunc("/api/lease-history/", s.handleHistoryAPI)
	s.mux.HandleFunc("/api/subnets", s.handleSubnetsAPI)
	s.mux.HandleFunc("/api/reservation", s.handleReservationAPI)
	s.mux.HandleFunc("/api/status", s.handleStatusAPI)
}

// loadTemplates loads all template files
func (s *Server) loadTemplates() {
	templateFiles := map[string]string{
		"leases": "leases.tmpl",
	}

	for name, filename := range templateFiles {
		path := filepath.Join(s.cfg.HTMLDir, filename)

		tmpl, err := template.ParseFiles(path)
		if err != nil {
			logrus.Warnf("Failed to load template %s: %v", filename, err)
			continue
		}

		s.templates[name] = tmpl
		logrus.Debugf("Loaded template: %s", filename)
	}
}

// renderTemplate renders a template with given data
func (s *Server) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, exists := s.templates[name]
	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
