package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thanhtantran/kea-lease-manager/pkg/models"
)

// ReservationRequest is the body of a reservation generation request.
type ReservationRequest struct {
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	Hostname string `json:"hostname"`
}

// ReservationResponse carries the generated fragment and instructions.
type ReservationResponse struct {
	JSONConfig   string `json:"json_config"`
	Instructions string `json:"instructions"`
}

// StatusResponse reports the configured file paths and the last
// observed modification times from the monitor.
type StatusResponse struct {
	LeaseFile        string `json:"lease_file"`
	KeaConfigFile    string `json:"kea_config_file"`
	LastLeaseChange  string `json:"last_lease_change,omitempty"`
	LastConfigChange string `json:"last_config_change,omitempty"`
}

// pageStats are the counters shown in the stat boxes above the lease
// table. The visible count starts at Total and is maintained by the
// page's search filter.
type pageStats struct {
	Total        int
	WithHostname int
	NotExpired   int
}

// indexData holds data for the leases page template.
type indexData struct {
	Leases    []models.Lease
	Error     string
	Subnets   map[string]string
	LeaseFile string
	Generated string
	Stats     pageStats
}

// handleIndex renders the main lease table page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/refresh" {
		http.NotFound(w, r)
		return
	}

	data := indexData{
		Subnets:   s.extractor.Subnets(),
		LeaseFile: s.cfg.LeaseFile,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
	}

	leases, err := s.reconciler.Active()
	if err != nil {
		data.Error = err.Error()
	}
	data.Leases = leases

	now := time.Now().Unix()
	data.Stats.Total = len(leases)
	for _, l := range leases {
		if l.Hostname != "" {
			data.Stats.WithHostname++
		}
		if l.ExpireEpoch > now {
			data.Stats.NotExpired++
		}
	}

	content, err := s.renderTemplate("leases", data)
	if err != nil {
		logrus.Errorf("Failed to render leases page: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(content))
}

// handleLeasesAPI returns the reconciled active lease snapshot.
func (s *Server) handleLeasesAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	leases, err := s.reconciler.Active()
	if err != nil {
		logrus.Warnf("Failed to read leases: %v", err)
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if leases == nil {
		leases = []models.Lease{}
	}
	s.writeJSON(w, map[string]interface{}{"leases": leases})
}

// handleHistoryAPI returns all lease entries for one address.
func (s *Server) handleHistoryAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	ip := strings.TrimPrefix(r.URL.Path, "/api/lease-history/")
	if ip == "" {
		s.writeJSONError(w, "IP address is required", http.StatusBadRequest)
		return
	}

	history, err := s.reconciler.History(ip)
	if err != nil {
		logrus.Warnf("Failed to read lease history for %s: %v", ip, err)
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if history == nil {
		history = []models.Lease{}
	}
	s.writeJSON(w, map[string]interface{}{"history": history})
}

// handleSubnetsAPI returns the subnet topology. Absent topology is an
// empty mapping, never an error.
func (s *Server) handleSubnetsAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	s.writeJSON(w, map[string]interface{}{"subnets": s.extractor.Subnets()})
}

// handleReservationAPI generates a reservation fragment. Empty ip or
// mac is rejected here; the builder itself never validates.
func (s *Server) handleReservationAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid JSON data", http.StatusBadRequest)
		return
	}

	if req.IP == "" || req.MAC == "" {
		s.writeJSONError(w, "IP and MAC address are required", http.StatusBadRequest)
		return
	}

	fragment, instructions := s.builder.Build(req.IP, req.MAC, req.Hostname)
	s.writeJSON(w, ReservationResponse{
		JSONConfig:   fragment,
		Instructions: instructions,
	})
}

// handleStatusAPI reports file paths and watcher activity.
func (s *Server) handleStatusAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	status := StatusResponse{
		LeaseFile:     s.cfg.LeaseFile,
		KeaConfigFile: s.cfg.KeaConfigFile,
	}

	if s.monitor != nil {
		if t := s.monitor.LastLeaseChange(); !t.IsZero() {
			status.LastLeaseChange = t.Format(time.RFC3339)
		}
		if t := s.monitor.LastConfigChange(); !t.IsZero() {
			status.LastConfigChange = t.Format(time.RFC3339)
		}
	}

	s.writeJSON(w, status)
}

// writeJSON encodes v to the response, logging encode failures.
func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response in the API's error shape.
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	s.writeJSON(w, map[string]string{"error": message})
}
