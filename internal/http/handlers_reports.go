package http

import (
	"encoding/json"
	"net/http"
	"strings"
)

// handleBudget serves the variance report (GET ?year=) and stores a
// budget set (POST).
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		yearID, ok := parseIDParam(r, "year")
		if !ok {
			http.Error(w, "missing or invalid year parameter", http.StatusBadRequest)
			return
		}
		bv, err := s.service.BudgetView(r.Context(), yearID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newBudgetView(bv))

	case http.MethodPost:
		var in struct {
			Year    int64             `json:"year"`
			Amounts map[string]string `json:"amounts"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := s.service.SaveBudget(r.Context(), in.Year, in.Amounts); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleReports renders a PDF report and returns its path.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var in struct {
		Year int64  `json:"year"`
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	path, err := s.service.GenerateReport(r.Context(), in.Year, strings.TrimSpace(in.Kind))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// handleBackup snapshots the database.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	path, err := s.service.BackupDatabase(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// handleRestore replaces the database with a snapshot file.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var in struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(in.Path) == "" {
		http.Error(w, "missing backup path", http.StatusBadRequest)
		return
	}
	if err := s.service.RestoreDatabase(r.Context(), in.Path); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
