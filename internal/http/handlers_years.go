package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/AE2TML/app-compta-aetml/internal/services"
)

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		years, err := s.service.ListYears(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		views := make([]yearView, 0, len(years))
		for _, y := range years {
			views = append(views, newYearView(y))
		}
		writeJSON(w, http.StatusOK, views)

	case http.MethodPost:
		var in struct {
			Name  string `json:"name"`
			Start string `json:"start"`
			End   string `json:"end"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		year, err := s.service.CreateYear(r.Context(), services.YearInput{
			Name:  strings.TrimSpace(in.Name),
			Start: strings.TrimSpace(in.Start),
			End:   strings.TrimSpace(in.End),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newYearView(year))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// parseIDParam reads a positive integer query parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
