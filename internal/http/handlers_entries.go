package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/AE2TML/app-compta-aetml/internal/core"
	"github.com/AE2TML/app-compta-aetml/internal/services"
)

const maxUploadBytes = 10 << 20 // attachments are scans of paper receipts

// entryInputFromForm reads an entry from a multipart or urlencoded
// form. Cash counts come in as cash_<denomination> fields.
func entryInputFromForm(r *http.Request) (services.EntryInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return services.EntryInput{}, err
	}

	in := services.EntryInput{
		Date:     strings.TrimSpace(r.FormValue("date")),
		Journal:  strings.TrimSpace(r.FormValue("journal")),
		Libelle:  strings.TrimSpace(r.FormValue("libelle")),
		Category: strings.TrimSpace(r.FormValue("category")),
		Type:     strings.TrimSpace(r.FormValue("type")),
		Amount:   strings.TrimSpace(r.FormValue("amount")),
	}

	for key, values := range r.Form {
		denom, ok := strings.CutPrefix(key, "cash_")
		if !ok || len(values) == 0 {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(values[0]))
		if err != nil {
			return services.EntryInput{}, err
		}
		if in.CashCounts == nil {
			in.CashCounts = make(map[string]int)
		}
		in.CashCounts[denom] = count
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["attachment"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				return services.EntryInput{}, err
			}
			in.Attachment = &services.AttachmentUpload{
				Name:   files[0].Filename,
				Reader: f,
			}
		}
	}
	return in, nil
}

func closeUpload(in services.EntryInput) {
	if in.Attachment != nil {
		if c, ok := in.Attachment.Reader.(interface{ Close() error }); ok {
			c.Close()
		}
	}
}

// handleEntries serves a journal statement (GET ?year=&journal=) and
// creates entries (POST form).
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		yearID, ok := parseIDParam(r, "year")
		if !ok {
			http.Error(w, "missing or invalid year parameter", http.StatusBadRequest)
			return
		}
		journal := core.Journal(strings.TrimSpace(r.URL.Query().Get("journal")))
		st, err := s.service.JournalView(r.Context(), yearID, journal)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newStatementView(st))

	case http.MethodPost:
		in, err := entryInputFromForm(r)
		if err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		defer closeUpload(in)

		yearID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("year")), 10, 64)
		if err != nil || yearID < 1 {
			http.Error(w, "missing or invalid year field", http.StatusBadRequest)
			return
		}
		res, err := s.service.SaveEntry(r.Context(), yearID, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, newEntryResultView(res))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleEntry serves, updates and deletes a single entry (?id=).
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "missing or invalid id parameter", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := s.service.Entry(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newEntryView(entry))

	case http.MethodPut, http.MethodPost:
		in, err := entryInputFromForm(r)
		if err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		defer closeUpload(in)

		res, err := s.service.UpdateEntry(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newEntryResultView(res))

	case http.MethodDelete:
		if err := s.service.DeleteEntry(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, POST, DELETE")
	}
}

// handleEntryCash serves the stored cash breakdown for one entry.
func (s *Server) handleEntryCash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "missing or invalid id parameter", http.StatusBadRequest)
		return
	}
	view, err := s.service.CashDetailView(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCashDetailView(view))
}

// handleEntryAttachment streams the justificatif file of an entry.
func (s *Server) handleEntryAttachment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "missing or invalid id parameter", http.StatusBadRequest)
		return
	}
	entry, err := s.service.Entry(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entry.AttachmentPath == "" {
		http.Error(w, "entry has no attachment", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, s.service.AttachmentPath(entry.AttachmentPath))
}

// handleDashboard serves the exercice summary (?year=).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	yearID, ok := parseIDParam(r, "year")
	if !ok {
		http.Error(w, "missing or invalid year parameter", http.StatusBadRequest)
		return
	}
	d, err := s.service.Dashboard(r.Context(), yearID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardView(d))
}
