package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AE2TML/app-compta-aetml/internal/core"
	applog "github.com/AE2TML/app-compta-aetml/internal/log"
)

// validationErrs are rejected inputs, not server faults.
var validationErrs = []error{
	core.ErrInvalidDate,
	core.ErrDateOutOfRange,
	core.ErrInvalidAmount,
	core.ErrEmptyLibelle,
	core.ErrEmptyName,
	core.ErrInvalidRange,
	core.ErrInvalidJournal,
	core.ErrInvalidType,
	core.ErrUnknownCategory,
	core.ErrUnknownDenomination,
	core.ErrNegativeCount,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes: rejected input
// is 422, a missing record 404, a name collision 409, everything else
// is a server fault.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errorIsAny(err, validationErrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, core.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err.Error(), "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func errorIsAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// methodNotAllowed replies 405 with the allowed methods.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
