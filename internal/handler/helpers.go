package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mwhitlock/tandem/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseCoupleIDQuery(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get("couple_id"), 10, 64)
}

// writeStoreError maps store errors to HTTP statuses. NotFound and
// InvalidState messages pass through verbatim: clients match on them.
// Everything else is logged and hidden behind a generic message.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
		return
	}
	var is *store.InvalidStateError
	if errors.As(err, &is) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": is.Error()})
		return
	}
	if store.IsUniqueViolation(err) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "already exists"})
		return
	}

	logger.Error(op, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
