package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/concierge/pkg/domain"
)

const maxRequestBodySize = 1 << 20 // 1 MiB

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return v, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return v, fmt.Errorf("invalid request body: %w", err)
	}
	return v, nil
}

func urlParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func callerID(r *http.Request) string {
	return r.Header.Get("X-Caller-ID")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeDomainError maps engine errors onto HTTP status codes. Anything
// unrecognized, including routing violations, is a server fault.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCaller):
		writeError(w, http.StatusBadRequest, "missing_caller", err.Error())
	case errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, domain.ErrDecisionPending):
		writeError(w, http.StatusConflict, "decision_pending", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "system_error", err.Error())
	}
}
