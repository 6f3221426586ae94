package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yourorg/propmanager/internal/service"
)

// statusForKind maps a service envelope kind to an HTTP status. Success
// envelopes use 200 (or 201 for creations, chosen by the caller).
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeEnvelope sends a single-item envelope with the status derived from
// its kind. okStatus is the status for successful responses.
func writeEnvelope[T any](w http.ResponseWriter, resp service.Response[T], okStatus int) {
	status := okStatus
	if !resp.Success {
		status = statusForKind(resp.Kind)
	}
	writeJSON(w, status, resp)
}

func writeListEnvelope[T any](w http.ResponseWriter, resp service.ListResponse[T]) {
	status := http.StatusOK
	if !resp.Success {
		status = statusForKind(resp.Kind)
	}
	writeJSON(w, status, resp)
}

// decodeJSON parses the request body into dst. On failure it writes a 400
// envelope and returns false.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request, dst *T) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, service.Response[struct{}]{
			Success: false,
			Error:   "corps de requete invalide",
		})
		return false
	}
	return true
}

// Query parameter parsers. A missing or malformed value yields nil so the
// filter stays unconstrained.

func queryString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func queryFloat(r *http.Request, name string) *float64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// pagination reads page and limit, clamping limit to [1..maxLimit] with
// defaultLimit when absent.
func pagination(r *http.Request, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	if p := queryInt(r, "page"); p != nil && *p > 0 {
		page = *p
	}
	limit = defaultLimit
	if l := queryInt(r, "limit"); l != nil && *l > 0 {
		limit = *l
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
