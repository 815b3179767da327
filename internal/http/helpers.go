package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"commissions/internal/core"
)

// parseSort reads the sort and dir query parameters, falling back to the
// configured defaults when either is absent.
func (s *Server) parseSort(r *http.Request) (core.SortKey, core.Direction, error) {
	q := r.URL.Query()

	key := s.opts.DefaultSort
	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		k, err := core.ParseSortKey(v)
		if err != nil {
			return "", "", err
		}
		key = k
	}

	dir := s.opts.DefaultDirection
	if v := strings.TrimSpace(q.Get("dir")); v != "" {
		d, err := core.ParseDirection(v)
		if err != nil {
			return "", "", err
		}
		dir = d
	}
	return key, dir, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeRateLimited answers API callers over their quota.
func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
}
