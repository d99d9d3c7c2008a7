package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-stats/internal/player"
	"github.com/mauv0809/cricket-stats/internal/stats"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

type messageResponse struct {
	Message string `json:"message"`
	Player  any    `json:"player,omitempty"`
	Count   *int64 `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps engine errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, player.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, player.ErrMalformedEntry), errors.Is(err, stats.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, player.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error(msg, "error", err)
	} else {
		log.FromContext(r.Context()).Warn(msg, "error", err, "status", status)
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	writeJSON(w, status, messageResponse{Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, messageResponse{Message: msg})
}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// findByName returns the first player whose name contains query, ignoring case.
func findByName(players []*player.Profile, query string) *player.Profile {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for _, p := range players {
		if strings.ToLower(p.Name) == q {
			return p
		}
	}
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return p
		}
	}
	return nil
}
