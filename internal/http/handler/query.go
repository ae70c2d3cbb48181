package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medtrack/internal/period"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365
)

func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func uuidQuery(r *http.Request, key string) (*uuid.UUID, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &id, nil
}

// timeQuery accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC midnight).
func timeQuery(r *http.Request, key string) (*time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid %s (RFC3339 or YYYY-MM-DD)", key)
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func boolQuery(r *http.Request, key string) (*bool, error) {
	v := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key)))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &b, nil
}

// windowQuery resolves the analysis window: explicit start/end win, otherwise
// the last `days` days (default 30, at most 365) ending at now.
func windowQuery(r *http.Request, now time.Time) (period.Window, error) {
	start, err := timeQuery(r, "start")
	if err != nil {
		return period.Window{}, err
	}
	end, err := timeQuery(r, "end")
	if err != nil {
		return period.Window{}, err
	}
	days, err := intQuery(r, "days", defaultWindowDays)
	if err != nil {
		return period.Window{}, err
	}
	if days < 1 || days > maxWindowDays {
		return period.Window{}, fmt.Errorf("days must be between 1 and %d", maxWindowDays)
	}

	w := period.Last(days, now)
	if end != nil {
		w.End = end.UTC()
		w.Start = w.End.Add(-time.Duration(days) * period.Day)
	}
	if start != nil {
		w.Start = start.UTC()
	}
	if !w.End.After(w.Start) {
		return period.Window{}, errors.New("end must be after start")
	}
	return w, nil
}
