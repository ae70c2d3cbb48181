package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowQuery(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		start     time.Time
		end       time.Time
		wantError bool
	}{
		{"default 30 days", "", now.AddDate(0, 0, -30), now, false},
		{"days", "?days=7", now.AddDate(0, 0, -7), now, false},
		{"explicit range", "?start=2026-03-01&end=2026-03-15", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"end with days", "?end=2026-03-15T00:00:00Z&days=2", time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"days out of range", "?days=0", time.Time{}, time.Time{}, true},
		{"bad date", "?start=yesterday", time.Time{}, time.Time{}, true},
		{"end before start", "?start=2026-03-15&end=2026-03-01", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := windowQuery(httptest.NewRequest("GET", "/"+tt.query, nil), now)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.start.Equal(w.Start), "start %v", w.Start)
			assert.True(t, tt.end.Equal(w.End), "end %v", w.End)
		})
	}
}

func TestBoolAndUUIDQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/?active=TRUE&medicine_id=nope", nil)

	b, err := boolQuery(r, "active")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	b, err = boolQuery(r, "missing")
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = uuidQuery(r, "medicine_id")
	assert.Error(t, err)
}
