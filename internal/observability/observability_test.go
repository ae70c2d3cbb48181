package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	l, err = NewLogger("warn", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(0))

	_, err = NewLogger("loud", "json")
	require.Error(t, err)
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/weights/", "200"))
	RecordHTTPRequest("GET", "/api/weights/", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/weights/", "200"))
	assert.Equal(t, before+1, after)

	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(medicineLogsDuplicate)
	RecordMedicineLogDuplicate()
	assert.Equal(t, before+1, testutil.ToFloat64(medicineLogsDuplicate))
}
