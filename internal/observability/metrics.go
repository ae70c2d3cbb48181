package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medtrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "medtrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	medicineLogsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Subsystem: "medicine",
		Name:      "logs_created_total",
		Help:      "Intake logs accepted.",
	})
	medicineLogsDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Subsystem: "medicine",
		Name:      "logs_duplicate_total",
		Help:      "Intake logs rejected by the duplicate window.",
	})
	weightLogsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medtrack",
		Subsystem: "weight",
		Name:      "logs_created_total",
		Help:      "Weight measurements accepted.",
	})
)

func init() {
	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		medicineLogsCreated,
		medicineLogsDuplicate,
		weightLogsCreated,
	)
}

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

func RecordMedicineLogCreated()   { medicineLogsCreated.Inc() }
func RecordMedicineLogDuplicate() { medicineLogsDuplicate.Inc() }
func RecordWeightLogCreated()     { weightLogsCreated.Inc() }
