package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	reportRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "macrolens",
		Subsystem: "reports",
		Name:      "requests_total",
		Help:      "Report requests served, by report name and HTTP status.",
	}, []string{"report", "status"})
	reportDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "macrolens",
		Subsystem: "reports",
		Name:      "request_duration_seconds",
		Help:      "Wall time spent building a report.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report"})
)

func init() {
	prometheus.MustRegister(reportRequests, reportDuration)
}

// ObserveReport records one served report request.
func ObserveReport(report string, status int, elapsed time.Duration) {
	reportRequests.WithLabelValues(report, strconv.Itoa(status)).Inc()
	reportDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}
