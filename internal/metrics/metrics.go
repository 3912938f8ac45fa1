package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftcerts_http_requests_total",
		Help: "HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftcerts_http_request_duration_seconds",
		Help:    "Time from request receipt to response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	CertificateWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftcerts_certificate_writes_total",
		Help: "Certificate write operations by operation and outcome.",
	}, []string{"op", "outcome"})
)

// Outcome labels a finished operation for CertificateWritesTotal.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
