package gateway

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindImage = "image"
	kindText  = "text"
)

var (
	gwReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of calls to the generative API.",
		},
		[]string{"kind", "outcome"},
	)

	gwLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_request_duration_seconds",
			Help: "Duration of calls to the generative API in seconds.",
			// image generation routinely takes tens of seconds
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(gwReqs, gwLat)
}

func observe(kind string, start time.Time, err *error) {
	gwLat.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	gwReqs.WithLabelValues(kind, outcome(*err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUpstreamStatus):
		return "status"
	case errors.Is(err, ErrNoImage), errors.Is(err, ErrNoText):
		return "empty"
	case errors.Is(err, ErrUpstream):
		return "transport"
	default:
		return "error"
	}
}
