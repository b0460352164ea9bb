package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamSeconds  *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UpstreamRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "maps_proxy_upstream_requests_total",
			Help: "Total number of requests sent to the maps provider, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "maps_proxy_upstream_request_duration_seconds",
			Help:    "Duration of requests to the maps provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "maps_proxy_http_requests_total",
			Help: "Total number of HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
}
