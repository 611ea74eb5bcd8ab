package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ScoreRequests  *prometheus.CounterVec
	APIErrors      *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
	ImageCache     *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ScoreRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cityscore_score_requests_total",
			Help: "Total number of score requests by outcome.",
		}, []string{"outcome"}),
		APIErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cityscore_provider_api_errors_total",
			Help: "Total number of errors received from upstream data providers.",
		}, []string{"provider"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cityscore_provider_request_duration_seconds",
			Help:    "Duration of requests to upstream data providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ImageCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cityscore_image_cache_lookups_total",
			Help: "Background image cache lookups by result.",
		}, []string{"result"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cityscore_http_requests_total",
			Help: "Total number of HTTP requests served by route and status code.",
		}, []string{"route", "method", "status"}),
	}
}

// ObserveRequest records the latency and outcome of a single upstream call.
// A nil receiver is a no-op so adapters can run without a registry in tests.
func (m *Metrics) ObserveRequest(provider string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.RequestSeconds.WithLabelValues(provider).Observe(seconds)
	if err != nil {
		m.APIErrors.WithLabelValues(provider).Inc()
	}
}

// CacheLookup counts an image cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ImageCache.WithLabelValues(result).Inc()
}

// ScoreOutcome counts a finished score request.
func (m *Metrics) ScoreOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ScoreRequests.WithLabelValues(outcome).Inc()
}
