package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_http_requests_total",
		Help: "Total number of dashboard requests",
	}, []string{"route", "status"})

	latencyHistogram = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_http_latency_seconds",
		Help:    "Latency of dashboard requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	resultSizeGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_http_result_size",
		Help: "Number of filtered rows in the last dashboard response",
	}, []string{"route"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_http_rate_limited_total",
		Help: "Total number of requests rejected by the per-IP rate limiter",
	})
)
