package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_dataset_loads_total",
		Help: "The total number of dataset loads",
	}, []string{"dataset", "status"})

	DatasetLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_dataset_load_duration_seconds",
		Help:    "Duration of dataset loads",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"dataset"})

	DatasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_dataset_rows",
		Help: "Number of rows in the currently cached dataset snapshot",
	}, []string{"dataset"})

	DatasetLastLoadTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dashboard_dataset_last_load_timestamp_seconds",
		Help: "Unix time of the last completed dataset load",
	}, []string{"dataset"})

	DatasetInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_dataset_invalidations_total",
		Help: "The total number of dataset cache invalidations",
	}, []string{"dataset"})

	DatasetRefreshRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_dataset_refresh_runs_total",
		Help: "The total number of periodic refresh runs",
	}, []string{"status"})
)
