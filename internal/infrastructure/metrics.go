package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Application metrics, registered on the default registry and served at
// /metrics.
var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimsdash",
		Name:      "uploads_total",
		Help:      "Claims file uploads by outcome.",
	}, []string{"outcome"})

	RecordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimsdash",
		Name:      "records_processed_total",
		Help:      "Claim records classified across all uploads.",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "claimsdash",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one load-and-classify pipeline run.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimsdash",
		Name:      "exports_total",
		Help:      "Generated export artifacts by kind.",
	}, []string{"kind"})

	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "claimsdash",
		Name:      "websocket_clients",
		Help:      "Currently connected dashboard WebSocket clients.",
	})
)
