package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	GiftsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftplay",
			Subsystem: "ingest",
			Name:      "gifts_received_total",
			Help:      "Total number of raw gift sends received.",
		},
		[]string{"room"},
	)

	GiftsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftplay",
			Subsystem: "queue",
			Name:      "gifts_dropped_total",
			Help:      "Gift events discarded by the queue capacity policy.",
		},
		[]string{"room"},
	)

	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "giftplay",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Current number of gift events waiting for playback.",
		},
		[]string{"room"},
	)

	PlaybacksStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftplay",
			Subsystem: "playback",
			Name:      "started_total",
			Help:      "Total number of gift playbacks handed to the renderer.",
		},
		[]string{"room"},
	)

	PlaybacksSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "giftplay",
			Subsystem: "playback",
			Name:      "skipped_total",
			Help:      "Playbacks retired early by an explicit skip.",
		},
		[]string{"room"},
	)
)

func init() {
	Registry.MustRegister(
		GiftsReceived,
		GiftsDropped,
		QueueDepth,
		PlaybacksStarted,
		PlaybacksSkipped,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
