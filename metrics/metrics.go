// Package metrics holds the Prometheus collectors shared by the capture and
// playback engines. Collectors are registered on a caller-supplied registry
// so several engines (or parallel tests) never collide on the default one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voice_capture"

// Stop reasons used as the "reason" label of SessionsTotal.
const (
	ReasonSilence     = "silence"
	ReasonDuration    = "duration"
	ReasonInterrupted = "interrupted"
	ReasonError       = "error"
)

type Metrics struct {
	ChunksCaptured   prometheus.Counter
	ChunksDropped    prometheus.Counter
	ChunkErrors      prometheus.Counter
	SessionsTotal    *prometheus.CounterVec
	SessionDuration  prometheus.Histogram
	PlaybackTotal    prometheus.Counter
	PlaybackDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg. A nil reg yields
// unregistered collectors that still count.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ChunksCaptured: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_captured_total",
			Help:      "Chunks drained from the capture queue",
		}),
		ChunksDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_dropped_total",
			Help:      "Chunks dropped because the capture queue was full",
		}),
		ChunkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_processing_errors_total",
			Help:      "Chunks that could not be analyzed and were treated as silent",
		}),
		SessionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Finished capture sessions by stop reason",
		}, []string{"reason"}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Wall-clock duration of capture sessions",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		PlaybackTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_total",
			Help:      "Waveforms rendered to the output device",
		}),
		PlaybackDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "playback_duration_seconds",
			Help:      "Wall-clock duration of playback calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
