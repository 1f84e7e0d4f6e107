// Package observability provides Prometheus metrics for answer streams.
package observability

import "github.com/prometheus/client_golang/prometheus"

// AnswerBuckets covers time-to-final-answer, from 250ms to 2 minutes.
var AnswerBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Frame kinds counted by StreamFramesTotal.
const (
	FrameAnswer   = "answer"
	FrameDone     = "done"
	FrameFiltered = "filtered"
	FrameSkipped  = "skipped"
)

var (
	// QueriesTotal counts finished queries by provider and final status.
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answerlens_queries_total",
			Help: "Queries by final status",
		},
		[]string{"provider", "status"},
	)

	// QueryDuration records the time from submission to the final status.
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "answerlens_query_duration_seconds",
			Help:    "Query duration",
			Buckets: AnswerBuckets,
		},
		[]string{"provider"},
	)

	// StreamFramesTotal counts stream frames by how they were handled.
	StreamFramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answerlens_stream_frames_total",
			Help: "Stream frames by kind",
		},
		[]string{"provider", "kind"},
	)

	// StreamsActive tracks open upstream streams.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "answerlens_streams_active",
			Help: "Open upstream streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		QueriesTotal,
		QueryDuration,
		StreamFramesTotal,
		StreamsActive,
	)
}
