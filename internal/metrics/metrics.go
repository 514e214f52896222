package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framesampler_jobs_total",
		Help: "Extraction jobs finished, by outcome",
	}, []string{"status"})

	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "framesampler_job_duration_seconds",
		Help:    "Wall time of extraction jobs that reached the extracting state",
		Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
	})

	FramesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framesampler_frames_written_total",
		Help: "Frames encoded and written to disk",
	})

	FramesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framesampler_frames_skipped_total",
		Help: "Planned frames that could not be decoded",
	})

	FrameWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framesampler_frame_write_failures_total",
		Help: "Decoded frames that failed to encode or write",
	})

	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "framesampler_active_jobs",
		Help: "Extraction jobs currently running",
	})
)
