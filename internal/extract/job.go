package extract

import (
	"strings"
	"time"

	"framesampler/internal/video"
)

// DefaultFrameCount is how many frames are sampled when a caller does not
// say otherwise.
const DefaultFrameCount = 10

// Job is one request to sample frames from a video.
type Job struct {
	VideoPath  string `json:"video_path"`
	FrameCount int    `json:"frame_count"`
	OutputDir  string `json:"output_dir"`
}

// Validate checks the job parameters that can be judged without touching
// the filesystem or the decoder.
func (j Job) Validate() error {
	if strings.TrimSpace(j.VideoPath) == "" {
		return &ValidationError{Field: "video_path", Reason: "is required"}
	}
	if j.FrameCount <= 0 {
		return &ValidationError{Field: "frame_count", Reason: "must be a positive integer"}
	}
	if strings.TrimSpace(j.OutputDir) == "" {
		return &ValidationError{Field: "output_dir", Reason: "is required"}
	}
	return nil
}

// Result summarises a finished or aborted job. Skipped counts frames that
// could not be decoded and Failed counts frames that decoded but could not
// be written; a frame is never counted twice.
type Result struct {
	Planned  int            `json:"planned"`
	Written  int            `json:"written"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Files    []string       `json:"files"`
	Metadata video.Metadata `json:"metadata"`
	State    State          `json:"state"`
	Elapsed  time.Duration  `json:"elapsed"`
}

// Observer receives progress in [0, 1]. Calls come from a single goroutine
// and never decrease; the last call of a completed job is exactly 1.
type Observer interface {
	OnProgress(progress float64)
}

// StateObserver is implemented by observers that also want to follow the
// engine's state transitions.
type StateObserver interface {
	OnState(state State)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(progress float64)

func (f ObserverFunc) OnProgress(progress float64) { f(progress) }

type nopObserver struct{}

func (nopObserver) OnProgress(float64) {}
