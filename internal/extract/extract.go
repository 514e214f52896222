package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"framesampler/internal/metrics"
	"framesampler/internal/pool"
	"framesampler/internal/video"
)

// Config tunes an Engine.
type Config struct {
	// Workers is the number of concurrent frame writers.
	Workers int
	// QueueSize bounds how many decoded frames may wait for a writer.
	QueueSize int
	// ClampFrameCount plans one sample per frame instead of failing when a
	// job asks for more frames than the video has.
	ClampFrameCount bool
	// CapFrameCount truncates plans to the requested count. Without it the
	// tail of a video whose length is not a multiple of the count is also
	// sampled.
	CapFrameCount bool
}

// Engine samples frames from videos. One Engine may run several jobs
// concurrently; each job gets its own decoder handle and worker pool.
type Engine struct {
	open   video.OpenFunc
	writer Writer
	cfg    Config
	logger *slog.Logger
}

func NewEngine(open video.OpenFunc, writer Writer, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		open:   open,
		writer: writer,
		cfg:    cfg,
		logger: logger,
	}
}

// Extract samples frameCount frames from videoPath into outputDir with the
// default decoder, quality and worker count.
func Extract(ctx context.Context, videoPath string, frameCount int, outputDir string, onProgress func(float64)) (Result, error) {
	writer, err := NewJPEGWriter(DefaultQuality)
	if err != nil {
		return Result{}, err
	}
	var obs Observer
	if onProgress != nil {
		obs = ObserverFunc(onProgress)
	}
	engine := NewEngine(video.Opener(video.BackendAuto), writer, Config{}, nil)
	return engine.Run(ctx, Job{VideoPath: videoPath, FrameCount: frameCount, OutputDir: outputDir}, obs)
}

// run holds the state of a single Run call.
type run struct {
	job    Job
	obs    Observer
	logger *slog.Logger
	state  State

	written atomic.Int64
	failed  atomic.Int64

	mu    sync.Mutex
	files []string
}

func (r *run) transition(to State) {
	r.logger.Debug("state transition", "from", r.state.String(), "to", to.String())
	r.state = to
	if so, ok := r.obs.(StateObserver); ok {
		so.OnState(to)
	}
}

// Run executes job and reports progress to obs, which may be nil.
//
// Validation, open and planning failures are returned before any frame is
// decoded. Frames that fail to decode or write are logged and counted in
// the result without failing the job. If ctx is cancelled between frames no
// further frames are queued, pending writes finish, and Run returns the
// partial result with an error wrapping ctx.Err().
func (e *Engine) Run(ctx context.Context, job Job, obs Observer) (Result, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	start := time.Now()
	r := &run{
		job:    job,
		obs:    obs,
		logger: e.logger.With("video", job.VideoPath),
	}

	res, err := e.run(ctx, r)
	res.State = r.state
	res.Elapsed = time.Since(start)

	switch {
	case err == nil:
		metrics.JobsTotal.WithLabelValues("done").Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.JobsTotal.WithLabelValues("cancelled").Inc()
	default:
		metrics.JobsTotal.WithLabelValues("failed").Inc()
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, r *run) (Result, error) {
	var res Result

	if err := r.job.Validate(); err != nil {
		r.transition(StateFailed)
		return res, err
	}

	r.transition(StateOpening)
	if err := os.MkdirAll(r.job.OutputDir, 0o755); err != nil {
		r.transition(StateFailed)
		return res, &ValidationError{Field: "output_dir", Reason: "cannot create directory", Err: err}
	}

	src, err := e.open(ctx, r.job.VideoPath)
	if err != nil {
		r.transition(StateFailed)
		return res, &SourceUnavailableError{Path: r.job.VideoPath, Err: err}
	}
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		if err := src.Close(); err != nil {
			r.logger.Warn("failed to close video", "error", err)
		}
	}
	defer release()

	meta := src.Metadata()
	res.Metadata = meta
	r.logger.Info("opened video", "total_frames", meta.TotalFrames, "frame_rate", meta.FrameRate)

	r.transition(StatePlanning)
	requested := r.job.FrameCount
	if e.cfg.ClampFrameCount && requested > meta.TotalFrames && meta.TotalFrames > 0 {
		r.logger.Warn("frame count exceeds video length, clamping",
			"requested", requested, "total_frames", meta.TotalFrames)
		requested = meta.TotalFrames
	}
	plan := Plan
	if e.cfg.CapFrameCount {
		plan = PlanCapped
	}
	indices, err := plan(meta.TotalFrames, requested)
	if err != nil {
		r.transition(StateFailed)
		return res, err
	}
	res.Planned = len(indices)

	r.transition(StateExtracting)
	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()
	jobStart := time.Now()

	workers := pool.New(e.cfg.Workers, e.cfg.QueueSize)
	cancelled := false
	for processed, index := range indices {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		img, err := src.SeekAndDecode(ctx, index)
		if err == nil && img == nil {
			err = video.ErrNoFrame
		}
		if err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			r.logger.Warn("skipping frame", "index", index, "error", &DecodeError{Index: index, Err: err})
			res.Skipped++
			metrics.FramesSkippedTotal.Inc()
		} else {
			frame := Frame{Index: index, FrameRate: meta.FrameRate, Image: img}
			if err := workers.Submit(func() { e.write(r, frame) }); err != nil {
				r.logger.Error("failed to queue frame", "index", index, "error", err)
				r.failed.Add(1)
			}
		}

		r.obs.OnProgress(float64(processed+1) / float64(len(indices)))
	}

	r.transition(StateFinalizing)
	workers.Wait()
	release()
	metrics.JobDuration.Observe(time.Since(jobStart).Seconds())

	res.Written = int(r.written.Load())
	res.Failed = int(r.failed.Load())
	sort.Strings(r.files)
	res.Files = r.files

	if cancelled {
		r.transition(StateFailed)
		r.logger.Warn("extraction cancelled", "written", res.Written, "skipped", res.Skipped)
		return res, fmt.Errorf("extraction cancelled: %w", ctx.Err())
	}

	r.transition(StateDone)
	r.obs.OnProgress(1)
	r.logger.Info("extraction finished",
		"planned", res.Planned, "written", res.Written, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// write runs on a pool worker.
func (e *Engine) write(r *run, frame Frame) {
	path, err := e.writer.Write(frame, r.job.OutputDir)
	if err != nil {
		var werr *WriteError
		if !errors.As(err, &werr) {
			err = &WriteError{Index: frame.Index, Path: path, Err: err}
		}
		r.logger.Error("failed to write frame", "index", frame.Index, "error", err)
		r.failed.Add(1)
		metrics.FrameWriteFailuresTotal.Inc()
		return
	}

	r.logger.Info("saved frame", "path", path, "index", frame.Index)
	r.written.Add(1)
	metrics.FramesWrittenTotal.Inc()
	r.mu.Lock()
	r.files = append(r.files, path)
	r.mu.Unlock()
}
