package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"framesampler/internal/extract"
	"framesampler/internal/video"
)

// startJob schedules an extraction of a registered video. Zero fields in req
// fall back to the server configuration.
func (s *Server) startJob(videoID string, req ExtractRequest) (*Job, error) {
	s.mu.Lock()
	rec, ok := s.videos[videoID]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	for _, j := range s.jobs {
		if j.VideoID == videoID && jobActive(j) {
			s.mu.Unlock()
			return nil, errJobActive
		}
	}

	cfg := s.config
	frameCount := req.FrameCount
	if frameCount == 0 {
		frameCount = cfg.FrameCount
	}
	quality := req.Quality
	if quality == 0 {
		quality = cfg.Quality
	}
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = s.framesDirForVideo(rec.Path)
	}

	writer, err := extract.NewJPEGWriter(quality)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	job := extract.Job{VideoPath: rec.Path, FrameCount: frameCount, OutputDir: outputDir}
	if err := job.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	now := time.Now().UTC()
	record := &Job{
		ID:         newID("job_"),
		VideoID:    videoID,
		Type:       "extract_frames",
		Status:     statusQueued,
		FrameCount: frameCount,
		OutputDir:  outputDir,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.jobs[record.ID] = record
	ctx, cancel := context.WithCancel(context.Background())
	s.jobCancel[record.ID] = cancel
	rec.Status = statusQueued
	rec.OutputDir = outputDir
	rec.LastError = nil
	copyJob := *record
	s.mu.Unlock()

	engine := extract.NewEngine(s.opener(cfg.Backend), writer, cfg.EngineConfig(), s.logger.With("job_id", record.ID))

	s.running.Add(1)
	go s.runJob(ctx, record.ID, engine, job)
	return &copyJob, nil
}

func (s *Server) opener(backend string) video.OpenFunc {
	if s.open != nil {
		return s.open
	}
	b, err := video.ParseBackend(backend)
	if err != nil {
		b = video.BackendAuto
	}
	return video.Opener(b)
}

// cancelJob stops the running job of a video. The job records its final
// state once the engine has drained.
func (s *Server) cancelJob(videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.VideoID != videoID || !jobActive(job) {
			continue
		}
		if cancel, ok := s.jobCancel[id]; ok {
			cancel()
			return nil
		}
	}
	return errNotFound
}

func (s *Server) runJob(ctx context.Context, jobID string, engine *extract.Engine, job extract.Job) {
	defer s.running.Done()
	defer func() {
		s.mu.Lock()
		if cancel, ok := s.jobCancel[jobID]; ok {
			cancel()
			delete(s.jobCancel, jobID)
		}
		s.mu.Unlock()
	}()

	res, err := engine.Run(ctx, job, &jobObserver{s: s, jobID: jobID})
	s.finishJob(jobID, res, err)
}

// jobObserver mirrors engine progress into the job record.
type jobObserver struct {
	s     *Server
	jobID string
}

func (o *jobObserver) OnProgress(progress float64) {
	o.update(func(job *Job, v *Video) {
		job.Progress = progress
	})
}

func (o *jobObserver) OnState(state extract.State) {
	if state.Terminal() {
		// finishJob records the outcome together with the counts.
		return
	}
	o.update(func(job *Job, v *Video) {
		job.Status = state.String()
		v.Status = state.String()
	})
}

func (o *jobObserver) update(fn func(job *Job, v *Video)) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	job, ok := o.s.jobs[o.jobID]
	if !ok {
		return
	}
	v, ok := o.s.videos[job.VideoID]
	if !ok {
		return
	}
	fn(job, v)
	job.UpdatedAt = time.Now().UTC()
}

func (s *Server) finishJob(jobID string, res extract.Result, err error) {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return
	}
	v := s.videos[job.VideoID]

	job.Planned = res.Planned
	job.Written = res.Written
	job.Skipped = res.Skipped
	job.Failed = res.Failed
	job.UpdatedAt = now

	if res.Metadata.TotalFrames > 0 {
		v.TotalFrames = res.Metadata.TotalFrames
		v.FrameRate = res.Metadata.FrameRate
	}
	v.FramesPlanned = res.Planned
	v.FramesWritten = res.Written
	v.FramesSkipped = res.Skipped
	v.FramesFailed = res.Failed
	v.Files = res.Files

	switch {
	case err == nil:
		job.Status = statusDone
		job.Progress = 1
		v.Status = statusDone
		v.LastError = nil
		v.LastExtractedAt = &now
	case errors.Is(err, context.Canceled):
		msg := "cancelled"
		job.Status = statusCancelled
		job.Error = &msg
		v.Status = statusFailed
		v.LastError = &msg
	default:
		msg := err.Error()
		job.Status = statusFailed
		job.Error = &msg
		v.Status = statusFailed
		v.LastError = &msg
		s.logger.Error("extraction failed", "job_id", jobID, "video", v.Path, "error", err)
	}
}

func (s *Server) framesDirForVideo(videoPath string) string {
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.config.OutputRoot, name)
}
