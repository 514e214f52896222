package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesampler/internal/video"
)

// fakeSource serves solid frames and fails the indices listed in bad.
type fakeSource struct {
	meta   video.Metadata
	bad    map[int]bool
	onRead func(index int)

	mu     sync.Mutex
	reads  []int
	closes int
}

func (s *fakeSource) Metadata() video.Metadata { return s.meta }

func (s *fakeSource) SeekAndDecode(ctx context.Context, index int) (image.Image, error) {
	s.mu.Lock()
	s.reads = append(s.reads, index)
	s.mu.Unlock()
	if s.onRead != nil {
		s.onRead(index)
	}
	if s.bad[index] {
		return nil, video.ErrNoFrame
	}
	return solidImage(8, 8, color.RGBA{R: uint8(index), A: 255}), nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func openerFor(src *fakeSource) video.OpenFunc {
	return func(ctx context.Context, path string) (video.Source, error) {
		return src, nil
	}
}

type recorder struct {
	progress []float64
	states   []State
}

func (r *recorder) OnProgress(p float64) { r.progress = append(r.progress, p) }
func (r *recorder) OnState(s State)      { r.states = append(r.states, s) }

func (r *recorder) assertMonotonic(t *testing.T) {
	t.Helper()
	for i := 1; i < len(r.progress); i++ {
		assert.GreaterOrEqual(t, r.progress[i], r.progress[i-1])
	}
	for _, p := range r.progress {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

type failingWriter struct {
	inner Writer
	fail  map[int]bool
}

func (w *failingWriter) Write(frame Frame, dir string) (string, error) {
	if w.fail[frame.Index] {
		return "", errors.New("disk full")
	}
	return w.inner.Write(frame, dir)
}

func newTestEngine(t *testing.T, open video.OpenFunc, writer Writer, cfg Config) (*Engine, *bytes.Buffer) {
	t.Helper()
	if writer == nil {
		w, err := NewJPEGWriter(DefaultQuality)
		require.NoError(t, err)
		writer = w
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewEngine(open, writer, cfg, logger), &logs
}

func jpegCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "frame-") && strings.HasSuffix(e.Name(), ".jpg") {
			n++
		}
	}
	return n
}

func TestRunWritesEveryPlannedFrame(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 100, FrameRate: 25}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{Workers: 3})
	out := t.TempDir()
	rec := &recorder{}

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: out}, rec)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Planned)
	assert.Equal(t, 10, res.Written)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, res.Files, 10)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, src.reads)
	assert.Equal(t, 1, src.closes)
	assert.Equal(t, 10, jpegCount(t, out))
	assert.Equal(t, filepath.Join(out, "frame-00-00-00.000.jpg"), res.Files[0])

	require.Len(t, rec.progress, 11)
	assert.Equal(t, 0.1, rec.progress[0])
	assert.Equal(t, 1.0, rec.progress[len(rec.progress)-1])
	rec.assertMonotonic(t)
	assert.Equal(t, []State{StateOpening, StatePlanning, StateExtracting, StateFinalizing, StateDone}, rec.states)
}

func TestRunSkipsUndecodableFrame(t *testing.T) {
	src := &fakeSource{
		meta: video.Metadata{TotalFrames: 100, FrameRate: 25},
		bad:  map[int]bool{40: true},
	}
	engine, logs := newTestEngine(t, openerFor(src), nil, Config{})
	out := t.TempDir()
	rec := &recorder{}

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: out}, rec)
	require.NoError(t, err)

	assert.Equal(t, 9, res.Written)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 9, jpegCount(t, out))
	assert.Equal(t, 1.0, rec.progress[len(rec.progress)-1])
	rec.assertMonotonic(t)
	assert.Contains(t, logs.String(), "skipping frame")
}

func TestRunCountsWriteFailuresSeparately(t *testing.T) {
	src := &fakeSource{
		meta: video.Metadata{TotalFrames: 50, FrameRate: 10},
		bad:  map[int]bool{0: true},
	}
	inner, err := NewJPEGWriter(DefaultQuality)
	require.NoError(t, err)
	writer := &failingWriter{inner: inner, fail: map[int]bool{10: true, 20: true}}
	engine, logs := newTestEngine(t, openerFor(src), writer, Config{Workers: 2})

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 5, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Planned)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Failed)
	assert.Contains(t, logs.String(), "failed to write frame")
}

func TestRunCreatesOutputDirectory(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 30, FrameRate: 30}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{})
	out := filepath.Join(t.TempDir(), "nested", "frames")

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 3, OutputDir: out}, nil)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, res.Written, jpegCount(t, out))
}

func TestRunValidation(t *testing.T) {
	opened := false
	open := func(ctx context.Context, path string) (video.Source, error) {
		opened = true
		return nil, errors.New("unreachable")
	}
	engine, _ := newTestEngine(t, open, nil, Config{})
	dir := t.TempDir()

	cases := map[string]Job{
		"video_path":  {VideoPath: " ", FrameCount: 1, OutputDir: dir},
		"frame_count": {VideoPath: "v.mp4", FrameCount: 0, OutputDir: dir},
		"output_dir":  {VideoPath: "v.mp4", FrameCount: 1, OutputDir: ""},
	}
	for field, job := range cases {
		res, err := engine.Run(context.Background(), job, nil)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), field)
		assert.Equal(t, field, verr.Field)
		assert.Equal(t, StateFailed, res.State)
	}
	assert.False(t, opened)
}

func TestRunUnwritableOutputDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	src := &fakeSource{meta: video.Metadata{TotalFrames: 10, FrameRate: 1}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{})

	_, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 1, OutputDir: filepath.Join(blocker, "out")}, nil)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "output_dir", verr.Field)
	assert.Equal(t, 0, src.closes)
}

func TestRunSourceUnavailable(t *testing.T) {
	cause := errors.New("moov atom not found")
	open := func(ctx context.Context, path string) (video.Source, error) { return nil, cause }
	engine, _ := newTestEngine(t, open, nil, Config{})

	res, err := engine.Run(context.Background(), Job{VideoPath: "broken.mp4", FrameCount: 1, OutputDir: t.TempDir()}, nil)

	var serr *SourceUnavailableError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "broken.mp4", serr.Path)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunPlanFailureClosesSource(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 5, FrameRate: 25}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{})
	rec := &recorder{}

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: t.TempDir()}, rec)

	var planErr *InvalidPlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, 1, src.closes)
	assert.Empty(t, src.reads)
	assert.Empty(t, rec.progress)
	assert.Equal(t, StateFailed, res.State)
}

func TestRunClampFrameCount(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 5, FrameRate: 25}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{ClampFrameCount: true})

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Planned)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, src.reads)
}

func TestRunSamplesTailOfUnevenVideo(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 95, FrameRate: 25}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{Workers: 2})
	out := t.TempDir()

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: out}, nil)
	require.NoError(t, err)

	assert.Equal(t, 11, res.Planned)
	assert.Equal(t, 11, res.Written)
	assert.Equal(t, 90, src.reads[len(src.reads)-1])
	assert.Equal(t, 11, jpegCount(t, out))
}

func TestRunCapFrameCount(t *testing.T) {
	src := &fakeSource{meta: video.Metadata{TotalFrames: 95, FrameRate: 25}}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{CapFrameCount: true})

	res, err := engine.Run(context.Background(), Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: t.TempDir()}, nil)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Planned)
	assert.Equal(t, []int{0, 9, 18, 27, 36, 45, 54, 63, 72, 81}, src.reads)
}

func TestRunCancellationDrainsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &fakeSource{meta: video.Metadata{TotalFrames: 100, FrameRate: 25}}
	src.onRead = func(index int) {
		if index == 30 {
			cancel()
		}
	}
	engine, _ := newTestEngine(t, openerFor(src), nil, Config{})
	out := t.TempDir()
	rec := &recorder{}

	res, err := engine.Run(ctx, Job{VideoPath: "v.mp4", FrameCount: 10, OutputDir: out}, rec)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{0, 10, 20, 30}, src.reads)
	assert.Equal(t, 4, res.Written)
	assert.Equal(t, 4, jpegCount(t, out))
	assert.Equal(t, 1, src.closes)
	assert.Equal(t, StateFailed, res.State)
	rec.assertMonotonic(t)
	assert.Less(t, rec.progress[len(rec.progress)-1], 1.0)
}

func TestExtractValidatesBeforeOpening(t *testing.T) {
	var calls []float64
	_, err := Extract(context.Background(), "", 10, t.TempDir(), func(p float64) { calls = append(calls, p) })

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, calls)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "extracting", StateExtracting.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateDone.Terminal())
	assert.False(t, StatePlanning.Terminal())
}
