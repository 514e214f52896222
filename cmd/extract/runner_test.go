package main

import (
	"bytes"
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framesampler/internal/extract"
	"framesampler/internal/video"
)

type stubSource struct{}

func (stubSource) Metadata() video.Metadata {
	return video.Metadata{TotalFrames: 40, FrameRate: 10, Width: 4, Height: 4}
}

func (stubSource) SeekAndDecode(ctx context.Context, index int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (stubSource) Close() error { return nil }

func newTestRunner(t *testing.T, out io.Writer) *runner {
	t.Helper()
	writer, err := extract.NewJPEGWriter(extract.DefaultQuality)
	require.NoError(t, err)
	open := func(ctx context.Context, path string) (video.Source, error) { return stubSource{}, nil }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &runner{
		engine:   extract.NewEngine(open, writer, extract.Config{Workers: 2}, logger),
		logger:   logger,
		frames:   4,
		parallel: 2,
		out:      out,
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestRunnerSingleVideo(t *testing.T) {
	in := filepath.Join(t.TempDir(), "clip.mp4")
	touch(t, in)
	out := t.TempDir()
	var stdout bytes.Buffer

	require.NoError(t, newTestRunner(t, &stdout).run(context.Background(), in, out))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Contains(t, stdout.String(), "Frames written: 4")
}

func TestRunnerDirectory(t *testing.T) {
	in := t.TempDir()
	touch(t, filepath.Join(in, "a.mp4"))
	touch(t, filepath.Join(in, "b.mkv"))
	touch(t, filepath.Join(in, "notes.txt"))
	out := t.TempDir()

	require.NoError(t, newTestRunner(t, io.Discard).run(context.Background(), in, out))

	for _, name := range []string{"a", "b"} {
		entries, err := os.ReadDir(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Len(t, entries, 4, name)
	}
	_, err := os.Stat(filepath.Join(out, "notes"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunnerEmptyDirectory(t *testing.T) {
	err := newTestRunner(t, io.Discard).run(context.Background(), t.TempDir(), t.TempDir())
	assert.ErrorContains(t, err, "no video files")
}

func TestBarObserverOnlyAdvances(t *testing.T) {
	bar := newBar(io.Discard, 1, "test")
	obs := &barObserver{bar: bar}

	obs.OnProgress(0.25)
	obs.OnProgress(0.10)
	obs.OnProgress(1)

	assert.Equal(t, 100, obs.last)
	assert.Equal(t, int64(100), bar.State().CurrentNum)
}

func TestVideoName(t *testing.T) {
	assert.Equal(t, "holiday", videoName("/v/holiday.mp4"))
}
