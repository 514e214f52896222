package extract

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestJPEGWriterWritesDecodableFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJPEGWriter(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultQuality, w.Quality)

	path, err := w.Write(Frame{Index: 75, FrameRate: 25, Image: solidImage(16, 8, color.White)}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame-00-00-03.000.jpg"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
}

func TestJPEGWriterOverwrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewJPEGWriter(50)
	require.NoError(t, err)

	frame := Frame{Index: 1, FrameRate: 1, Image: solidImage(4, 4, color.Black)}
	first, err := w.Write(frame, dir)
	require.NoError(t, err)
	second, err := w.Write(frame, dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJPEGWriterMissingDirectory(t *testing.T) {
	w, err := NewJPEGWriter(DefaultQuality)
	require.NoError(t, err)

	_, err = w.Write(Frame{Index: 0, FrameRate: 30, Image: solidImage(2, 2, color.White)},
		filepath.Join(t.TempDir(), "missing"))

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 0, werr.Index)
}

func TestJPEGWriterEmptyFrame(t *testing.T) {
	w, err := NewJPEGWriter(DefaultQuality)
	require.NoError(t, err)

	_, err = w.Write(Frame{Index: 3, FrameRate: 30}, t.TempDir())
	var werr *WriteError
	assert.True(t, errors.As(err, &werr))
}

func TestNewJPEGWriterRejectsQuality(t *testing.T) {
	for _, q := range []int{-1, 101} {
		_, err := NewJPEGWriter(q)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "quality %d", q)
	}
}
