package extract

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
)

// DefaultQuality is the JPEG quality frames are written at unless
// configured otherwise.
const DefaultQuality = 95

// Frame is a decoded picture together with where it sits in the video.
type Frame struct {
	Index     int
	FrameRate float64
	Image     image.Image
}

// Writer persists one decoded frame and returns the path it wrote.
type Writer interface {
	Write(frame Frame, outputDir string) (string, error)
}

// JPEGWriter encodes frames as baseline JPEG files named after their
// position on the video timeline.
type JPEGWriter struct {
	Quality int
}

// NewJPEGWriter returns a writer at the given quality. Zero selects
// DefaultQuality.
func NewJPEGWriter(quality int) (*JPEGWriter, error) {
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return nil, &ValidationError{Field: "quality", Reason: fmt.Sprintf("%d is outside 1-100", quality)}
	}
	return &JPEGWriter{Quality: quality}, nil
}

// Write encodes the frame to outputDir, replacing any file already at the
// same path.
func (w *JPEGWriter) Write(frame Frame, outputDir string) (string, error) {
	path := filepath.Join(outputDir, FrameFilename(frame.Index, frame.FrameRate))
	if frame.Image == nil {
		return path, &WriteError{Index: frame.Index, Path: path, Err: fmt.Errorf("empty frame")}
	}

	f, err := os.Create(path)
	if err != nil {
		return path, &WriteError{Index: frame.Index, Path: path, Err: err}
	}

	if err := jpeg.Encode(f, frame.Image, &jpeg.Options{Quality: w.Quality}); err != nil {
		f.Close()
		return path, &WriteError{Index: frame.Index, Path: path, Err: fmt.Errorf("encode jpeg: %w", err)}
	}
	if err := f.Close(); err != nil {
		return path, &WriteError{Index: frame.Index, Path: path, Err: err}
	}
	return path, nil
}
