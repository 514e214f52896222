//go:build gocv

package video

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	Register(BackendOpenCV, OpenOpenCV)
}

// OpenCVSource reads frames through an OpenCV VideoCapture. Built only with
// the gocv tag since it needs the OpenCV shared libraries.
type OpenCVSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	meta    Metadata
}

func OpenOpenCV(ctx context.Context, path string) (Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open capture: %s is not readable", path)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		capture.Close()
		return nil, ErrNoVideoStream
	}

	return &OpenCVSource{
		capture: capture,
		mat:     gocv.NewMat(),
		meta: Metadata{
			TotalFrames: int(capture.Get(gocv.VideoCaptureFrameCount)),
			FrameRate:   fps,
			Width:       int(capture.Get(gocv.VideoCaptureFrameWidth)),
			Height:      int(capture.Get(gocv.VideoCaptureFrameHeight)),
		},
	}, nil
}

func (s *OpenCVSource) Metadata() Metadata {
	return s.meta
}

func (s *OpenCVSource) SeekAndDecode(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.capture.Set(gocv.VideoCapturePosFrames, float64(index))
	if !s.capture.Read(&s.mat) || s.mat.Empty() {
		return nil, ErrNoFrame
	}
	// ToImage allocates a fresh image, so the shared Mat can be reused.
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

func (s *OpenCVSource) Close() error {
	s.mat.Close()
	return s.capture.Close()
}
