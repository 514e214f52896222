package video

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/gen2brain/mpeg"
)

// MPEGSource decodes MPEG-1 program streams in process, without an external
// ffmpeg binary.
type MPEGSource struct {
	file *os.File
	mpg  *mpeg.MPEG
	meta Metadata
}

// OpenMPEG opens an MPEG-1 file with the pure Go decoder.
func OpenMPEG(ctx context.Context, path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}

	mpg, err := mpeg.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read mpeg headers: %w", err)
	}

	fps := mpg.Framerate()
	if fps <= 0 {
		f.Close()
		return nil, ErrNoVideoStream
	}

	return &MPEGSource{
		file: f,
		mpg:  mpg,
		meta: Metadata{
			TotalFrames: int(math.Round(mpg.Duration().Seconds() * fps)),
			FrameRate:   fps,
			Width:       mpg.Width(),
			Height:      mpg.Height(),
		},
	}, nil
}

func (s *MPEGSource) Metadata() Metadata {
	return s.meta
}

// SeekAndDecode seeks to the exact frame time. The decoder reuses its
// planes between calls so the frame is copied before it is returned.
func (s *MPEGSource) SeekAndDecode(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrNoFrame, index)
	}

	at := time.Duration(float64(index) / s.meta.FrameRate * float64(time.Second))
	frame := s.mpg.SeekFrame(at, true)
	if frame == nil {
		return nil, ErrNoFrame
	}
	return cloneYCbCr(frame.YCbCr()), nil
}

func (s *MPEGSource) Close() error {
	return s.file.Close()
}

func cloneYCbCr(src *image.YCbCr) *image.YCbCr {
	dst := &image.YCbCr{
		Y:              make([]byte, len(src.Y)),
		Cb:             make([]byte, len(src.Cb)),
		Cr:             make([]byte, len(src.Cr)),
		YStride:        src.YStride,
		CStride:        src.CStride,
		SubsampleRatio: src.SubsampleRatio,
		Rect:           src.Rect,
	}
	copy(dst.Y, src.Y)
	copy(dst.Cb, src.Cb)
	copy(dst.Cr, src.Cr)
	return dst
}
