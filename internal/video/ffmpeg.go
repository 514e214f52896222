package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegSource decodes single frames by running ffmpeg once per seek. The
// video is probed once on open.
type FFmpegSource struct {
	path   string
	binary string
	meta   Metadata
}

// OpenFFmpeg probes path with ffprobe and returns a source backed by the
// ffmpeg binary on PATH. Cancelling ctx kills a running probe.
func OpenFFmpeg(ctx context.Context, path string) (Source, error) {
	raw, err := probe(ctx, "ffprobe", path)
	if err != nil {
		return nil, err
	}
	meta, err := parseProbe(raw)
	if err != nil {
		return nil, err
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		return nil, fmt.Errorf("probe video: invalid dimensions %dx%d", meta.Width, meta.Height)
	}
	return &FFmpegSource{path: path, binary: "ffmpeg", meta: meta}, nil
}

// probe runs ffprobe with the same arguments ffmpeg.Probe uses, bound to ctx.
func probe(ctx context.Context, binary, path string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, probeArgs(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("probe video: %w", ctxErr)
		}
		return "", fmt.Errorf("probe video: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func probeArgs(path string) []string {
	return []string{"-show_format", "-show_streams", "-of", "json", path}
}

func (s *FFmpegSource) Metadata() Metadata {
	return s.meta
}

// SeekAndDecode asks ffmpeg for one RGBA frame starting at the frame's
// presentation time.
func (s *FFmpegSource) SeekAndDecode(ctx context.Context, index int) (image.Image, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrNoFrame, index)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, s.frameArgs(index)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	return rgbaFromRaw(stdout.Bytes(), s.meta.Width, s.meta.Height)
}

func (s *FFmpegSource) frameArgs(index int) []string {
	seconds := float64(index) / s.meta.FrameRate
	return ffmpeg.
		Input(s.path, ffmpeg.KwArgs{"ss": strconv.FormatFloat(seconds, 'f', 6, 64)}).
		Output("pipe:", ffmpeg.KwArgs{
			"f":        "rawvideo",
			"pix_fmt":  "rgba",
			"frames:v": 1,
		}).
		GetArgs()
}

// Close is a no-op; every decode runs in its own process.
func (s *FFmpegSource) Close() error {
	return nil
}

func rgbaFromRaw(raw []byte, width, height int) (image.Image, error) {
	want := width * height * 4
	if len(raw) == 0 {
		return nil, ErrNoFrame
	}
	if len(raw) < want {
		return nil, fmt.Errorf("%w: short frame, got %d bytes want %d", ErrNoFrame, len(raw), want)
	}
	return &image.RGBA{
		Pix:    raw[:want],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
