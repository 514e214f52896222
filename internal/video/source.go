package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Backend names a decoder implementation.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendFFmpeg Backend = "ffmpeg"
	BackendMPEG   Backend = "mpeg"
	BackendOpenCV Backend = "opencv"
)

var (
	// ErrNoFrame is returned by SeekAndDecode when nothing could be read at
	// the requested position.
	ErrNoFrame = errors.New("no frame at position")

	// ErrUnknownBackend is returned by Open for a backend that is not
	// compiled into the binary.
	ErrUnknownBackend = errors.New("unknown video backend")

	// ErrNoVideoStream is returned by Open for containers without a
	// decodable video stream.
	ErrNoVideoStream = errors.New("no video stream")
)

// Metadata describes an opened video. TotalFrames and FrameRate are what
// the container reports and may be approximate for variable frame rate
// sources.
type Metadata struct {
	TotalFrames int
	FrameRate   float64
	Width       int
	Height      int
	// Rotation is the display rotation in degrees that decoders apply.
	// Width and Height already describe the rotated frame.
	Rotation int
}

// Source is an open decoder handle. It is not safe for concurrent use.
type Source interface {
	Metadata() Metadata
	// SeekAndDecode positions the decoder at a zero-based frame index and
	// decodes that frame. The returned image is owned by the caller.
	SeekAndDecode(ctx context.Context, index int) (image.Image, error)
	Close() error
}

// OpenFunc opens a video with one backend.
type OpenFunc func(ctx context.Context, path string) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = map[Backend]OpenFunc{
		BackendFFmpeg: OpenFFmpeg,
		BackendMPEG:   OpenMPEG,
	}
)

// Register makes a backend available to Open.
func Register(b Backend, fn OpenFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b] = fn
}

// Backends lists the backends compiled into the binary, plus auto.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]Backend, 0, len(registry))
	for b := range registry {
		names = append(names, b)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return append([]Backend{BackendAuto}, names...)
}

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(name)))
	if b == "" || b == BackendAuto {
		return BackendAuto, nil
	}
	registryMu.RLock()
	_, ok := registry[b]
	registryMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return b, nil
}

// Open opens path with the given backend. BackendAuto picks the pure Go
// MPEG-1 decoder for .mpg files and ffmpeg for everything else.
func Open(ctx context.Context, path string, b Backend) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}
	if b == "" || b == BackendAuto {
		b = detectBackend(path)
	}

	registryMu.RLock()
	open, ok := registry[b]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, b)
	}
	return open(ctx, path)
}

// Opener returns Open bound to a backend.
func Opener(b Backend) OpenFunc {
	return func(ctx context.Context, path string) (Source, error) {
		return Open(ctx, path, b)
	}
}

func detectBackend(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mpg", ".mpeg", ".m1v":
		return BackendMPEG
	default:
		return BackendFFmpeg
	}
}

// IsVideoFile reports whether name has a container extension the decoders
// are expected to handle.
func IsVideoFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".m4v", ".webm", ".mpg", ".mpeg", ".wmv", ".flv":
		return true
	default:
		return false
	}
}
