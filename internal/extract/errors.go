package extract

import "fmt"

// ValidationError reports a job parameter that was rejected before any
// decoder was opened.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SourceUnavailableError reports a video that could not be opened.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("open video %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// InvalidPlanError reports a frame request that cannot be spread over the
// video, either because it is not positive or because it exceeds the number
// of frames available.
type InvalidPlanError struct {
	TotalFrames int
	Requested   int
}

func (e *InvalidPlanError) Error() string {
	if e.Requested <= 0 {
		return fmt.Sprintf("cannot plan %d frames: count must be positive", e.Requested)
	}
	return fmt.Sprintf("cannot plan %d frames from a video with %d frames", e.Requested, e.TotalFrames)
}

// DecodeError reports a single frame index that could not be read. The
// engine counts it as skipped and carries on.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError reports a frame that decoded but could not be encoded or
// written to disk.
type WriteError struct {
	Index int
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write frame %d to %s: %v", e.Index, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
