package daemon

import (
	"errors"
	"time"
)

// Folder represents a directory whose videos were registered in one scan.
type Folder struct {
	ID          string `json:"folder_id" example:"fld_abcd1234"`
	Path        string `json:"path" example:"/videos"`
	Recursive   bool   `json:"recursive" example:"true"`
	Status      string `json:"status" example:"scanned"`
	VideosFound int    `json:"videos_found" example:"3"`
}

// Video tracks a single video and the outcome of its latest extraction.
type Video struct {
	ID              string     `json:"video_id" example:"vid_abcd1234"`
	Path            string     `json:"path" example:"/videos/sample.mp4"`
	Status          string     `json:"status" example:"extracting"`
	TotalFrames     int        `json:"total_frames" example:"1500"`
	FrameRate       float64    `json:"frame_rate" example:"29.97"`
	OutputDir       string     `json:"output_dir,omitempty" example:"frames/sample"`
	FramesPlanned   int        `json:"frames_planned" example:"10"`
	FramesWritten   int        `json:"frames_written" example:"9"`
	FramesSkipped   int        `json:"frames_skipped" example:"1"`
	FramesFailed    int        `json:"frames_failed" example:"0"`
	Files           []string   `json:"-"`
	LastExtractedAt *time.Time `json:"last_extracted_at" example:"2024-01-01T12:00:00Z"`
	LastError       *string    `json:"last_error" example:"open video: moov atom not found"`
}

// Job represents one extraction run of a video.
type Job struct {
	ID         string    `json:"job_id" example:"job_abcd1234"`
	VideoID    string    `json:"video_id" example:"vid_abcd1234"`
	Type       string    `json:"type" example:"extract_frames"`
	Status     string    `json:"status" example:"extracting"`
	Progress   float64   `json:"progress" example:"0.4"`
	FrameCount int       `json:"frame_count" example:"10"`
	OutputDir  string    `json:"output_dir" example:"frames/sample"`
	Planned    int       `json:"planned" example:"10"`
	Written    int       `json:"written" example:"4"`
	Skipped    int       `json:"skipped" example:"0"`
	Failed     int       `json:"failed" example:"0"`
	Error      *string   `json:"error,omitempty" example:"cannot plan 10 frames from a video with 5 frames"`
	CreatedAt  time.Time `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt  time.Time `json:"updated_at" example:"2024-01-01T12:05:00Z"`
}

const (
	statusPending   = "pending"
	statusQueued    = "queued"
	statusDone      = "done"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

func jobActive(j *Job) bool {
	switch j.Status {
	case statusDone, statusFailed, statusCancelled:
		return false
	default:
		return true
	}
}

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"description of the error"`
}

// HealthResponse describes the health endpoint payload.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// ConfigUpdateRequest allows partial configuration updates.
type ConfigUpdateRequest struct {
	FrameCount      *int    `json:"frame_count" example:"12"`
	Quality         *int    `json:"quality" example:"90"`
	Workers         *int    `json:"workers" example:"8"`
	Backend         *string `json:"backend" example:"ffmpeg"`
	ClampFrameCount *bool   `json:"clamp_frame_count" example:"false"`
	CapFrameCount   *bool   `json:"cap_frame_count" example:"false"`
}

// StatusResponse is a generic status wrapper.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// AddFolderRequest is the payload to scan a folder for videos.
type AddFolderRequest struct {
	Path      string `json:"path" example:"/videos"`
	Recursive bool   `json:"recursive" example:"true"`
}

// AddFolderResponse returns the scanned folder and the videos it added.
type AddFolderResponse struct {
	FolderID string   `json:"folder_id" example:"fld_abcd1234"`
	Status   string   `json:"status" example:"scanned"`
	VideoIDs []string `json:"video_ids"`
}

// AddVideoRequest registers a new video for extraction.
type AddVideoRequest struct {
	Path string `json:"path" example:"/videos/sample.mp4"`
}

// AddVideoResponse returns the created video ID.
type AddVideoResponse struct {
	VideoID string `json:"video_id" example:"vid_abcd1234"`
	Status  string `json:"status" example:"pending"`
}

// ExtractRequest overrides the configured defaults for one extraction.
type ExtractRequest struct {
	FrameCount int    `json:"frame_count" example:"10"`
	OutputDir  string `json:"output_dir" example:"frames/sample"`
	Quality    int    `json:"quality" example:"95"`
}

// StartJobResponse provides the started job ID.
type StartJobResponse struct {
	Status string `json:"status" example:"started"`
	JobID  string `json:"job_id" example:"job_abcd1234"`
}

// CancelJobResponse indicates a cancellation attempt.
type CancelJobResponse struct {
	Status string `json:"status" example:"cancelling"`
}

// FramesResponse lists the files written by a video's latest extraction.
type FramesResponse struct {
	VideoID string   `json:"video_id" example:"vid_abcd1234"`
	Files   []string `json:"files"`
}

var (
	errNotFound  = errors.New("not found")
	errJobActive = errors.New("extraction already running")
)
