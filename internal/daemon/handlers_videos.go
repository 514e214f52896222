package daemon

import (
	"errors"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleVideos godoc
// @Summary List or register videos
// @Description GET lists tracked videos; POST registers a new video for extraction.
// @Tags videos
// @Accept json
// @Produce json
// @Param request body AddVideoRequest true "Video to register"
// @Success 200 {array} Video
// @Success 200 {object} AddVideoResponse
// @Failure 400 {object} ErrorResponse
// @Router /videos [get]
// @Router /videos [post]
func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		list := make([]Video, 0, len(s.videos))
		for _, v := range s.videos {
			list = append(list, *v)
		}
		s.mu.RUnlock()
		sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req AddVideoRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		path := strings.TrimSpace(req.Path)
		if path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			writeError(w, http.StatusBadRequest, "path is not a readable file")
			return
		}
		s.mu.Lock()
		_, exists := s.videoByPath[path]
		video := s.registerVideoLocked(path)
		s.mu.Unlock()

		status := statusPending
		if exists {
			status = "already_exists"
		}
		writeJSON(w, http.StatusOK, AddVideoResponse{VideoID: video.ID, Status: status})
	}
}

// handleGetVideo godoc
// @Summary Get video details
// @Description Returns metadata and the outcome of the latest extraction for a video.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} Video
// @Failure 404 {object} ErrorResponse
// @Router /videos/{videoID} [get]
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := s.lookupVideo(chi.URLParam(r, "videoID"))
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// handleExtract godoc
// @Summary Start extraction job
// @Description Starts sampling frames from the given video. Omitted fields use the configured defaults.
// @Tags videos
// @Accept json
// @Produce json
// @Param videoID path string true "Video ID"
// @Param request body ExtractRequest false "Extraction options"
// @Success 202 {object} StartJobResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /videos/{videoID}/extract [post]
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	var req ExtractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	job, err := s.startJob(videoID, req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			// Writer and job validation failures are caller errors here.
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, StartJobResponse{Status: "started", JobID: job.ID})
}

// handleCancel godoc
// @Summary Cancel extraction job
// @Description Cancels the active job for the given video. Frames already written are kept.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} CancelJobResponse
// @Failure 404 {object} ErrorResponse
// @Router /videos/{videoID}/cancel [post]
func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if err := s.cancelJob(videoID); err != nil {
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusNotFound, "video not found or no active job")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, CancelJobResponse{Status: "cancelling"})
}

// handleVideoFrames godoc
// @Summary List extracted frames
// @Description Returns the files written by the latest extraction of a video.
// @Tags videos
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} FramesResponse
// @Failure 404 {object} ErrorResponse
// @Router /videos/{videoID}/frames [get]
func (s *Server) handleVideoFrames(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	s.mu.RLock()
	video, ok := s.videos[videoID]
	var files []string
	if ok {
		files = append([]string{}, video.Files...)
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	writeJSON(w, http.StatusOK, FramesResponse{VideoID: videoID, Files: files})
}

// handleVideoFile streams a registered video's file contents.
func (s *Server) handleVideoFile(w http.ResponseWriter, r *http.Request) {
	video, ok := s.lookupVideo(chi.URLParam(r, "videoID"))
	if !ok {
		writeError(w, http.StatusNotFound, "video not found")
		return
	}
	http.ServeFile(w, r, video.Path)
}

func (s *Server) lookupVideo(id string) (Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return Video{}, false
	}
	return *v, true
}
