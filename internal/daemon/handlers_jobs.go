package daemon

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
)

// handleJobs godoc
// @Summary List jobs
// @Description Returns all extraction jobs with progress, oldest first.
// @Tags jobs
// @Produce json
// @Success 200 {array} Job
// @Router /jobs [get]
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	list := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		list = append(list, *j)
	}
	s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	writeJSON(w, http.StatusOK, list)
}

// handleGetJob godoc
// @Summary Get job
// @Description Returns the progress and counts of one extraction job.
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} Job
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	var copyJob Job
	if ok {
		copyJob = *job
	}
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, copyJob)
}
