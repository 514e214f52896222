package daemon

import (
	"net/http"

	"framesampler/internal/config"
)

// handleHealth godoc
// @Summary Health check
// @Description Returns service health and version.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// handleConfig godoc
// @Summary Get or update extraction defaults
// @Description Returns the current defaults on GET and updates selected fields on PUT. Running jobs keep the settings they started with.
// @Tags config
// @Accept json
// @Produce json
// @Param request body ConfigUpdateRequest false "Fields to update (PUT only)"
// @Success 200 {object} config.Config
// @Failure 400 {object} ErrorResponse
// @Router /config [get]
// @Router /config [put]
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.RLock()
		cfg := s.config
		s.mu.RUnlock()
		writeJSON(w, http.StatusOK, cfg)
	case http.MethodPut:
		var req ConfigUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json payload")
			return
		}
		s.mu.Lock()
		next := applyConfigUpdate(s.config, req)
		if err := next.Validate(); err != nil {
			s.mu.Unlock()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.config = next
		s.mu.Unlock()
		s.logger.Info("configuration updated",
			"frame_count", next.FrameCount,
			"quality", next.Quality,
			"workers", next.Workers,
			"backend", next.Backend,
		)
		writeJSON(w, http.StatusOK, next)
	}
}

func applyConfigUpdate(cfg config.Config, req ConfigUpdateRequest) config.Config {
	if req.FrameCount != nil {
		cfg.FrameCount = *req.FrameCount
	}
	if req.Quality != nil {
		cfg.Quality = *req.Quality
	}
	if req.Workers != nil {
		cfg.Workers = *req.Workers
	}
	if req.Backend != nil {
		cfg.Backend = *req.Backend
	}
	if req.ClampFrameCount != nil {
		cfg.ClampFrameCount = *req.ClampFrameCount
	}
	if req.CapFrameCount != nil {
		cfg.CapFrameCount = *req.CapFrameCount
	}
	return cfg
}
