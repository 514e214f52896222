package daemon

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"framesampler/internal/video"
)

// handleFolders godoc
// @Summary List or scan folders
// @Description GET lists scanned folders; POST scans a folder and registers every video found in it.
// @Tags folders
// @Accept json
// @Produce json
// @Param request body AddFolderRequest true "Folder to scan"
// @Success 200 {array} Folder
// @Success 200 {object} AddFolderResponse
// @Failure 400 {object} ErrorResponse
// @Router /folders [get]
// @Router /folders [post]
func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.mu.RLock()
		list := make([]Folder, 0, len(s.folders))
		for _, f := range s.folders {
			list = append(list, f)
		}
		s.mu.RUnlock()
		sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
		writeJSON(w, http.StatusOK, list)
		return
	}

	var req AddFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s is not a readable directory", path))
		return
	}

	paths, err := scanFolder(path, req.Recursive)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	folderID, exists := s.folderByPath[path]
	if !exists {
		folderID = newID("fld_")
		s.folderByPath[path] = folderID
	}
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		ids = append(ids, s.registerVideoLocked(p).ID)
	}
	s.folders[folderID] = Folder{
		ID:          folderID,
		Path:        path,
		Recursive:   req.Recursive,
		Status:      "scanned",
		VideosFound: len(paths),
	}
	s.mu.Unlock()

	s.logger.Info("scanned folder", "path", path, "recursive", req.Recursive, "videos", len(paths))
	writeJSON(w, http.StatusOK, AddFolderResponse{FolderID: folderID, Status: "scanned", VideoIDs: ids})
}

// scanFolder returns the video files under dir in lexical order.
func scanFolder(dir string, recursive bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if video.IsVideoFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return paths, nil
}

// registerVideoLocked returns the video tracked at path, adding it when it
// is new. The caller must hold s.mu.
func (s *Server) registerVideoLocked(path string) *Video {
	if id, ok := s.videoByPath[path]; ok {
		return s.videos[id]
	}
	v := &Video{ID: newID("vid_"), Path: path, Status: statusPending}
	s.videos[v.ID] = v
	s.videoByPath[path] = v.ID
	return v
}
