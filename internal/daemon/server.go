package daemon

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"framesampler/internal/config"
	"framesampler/internal/video"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server stores all in-memory state and exposes HTTP handlers.
type Server struct {
	mu           sync.RWMutex
	config       config.Config
	folders      map[string]Folder
	videos       map[string]*Video
	jobs         map[string]*Job
	jobCancel    map[string]context.CancelFunc
	folderByPath map[string]string
	videoByPath  map[string]string
	logger       *slog.Logger
	open         video.OpenFunc
	running      sync.WaitGroup
}

// Option customises a Server.
type Option func(*Server)

// WithOpener replaces the configured decoder backend, mostly for tests.
func WithOpener(open video.OpenFunc) Option {
	return func(s *Server) {
		s.open = open
	}
}

func NewServer(cfg config.Config, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config:       cfg,
		folders:      make(map[string]Folder),
		videos:       make(map[string]*Video),
		jobs:         make(map[string]*Job),
		jobCancel:    make(map[string]context.CancelFunc),
		folderByPath: make(map[string]string),
		videoByPath:  make(map[string]string),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.logRequestMiddleware)

	// CORS to allow local client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger docs
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Config, health and metrics
	r.Get("/health", s.handleHealth)
	r.MethodFunc(http.MethodGet, "/config", s.handleConfig)
	r.MethodFunc(http.MethodPut, "/config", s.handleConfig)
	r.Handle("/metrics", promhttp.Handler())

	// Folders
	r.MethodFunc(http.MethodGet, "/folders", s.handleFolders)
	r.MethodFunc(http.MethodPost, "/folders", s.handleFolders)

	// Videos
	r.MethodFunc(http.MethodGet, "/videos", s.handleVideos)
	r.MethodFunc(http.MethodPost, "/videos", s.handleVideos)
	r.Route("/videos/{videoID}", func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/", s.handleGetVideo)
		r.MethodFunc(http.MethodPost, "/extract", s.handleExtract)
		r.MethodFunc(http.MethodPost, "/cancel", s.handleCancel)
		r.MethodFunc(http.MethodGet, "/frames", s.handleVideoFrames)
		r.MethodFunc(http.MethodGet, "/file", s.handleVideoFile)
	})

	// Jobs
	r.MethodFunc(http.MethodGet, "/jobs", s.handleJobs)
	r.MethodFunc(http.MethodGet, "/jobs/{jobID}", s.handleGetJob)

	return r
}

// Shutdown cancels running jobs and waits for them to release their
// decoders, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, cancel := range s.jobCancel {
		cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
