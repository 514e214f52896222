package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"framesampler/internal/extract"
	"framesampler/internal/logging"
	"framesampler/internal/pool"
	"framesampler/internal/video"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FRAMESAMPLER_"

// Config holds settings shared by the CLI and the daemon.
type Config struct {
	FrameCount      int    `env:"FRAME_COUNT"       envDefault:"10"     json:"frame_count"`
	Quality         int    `env:"QUALITY"           envDefault:"95"     json:"quality"`
	Workers         int    `env:"WORKERS"           envDefault:"4"      json:"workers"`
	QueueSize       int    `env:"QUEUE_SIZE"        envDefault:"0"      json:"queue_size"`
	Backend         string `env:"BACKEND"           envDefault:"auto"   json:"backend"`
	ClampFrameCount bool   `env:"CLAMP_FRAME_COUNT" envDefault:"false"  json:"clamp_frame_count"`
	CapFrameCount   bool   `env:"CAP_FRAME_COUNT"   envDefault:"false"  json:"cap_frame_count"`
	ParallelVideos  int    `env:"PARALLEL_VIDEOS"   envDefault:"1"      json:"parallel_videos"`
	OutputRoot      string `env:"OUTPUT_ROOT"       envDefault:"frames" json:"output_root"`
	Addr            string `env:"ADDR"              envDefault:":8080"  json:"-"`
	LogLevel        string `env:"LOG_LEVEL"         envDefault:"info"   json:"log_level"`
	NoColor         bool   `env:"NO_COLOR"          envDefault:"false"  json:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		FrameCount:     extract.DefaultFrameCount,
		Quality:        extract.DefaultQuality,
		Workers:        pool.DefaultWorkers,
		Backend:        string(video.BackendAuto),
		ParallelVideos: 1,
		OutputRoot:     "frames",
		Addr:           ":8080",
		LogLevel:       "info",
	}
}

// Load reads an optional .env file from the working directory and then the
// FRAMESAMPLER_ environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the environment over Default without touching .env files.
func FromEnv() (*Config, error) {
	base := Default()
	cfg := &base
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the extractor cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.FrameCount <= 0 {
		errs = append(errs, fmt.Errorf("frame count must be positive, got %d", c.FrameCount))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be within 1-100, got %d", c.Quality))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("queue size must not be negative, got %d", c.QueueSize))
	}
	if c.ParallelVideos <= 0 {
		errs = append(errs, fmt.Errorf("parallel videos must be positive, got %d", c.ParallelVideos))
	}
	if _, err := video.ParseBackend(c.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// EngineConfig returns the engine settings carried by c.
func (c *Config) EngineConfig() extract.Config {
	return extract.Config{
		Workers:         c.Workers,
		QueueSize:       c.QueueSize,
		ClampFrameCount: c.ClampFrameCount,
		CapFrameCount:   c.CapFrameCount,
	}
}
