package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"framesampler/internal/config"
	"framesampler/internal/extract"
	"framesampler/internal/logging"
	"framesampler/internal/video"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	app := &cli.Command{
		Name:  "framesampler-extract",
		Usage: "Extract evenly spaced JPEG frames from a video or a directory of videos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "video",
				Aliases:  []string{"i"},
				Usage:    "Video file, or directory containing source videos",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory where extracted frames will be written",
				Value:   cfg.OutputRoot,
			},
			&cli.IntFlag{
				Name:    "frames",
				Aliases: []string{"n"},
				Usage:   "Number of frames to sample from each video",
				Value:   cfg.FrameCount,
			},
			&cli.IntFlag{
				Name:  "quality",
				Usage: "JPEG quality between 1 and 100; 0 selects the default of 95",
				Value: cfg.Quality,
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent frame writers per video",
				Value:   cfg.Workers,
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: fmt.Sprintf("Video decoder, one of %v", video.Backends()),
				Value: cfg.Backend,
			},
			&cli.BoolFlag{
				Name:  "clamp",
				Usage: "Sample every frame instead of failing when --frames exceeds the video length",
				Value: cfg.ClampFrameCount,
			},
			&cli.BoolFlag{
				Name:  "cap",
				Usage: "Never write more than --frames frames, dropping the tail of videos whose length is not a multiple of it",
				Value: cfg.CapFrameCount,
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Videos processed at once when --video is a directory",
				Value:   cfg.ParallelVideos,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: cfg.LogLevel,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			frames := cmd.Int("frames")
			if frames <= 0 {
				return cli.Exit("frames must be greater than zero", 2)
			}
			workers := cmd.Int("workers")
			if workers <= 0 {
				return cli.Exit("workers must be greater than zero", 2)
			}
			parallel := cmd.Int("parallel")
			if parallel <= 0 {
				return cli.Exit("parallel must be greater than zero", 2)
			}
			backend, err := video.ParseBackend(cmd.String("backend"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			level, err := logging.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			writer, err := extract.NewJPEGWriter(cmd.Int("quality"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			logger := logging.New(os.Stderr, level, cfg.NoColor)
			slog.SetDefault(logger)
			engine := extract.NewEngine(video.Opener(backend), writer, extract.Config{
				Workers:         workers,
				QueueSize:       cfg.QueueSize,
				ClampFrameCount: cmd.Bool("clamp"),
				CapFrameCount:   cmd.Bool("cap"),
			}, logger)

			r := &runner{
				engine:   engine,
				logger:   logger,
				frames:   frames,
				parallel: parallel,
			}
			return r.run(ctx, cmd.String("video"), cmd.String("output"))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitErr.ExitCode())
		}
		slog.Error("extraction failed", "error", err)
		os.Exit(1)
	}
}
