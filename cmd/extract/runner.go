package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"framesampler/internal/extract"
	"framesampler/internal/video"
)

type runner struct {
	engine   *extract.Engine
	logger   *slog.Logger
	frames   int
	parallel int
	out      io.Writer
}

func (r *runner) stdout() io.Writer {
	if r.out != nil {
		return r.out
	}
	return os.Stdout
}

// run extracts from a single video, or from every video in a directory
// into one sub-directory per video.
func (r *runner) run(ctx context.Context, input, outputDir string) error {
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if !info.IsDir() {
		bar := newBar(r.stdout(), 1, filepath.Base(input))
		res, err := r.engine.Run(ctx, r.job(input, outputDir), &barObserver{bar: bar})
		_ = bar.Finish()
		if err != nil {
			return fmt.Errorf("extract frames for %s: %w", input, err)
		}
		printSummary(r.stdout(), input, res)
		return nil
	}
	return r.processDirectory(ctx, input, outputDir)
}

func (r *runner) job(videoPath, outputDir string) extract.Job {
	return extract.Job{VideoPath: videoPath, FrameCount: r.frames, OutputDir: outputDir}
}

func (r *runner) processDirectory(ctx context.Context, videoDir, outputDir string) error {
	videos, err := listVideos(videoDir)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", videoDir)
	}

	bar := newBar(r.stdout(), len(videos), fmt.Sprintf("%d videos", len(videos)))
	results := make([]extract.Result, len(videos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, path := range videos {
		g.Go(func() error {
			r.logger.Info("extracting frames", "video", path)
			res, err := r.engine.Run(gctx, r.job(path, filepath.Join(outputDir, videoName(path))), &barObserver{bar: bar})
			if err != nil {
				return fmt.Errorf("extract frames for %s: %w", filepath.Base(path), err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	_ = bar.Finish()
	if err != nil {
		return err
	}

	for i, path := range videos {
		printSummary(r.stdout(), path, results[i])
	}
	return nil
}

func listVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read video directory: %w", err)
	}
	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || !video.IsVideoFile(entry.Name()) {
			continue
		}
		videos = append(videos, filepath.Join(dir, entry.Name()))
	}
	return videos, nil
}

func videoName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func printSummary(w io.Writer, videoPath string, res extract.Result) {
	fmt.Fprintf(w, "\n=== %s ===\n", filepath.Base(videoPath))
	fmt.Fprintf(w, "Frames planned: %d\n", res.Planned)
	fmt.Fprintf(w, "Frames written: %d\n", res.Written)
	fmt.Fprintf(w, "Frames skipped: %d\n", res.Skipped)
	if res.Failed > 0 {
		fmt.Fprintf(w, "Write failures: %d\n", res.Failed)
	}
	fmt.Fprintf(w, "Elapsed:        %s\n", res.Elapsed.Round(time.Millisecond))
}
