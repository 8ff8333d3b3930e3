// Command terrain turns a telemetry sequence into a series of synthetic
// grayscale terrain frames and a looping GIF.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/banshee-data/seedterrain/internal/fsutil"
	"github.com/banshee-data/seedterrain/internal/monitoring"
	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/preview"
	"github.com/banshee-data/seedterrain/internal/render"
	"github.com/banshee-data/seedterrain/internal/report"
	"github.com/banshee-data/seedterrain/internal/telemetry"
	"github.com/banshee-data/seedterrain/internal/terrain"
	"github.com/banshee-data/seedterrain/internal/timeutil"
	"github.com/banshee-data/seedterrain/internal/version"
)

// app carries the process-level collaborators so tests can swap them.
type app struct {
	out   io.Writer
	clock timeutil.Clock
	fs    fsutil.FileSystem
	// interactive enables the progress bar and the preview prompt.
	interactive bool
	// confirm asks whether to open the preview window.
	confirm func(question string) (bool, error)
	// play opens the preview window.
	play func(title string, frames []image.Image, fps int) error
}

// result is what a completed run produced.
type result struct {
	Dir     string
	Frames  []string
	GIF     string
	Report  string
	Summary pipeline.Summary

	images []image.Image
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		out:         os.Stdout,
		clock:       timeutil.RealClock{},
		fs:          fsutil.OSFileSystem{},
		interactive: true,
		confirm:     confirmPrompt,
		play:        preview.Play,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Printf("terrain: %v", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args, a.out)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(a.out, version.String())
		return nil
	}
	if opts.quiet {
		a.interactive = false
		defer monitoring.Quiet()()
	}

	res, err := a.generate(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote %d frames to %s\n", len(res.Frames), res.Dir)
	fmt.Fprintf(a.out, "Animation: %s\n", res.GIF)
	if res.Report != "" {
		fmt.Fprintf(a.out, "Report: %s\n", res.Report)
	}
	return a.maybePreview(opts, res)
}

// generate loads the rows, runs the pipeline into the renderer and writes
// the GIF and optional report, metrics and traces.
func (a *app) generate(ctx context.Context, opts *cliOptions) (*result, error) {
	cfg := opts.cfg
	rows, err := loadRows(opts)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := monitoring.NewRunMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	if opts.traceOut != "" {
		tf, err := os.Create(opts.traceOut)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace file: %w", err)
		}
		defer tf.Close()
		shutdown, err := monitoring.InitTracing(ctx, monitoring.TracingConfig{Enabled: true, Writer: tf})
		if err != nil {
			return nil, err
		}
		defer monitoring.ShutdownWithTimeout(context.Background(), shutdown)
	}

	p, err := pipeline.New(pipeline.Options{
		Params:       cfg.Params(),
		Mode:         cfg.GetMode(),
		SeedPolicy:   cfg.GetSeedPolicy(),
		InterpFrames: cfg.GetInterpFrames(),
		Clock:        a.clock,
		Metrics:      metrics,
	})
	if err != nil {
		return nil, err
	}

	started := a.clock.Now()
	dir := render.RunDir(cfg.GetOutputRoot(), started)
	renderer, err := render.NewRenderer(render.Options{
		Dir:        dir,
		Style:      cfg.Style(),
		FS:         a.fs,
		Clock:      a.clock,
		Metrics:    metrics,
		KeepImages: true,
	})
	if err != nil {
		return nil, err
	}

	collector := &report.Collector{}
	sinks := []pipeline.Sink{renderer, collector}
	var bar *progressSink
	if a.interactive {
		bar, err = newProgressSink(a.out, p.FrameCount(rows))
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, bar)
	}

	monitoring.Logf("run: mode=%s policy=%s rows=%d frames=%d dir=%s",
		cfg.GetMode(), cfg.GetSeedPolicy(), len(rows), p.FrameCount(rows), dir)
	summary, err := p.Run(ctx, rows, pipeline.Tee(sinks...))
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		return nil, err
	}

	res := &result{Dir: dir, Frames: renderer.Paths(), Summary: summary, images: renderer.Images()}
	res.GIF = filepath.Join(dir, render.GIFName(started))
	if err := render.WriteGIF(a.fs, res.GIF, renderer.Images(), cfg.GIFOptions()); err != nil {
		return nil, err
	}

	if opts.report {
		res.Report = filepath.Join(dir, "report.html")
		err := report.Write(a.fs, res.Report, collector.Entries(), report.Options{
			Title:    "Terrain run " + started.Format(render.StampLayout),
			Subtitle: fmt.Sprintf("mode %s, %d rows, %d frames", cfg.GetMode(), len(rows), summary.Frames),
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.metricsOut != "" {
		if err := metrics.WriteTextfile(opts.metricsOut); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func loadRows(opts *cliOptions) ([]telemetry.Row, error) {
	switch {
	case opts.csvPath != "" && opts.dbPath != "":
		return nil, errors.New("use either -csv or -db, not both")
	case opts.csvPath != "":
		return telemetry.LoadCSV(opts.csvPath)
	case opts.dbPath != "":
		return telemetry.LoadSQLite(opts.dbPath, opts.table)
	case opts.cfg.GetMode() == terrain.ModeAmbient:
		return nil, nil
	}
	return nil, errors.New("an input is required: pass -csv or -db")
}

// maybePreview plays the frames when asked to, prompting first in an
// interactive session.
func (a *app) maybePreview(opts *cliOptions, res *result) error {
	if !opts.preview && !a.interactive {
		return nil
	}
	if !preview.Available() {
		if opts.preview {
			monitoring.Logf("preview skipped: %v", preview.ErrUnavailable)
		}
		return nil
	}
	if !opts.preview {
		ok, err := a.confirm("Preview the animation now?")
		if err != nil || !ok {
			return err
		}
	}
	return a.play(filepath.Base(res.Dir), res.images, opts.cfg.GetFPS())
}
