package render

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/seedterrain/internal/fsutil"
	"github.com/banshee-data/seedterrain/internal/monitoring"
	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/timeutil"
)

// StampLayout formats run timestamps in directory and file names.
const StampLayout = "2006-01-02_15-04-05"

// RunDir returns the output directory for a run started at t.
func RunDir(root string, t time.Time) string {
	return filepath.Join(root, "seed_"+t.Format(StampLayout))
}

// GIFName returns the animation file name for a run started at t.
func GIFName(t time.Time) string {
	return "animation_" + t.Format(StampLayout) + ".gif"
}

// FrameName returns the image file name for frame index i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%04d.png", i)
}

// Options configures a Renderer.
type Options struct {
	// Dir receives frame images. It is created if missing.
	Dir   string
	Style Style
	FS    fsutil.FileSystem
	Clock timeutil.Clock
	// Metrics may be nil.
	Metrics *monitoring.RunMetrics
	// KeepImages retains every rendered image for GIF assembly and preview.
	KeepImages bool
}

// Renderer is a pipeline.Sink writing one PNG per frame.
type Renderer struct {
	opts   Options
	paths  []string
	images []image.Image
}

// NewRenderer prepares the output directory.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("render: output directory is required")
	}
	if err := opts.Style.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	if err := opts.FS.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", opts.Dir, err)
	}
	return &Renderer{opts: opts}, nil
}

// Consume draws f and writes it as Dir/frame_NNNN.png.
func (r *Renderer) Consume(_ context.Context, f pipeline.Frame) error {
	start := r.opts.Clock.Now()
	canvas, err := Draw(f, r.opts.Style)
	if err != nil {
		return err
	}

	path := filepath.Join(r.opts.Dir, FrameName(f.Index))
	w, err := r.opts.FS.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.paths = append(r.paths, path)
	if r.opts.KeepImages {
		r.images = append(r.images, canvas.Image())
	}
	r.opts.Metrics.ObserveRender(r.opts.Clock.Since(start))
	return nil
}

// Paths returns the written frame files in order.
func (r *Renderer) Paths() []string { return r.paths }

// Images returns the retained frame images in order. It is empty unless
// KeepImages was set.
func (r *Renderer) Images() []image.Image { return r.images }

// Dir returns the output directory.
func (r *Renderer) Dir() string { return r.opts.Dir }
