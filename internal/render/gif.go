package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"math"

	"github.com/disintegration/imaging"

	"github.com/banshee-data/seedterrain/internal/fsutil"
)

// ErrNoFrames is returned when an animation is requested without frames.
var ErrNoFrames = errors.New("no frames to animate")

// GIFOptions controls animation assembly.
type GIFOptions struct {
	FPS int
	// Width scales frames down to this many pixels wide, keeping aspect.
	// Zero or a width at least as large as the frames keeps them as is.
	Width int
}

// FrameDelay converts a frame rate to a GIF delay in hundredths of a second.
func FrameDelay(fps int) int {
	if fps <= 0 {
		return 0
	}
	d := int(math.Round(100 / float64(fps)))
	if d < 1 {
		d = 1
	}
	return d
}

// WriteGIF encodes frames as an infinitely looping GIF at path.
func WriteGIF(fsys fsutil.FileSystem, path string, frames []image.Image, opts GIFOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}

	delay := FrameDelay(opts.FPS)
	pal := gifPalette()
	anim := &gif.GIF{LoopCount: 0}
	for _, img := range frames {
		if opts.Width > 0 && img.Bounds().Dx() > opts.Width {
			img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
		}
		b := img.Bounds()
		pm := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
		draw.Draw(pm, pm.Bounds(), img, b.Min, draw.Src)
		anim.Image = append(anim.Image, pm)
		anim.Delay = append(anim.Delay, delay)
	}

	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		w.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
