// Package render draws terrain frames as annotated grayscale images and
// assembles them into a looping GIF.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/terrain"
)

// Style controls how a single frame is drawn.
type Style struct {
	// SizeInches is the edge length of the square figure.
	SizeInches float64
	DPI        int
	// ContourLevels is the number of contour lines evenly spaced over
	// [0,1], endpoints included. Zero disables contours.
	ContourLevels int
}

// DefaultStyle matches the stock figure: 6 inches at 150 dpi with 18
// contour levels.
func DefaultStyle() Style {
	return Style{SizeInches: 6, DPI: 150, ContourLevels: 18}
}

// Validate checks the style describes a drawable figure.
func (s Style) Validate() error {
	if s.SizeInches <= 0 {
		return fmt.Errorf("figure size must be positive, got %g", s.SizeInches)
	}
	if s.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", s.DPI)
	}
	if s.ContourLevels < 0 {
		return fmt.Errorf("contour levels must be non-negative, got %d", s.ContourLevels)
	}
	return nil
}

const (
	titleSize    = 7
	contourWidth = 0.6
	heatLevels   = 256
)

// Draw renders f onto a new raster canvas: the field as a gray_r heat map
// with black contour lines, the frame title above, and no axes.
func Draw(f pipeline.Frame, s Style) (*vgimg.Canvas, error) {
	if f.Field == nil {
		return nil, fmt.Errorf("frame %d has no field", f.Index)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.HideAxes()
	p.Title.Text = f.Title()
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)

	grid := terrain.Grid{Field: f.Field}
	hm := plotter.NewHeatMap(grid, grayR(heatLevels))
	hm.Min, hm.Max = 0, 1
	hm.Rasterized = true
	p.Add(hm)

	if s.ContourLevels > 0 {
		c := plotter.NewContour(grid, terrain.Linspace(s.ContourLevels, 0, 1), nil)
		c.Min, c.Max = 0, 1
		c.LineStyles = []draw.LineStyle{{Color: color.Black, Width: vg.Points(contourWidth)}}
		p.Add(c)
	}

	size := vg.Length(s.SizeInches) * vg.Inch
	canvas := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(s.DPI))
	p.Draw(draw.New(canvas))
	return canvas, nil
}
