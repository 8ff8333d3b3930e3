package render

import (
	"image/color"
)

// grayR is a reversed grayscale ramp: index 0 is white and the last index
// is black, so low ground renders light and peaks render dark.
type grayR int

// Colors implements palette.Palette.
func (n grayR) Colors() []color.Color {
	c := make([]color.Color, int(n))
	last := float64(n - 1)
	for i := range c {
		y := uint8(255 - int(255*float64(i)/last+0.5))
		c[i] = color.Gray{Y: y}
	}
	return c
}

// gifPalette is the 256-level gray palette used to quantize GIF frames.
func gifPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}
