package terrain

import (
	"fmt"
	"strings"
)

// Mode selects the synthesis algorithm.
type Mode string

const (
	// ModeHills superposes randomly placed Gaussian hills.
	ModeHills Mode = "hills"
	// ModeSensor biases hill placement, amplitude and noise by the row's
	// normalized sensor values and adds an accelerometer gradient.
	ModeSensor Mode = "sensor"
	// ModeDome draws one rotated anisotropic Gaussian per row with no
	// randomness.
	ModeDome Mode = "dome"
	// ModeAmbient is ModeHills seeded from the wall clock.
	ModeAmbient Mode = "ambient"
	// ModeScattered reconstructs one surface from all rows' positions.
	ModeScattered Mode = "scattered"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeHills, ModeSensor, ModeDome, ModeAmbient, ModeScattered}

// ParseMode resolves a mode name. A few descriptive aliases are accepted.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hills", "multi-hill", "random", "":
		return ModeHills, nil
	case "sensor", "sensor-biased", "dynamic":
		return ModeSensor, nil
	case "dome", "anisotropic", "no-random":
		return ModeDome, nil
	case "ambient", "time", "freeform":
		return ModeAmbient, nil
	case "scattered", "griddata", "interpolated":
		return ModeScattered, nil
	}
	return "", fmt.Errorf("unknown synthesis mode %q", s)
}

// PerRow reports whether the mode produces one frame per row. Scattered
// synthesis consumes the whole sequence at once.
func (m Mode) PerRow() bool {
	return m != ModeScattered
}

// ShapesContrast reports whether contrast shaping applies after
// normalization. The dome keeps its natural falloff.
func (m Mode) ShapesContrast() bool {
	return m != ModeDome
}

// Params carries every tunable of synthesis and normalization.
type Params struct {
	Width  int
	Height int

	Hills    int
	SigmaMin float64
	SigmaMax float64

	Contrast float64

	// NoiseLevel is the noise standard deviation for hills, ambient and
	// scattered synthesis. Sensor mode derives its own level from Az.
	NoiseLevel float64

	// GradientStrength scales the accelerometer tilt in sensor mode.
	GradientStrength float64
}

// DefaultParams returns the stock landscape settings.
func DefaultParams() Params {
	return Params{
		Width:            800,
		Height:           800,
		Hills:            35,
		SigmaMin:         0.03,
		SigmaMax:         0.25,
		Contrast:         1.2,
		NoiseLevel:       0.08,
		GradientStrength: 0.3,
	}
}

// Validate checks that the parameters describe a drawable field.
func (p Params) Validate() error {
	if p.Width < 2 || p.Height < 2 {
		return fmt.Errorf("grid must be at least 2x2, got %dx%d", p.Width, p.Height)
	}
	if p.Hills < 0 {
		return fmt.Errorf("hill count must be non-negative, got %d", p.Hills)
	}
	if p.SigmaMin <= 0 || p.SigmaMax < p.SigmaMin {
		return fmt.Errorf("sigma range must satisfy 0 < min <= max, got [%g, %g]", p.SigmaMin, p.SigmaMax)
	}
	if p.Contrast <= 0 {
		return fmt.Errorf("contrast must be positive, got %g", p.Contrast)
	}
	if p.NoiseLevel < 0 {
		return fmt.Errorf("noise level must be non-negative, got %g", p.NoiseLevel)
	}
	return nil
}
