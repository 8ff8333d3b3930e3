package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/seedterrain/internal/telemetry"
)

// Hill describes one isotropic Gaussian bump. Hills are drawn per frame and
// discarded once added to the field.
type Hill struct {
	CenterX   float64
	CenterY   float64
	Amplitude float64
	Sigma     float64
}

// drawHill consumes exactly five draws: centre x, centre y, two amplitude
// factors, then sigma. The amplitude product skews magnitude toward zero while
// keeping the sign symmetric.
func drawHill(s Stream, sigmaMin, sigmaMax float64) Hill {
	cx := s.Float64()
	cy := s.Float64()
	sign := s.Uniform(-1, 1)
	mag := s.Uniform(0.4, 1)
	sigma := s.Uniform(sigmaMin, sigmaMax)
	return Hill{CenterX: cx, CenterY: cy, Amplitude: sign * mag, Sigma: sigma}
}

// DrawHills draws p.Hills hills from s.
func DrawHills(p Params, s Stream) []Hill {
	hills := make([]Hill, p.Hills)
	for i := range hills {
		hills[i] = drawHill(s, p.SigmaMin, p.SigmaMax)
	}
	return hills
}

// addNoise adds level * N(0,1) to every cell in row-major order. The draws
// are taken even at level 0 so the stream position does not depend on it.
func addNoise(f *Field, s Stream, level float64) {
	noise := make([]float64, len(f.Values()))
	s.FillNormal(noise)
	if level == 0 {
		return
	}
	floats.AddScaled(f.Values(), level, noise)
}

// HillField superposes p.Hills random hills and texture noise.
func HillField(p Params, s Stream) *Field {
	f := NewField(p.Width, p.Height)
	for _, h := range DrawHills(p, s) {
		f.addGaussian(h.CenterX, h.CenterY, h.Amplitude, h.Sigma, h.Sigma, 0)
	}
	addNoise(f, s, p.NoiseLevel)
	return f
}

// SensorField is HillField steered by one row's normalized sensor values:
// Ax/Ay tilt the base plane and pull hill centres, Az and altitude scale hill
// amplitude, altitude shifts the whole field, and Az sets the noise level.
func SensorField(p Params, s Stream, row telemetry.Row, stats telemetry.Stats) *Field {
	n := stats.NormalizeRow(row)
	axScaled := (n.Ax - 0.5) * 2
	ayScaled := (n.Ay - 0.5) * 2

	f := NewField(p.Width, p.Height)
	data := f.Values()
	w := f.Width()
	for i, y := range f.Y {
		for j, x := range f.X {
			data[i*w+j] += p.GradientStrength * (axScaled*x + ayScaled*y)
		}
	}

	azIntensity := 0.3 + n.Az*1.2
	altScale := 0.7 + n.Altitude*0.6
	for k := 0; k < p.Hills; k++ {
		cx := s.Float64()*0.6 + n.Ax*0.4
		cy := s.Float64()*0.6 + n.Ay*0.4
		sign := s.Uniform(-1, 1)
		mag := s.Uniform(0.4, 1)
		amp := sign * mag * azIntensity * altScale
		sigma := s.Uniform(p.SigmaMin, p.SigmaMax)
		f.addGaussian(cx, cy, amp, sigma, sigma, 0)
	}

	floats.AddConst((n.Altitude-0.5)*0.4, data)
	addNoise(f, s, 0.05+n.Az*0.06)
	return f
}

// DomeField draws a single rotated anisotropic Gaussian whose centre,
// amplitude, widths and tilt come straight from the row's normalized values.
// It takes no random draws.
func DomeField(p Params, row telemetry.Row, stats telemetry.Stats) *Field {
	n := stats.NormalizeRow(row)
	amp := (n.Altitude - 0.5) * 2
	sigmaX := 0.05 + 0.2*n.Ax
	sigmaY := 0.05 + 0.2*n.Ay
	tilt := (n.Az - 0.5) * math.Pi

	f := NewField(p.Width, p.Height)
	f.addGaussian(n.Latitude, n.Longitude, amp, sigmaX, sigmaY, tilt)
	return f
}

// Synthesize builds the raw, unnormalized field for one row.
func Synthesize(p Params, mode Mode, s Stream, row telemetry.Row, stats telemetry.Stats) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	switch mode {
	case ModeHills, ModeAmbient:
		return HillField(p, s), nil
	case ModeSensor:
		return SensorField(p, s, row, stats), nil
	case ModeDome:
		return DomeField(p, row, stats), nil
	case ModeScattered:
		return nil, fmt.Errorf("%s synthesis works on a whole sequence, not a single row", mode)
	}
	return nil, fmt.Errorf("unknown synthesis mode %q", mode)
}

// Build synthesizes and normalizes one row's field. Contrast shaping is
// skipped for modes that do not use it.
func Build(p Params, mode Mode, s Stream, row telemetry.Row, stats telemetry.Stats) (*Field, error) {
	f, err := Synthesize(p, mode, s, row, stats)
	if err != nil {
		return nil, err
	}
	contrast := p.Contrast
	if !mode.ShapesContrast() {
		contrast = 1
	}
	return Normalize(f, contrast), nil
}
