package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field is a dense H×W height grid together with the coordinates it was
// sampled on. Row i of Z lies at Y[i]; column j lies at X[j].
type Field struct {
	X []float64
	Y []float64
	Z *mat.Dense
}

// Linspace returns n evenly spaced samples over [lo, hi].
func Linspace(n int, lo, hi float64) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// NewField allocates a zero field over the unit square with w columns and
// h rows.
func NewField(w, h int) *Field {
	return NewFieldOver(Linspace(w, 0, 1), Linspace(h, 0, 1))
}

// NewFieldOver allocates a zero field over explicit axes.
func NewFieldOver(xs, ys []float64) *Field {
	if len(xs) == 0 || len(ys) == 0 {
		panic(fmt.Sprintf("terrain: empty field axes (%d×%d)", len(xs), len(ys)))
	}
	return &Field{X: xs, Y: ys, Z: mat.NewDense(len(ys), len(xs), nil)}
}

// Width returns the number of columns.
func (f *Field) Width() int { return len(f.X) }

// Height returns the number of rows.
func (f *Field) Height() int { return len(f.Y) }

// Values exposes the backing row-major slice. Mutating it mutates the field.
func (f *Field) Values() []float64 {
	return f.Z.RawMatrix().Data
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	return &Field{
		X: append([]float64(nil), f.X...),
		Y: append([]float64(nil), f.Y...),
		Z: mat.DenseCopyOf(f.Z),
	}
}

// Dims returns the number of columns and rows.
func (f *Field) Dims() (c, r int) { return len(f.X), len(f.Y) }

// At returns the height at column c, row r.
func (f *Field) At(c, r int) float64 { return f.Z.At(r, c) }

// Min returns the smallest height in the field.
func (f *Field) Min() float64 { return mat.Min(f.Z) }

// Max returns the largest height in the field.
func (f *Field) Max() float64 { return mat.Max(f.Z) }

// Grid adapts a Field to gonum/plot's plotter.GridXYZ interface. Min and Max
// are promoted from Field so contour plots skip their own range scan.
type Grid struct{ *Field }

// Z returns the height at column c, row r.
func (g Grid) Z(c, r int) float64 { return g.Field.Z.At(r, c) }

// X returns the x coordinate of column c.
func (g Grid) X(c int) float64 { return g.Field.X[c] }

// Y returns the y coordinate of row r.
func (g Grid) Y(r int) float64 { return g.Field.Y[r] }

// addGaussian adds amp*exp(-(dx²/(2σx²) + dy²/(2σy²))) to every cell, where
// (dx, dy) is the offset from (cx, cy) rotated by theta.
func (f *Field) addGaussian(cx, cy, amp, sigmaX, sigmaY, theta float64) {
	data := f.Values()
	w := f.Width()
	ax := 2 * sigmaX * sigmaX
	ay := 2 * sigmaY * sigmaY
	if theta == 0 {
		for i, y := range f.Y {
			dy := y - cy
			row := data[i*w : (i+1)*w]
			for j, x := range f.X {
				dx := x - cx
				row[j] += amp * math.Exp(-(dx*dx/ax + dy*dy/ay))
			}
		}
		return
	}
	sin, cos := math.Sincos(theta)
	for i, y := range f.Y {
		dy := y - cy
		row := data[i*w : (i+1)*w]
		for j, x := range f.X {
			dx := x - cx
			xr := dx*cos - dy*sin
			yr := dx*sin + dy*cos
			row[j] += amp * math.Exp(-(xr*xr/ax + yr*yr/ay))
		}
	}
}
