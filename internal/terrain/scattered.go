package terrain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/seedterrain/internal/telemetry"
)

// Fallback names the recovery path scattered synthesis took, if any.
type Fallback string

const (
	FallbackNone          Fallback = ""
	FallbackDegenerate    Fallback = "degenerate-geometry"
	FallbackInterpolation Fallback = "interpolation-failure"
)

const (
	// minScatterPoints is the smallest number of distinct positions that
	// still gets a reconstructed surface.
	minScatterPoints = 4
	// flatSpan is the lat/lon spread below which positions count as one point.
	flatSpan = 1e-4
	// maxScatterPoints bounds the interpolation system size. Sampling costs
	// one exp per grid cell per point: 800x800 cells at the cap is about
	// 2.6e8 kernel evaluations, a few seconds of CPU.
	maxScatterPoints = 400
	// bumpWidth is 2σ² of the synthetic fallback bump.
	bumpWidth = 0.01
	// bumpExtent is the half-width, in degrees, of the fallback grid.
	bumpExtent = 1.0
	// rbfRidge regularizes the kernel matrix diagonal.
	rbfRidge = 1e-9
)

// ErrNoRows is returned when scattered synthesis is given an empty sequence.
var ErrNoRows = errors.New("no rows to interpolate")

// ScatterResult is the outcome of scattered synthesis.
type ScatterResult struct {
	// Field is normalized, contrast shaped and textured.
	Field *Field
	// Raw is the surface before normalization.
	Raw *Field
	// Fallback is set when a synthetic bump replaced the reconstruction.
	Fallback Fallback
	// Cause holds the interpolation error behind FallbackInterpolation.
	Cause error
}

// TransformAltitudes exaggerates relief before interpolation: altitudes are
// shifted to start at zero and amplified 5x, accelerometer magnitude adds
// local roughness, and a signed 1.2 power stretches small differences.
func TransformAltitudes(rows []telemetry.Row) []float64 {
	if len(rows) == 0 {
		return nil
	}
	alt := make([]float64, len(rows))
	mag := make([]float64, len(rows))
	for i, r := range rows {
		alt[i] = r.Altitude
		mag[i] = math.Sqrt(r.Ax*r.Ax + r.Ay*r.Ay + r.Az*r.Az)
	}
	altMin := floats.Min(alt)
	magMean := stat.Mean(mag, nil)

	out := make([]float64, len(rows))
	for i := range rows {
		v := (alt[i]-altMin)*5.0 + 0.5*(mag[i]-magMean)
		out[i] = math.Copysign(math.Pow(math.Abs(v), 1.2), v)
	}
	return out
}

type scatterPoint struct {
	lon, lat, z float64
}

// Scattered reconstructs one surface from every row's position and
// transformed altitude. Too few distinct positions, or a failed solve, fall
// back to a single bump centred on the first row; neither is an error.
func Scattered(p Params, s Stream, rows []telemetry.Row) (ScatterResult, error) {
	if err := p.Validate(); err != nil {
		return ScatterResult{}, err
	}
	if len(rows) == 0 {
		return ScatterResult{}, ErrNoRows
	}

	z := TransformAltitudes(rows)
	pts := distinctPoints(rows, z)

	var res ScatterResult
	if len(rows) < minScatterPoints || len(pts) < minScatterPoints || isFlat(rows) {
		res.Fallback = FallbackDegenerate
		res.Raw = Bump(p, rows[0].Longitude, rows[0].Latitude, z[0])
	} else {
		raw, err := interpolateRBF(p, pts)
		if err != nil {
			res.Fallback = FallbackInterpolation
			res.Cause = err
			res.Raw = Bump(p, rows[0].Longitude, rows[0].Latitude, z[0])
		} else {
			res.Raw = raw
		}
	}

	f := Normalize(res.Raw.Clone(), p.Contrast)
	noise := make([]float64, len(f.Values()))
	s.FillNormal(noise)
	data := f.Values()
	for i := range data {
		data[i] = Clamp01(data[i] + p.NoiseLevel*noise[i])
	}
	res.Field = f
	return res, nil
}

// Bump builds the synthetic fallback surface: exp(-d²/0.01)*amp on a grid of
// ±1 degree around (lon, lat).
func Bump(p Params, lon, lat, amp float64) *Field {
	f := NewFieldOver(
		Linspace(p.Width, lon-bumpExtent, lon+bumpExtent),
		Linspace(p.Height, lat-bumpExtent, lat+bumpExtent),
	)
	sigma := math.Sqrt(bumpWidth / 2)
	f.addGaussian(lon, lat, amp, sigma, sigma, 0)
	return f
}

func isFlat(rows []telemetry.Row) bool {
	lat := make([]float64, len(rows))
	lon := make([]float64, len(rows))
	for i, r := range rows {
		lat[i] = r.Latitude
		lon[i] = r.Longitude
	}
	return floats.Max(lat)-floats.Min(lat) < flatSpan || floats.Max(lon)-floats.Min(lon) < flatSpan
}

// distinctPoints merges rows sharing a position, averaging their heights,
// and thins the set evenly when it exceeds maxScatterPoints.
func distinctPoints(rows []telemetry.Row, z []float64) []scatterPoint {
	type key struct{ lon, lat float64 }
	sums := make(map[key]*scatterPoint)
	counts := make(map[key]int)
	var order []key
	for i, r := range rows {
		k := key{r.Longitude, r.Latitude}
		if _, ok := sums[k]; !ok {
			sums[k] = &scatterPoint{lon: r.Longitude, lat: r.Latitude}
			order = append(order, k)
		}
		sums[k].z += z[i]
		counts[k]++
	}

	stride := 1
	if len(order) > maxScatterPoints {
		stride = int(math.Ceil(float64(len(order)) / maxScatterPoints))
	}
	pts := make([]scatterPoint, 0, len(order)/stride+1)
	for i := 0; i < len(order); i += stride {
		k := order[i]
		pt := *sums[k]
		pt.z /= float64(counts[k])
		pts = append(pts, pt)
	}
	return pts
}

// interpolateRBF fits a Gaussian radial basis function through pts in
// bounding-box-normalized coordinates and samples it on the W×H grid.
func interpolateRBF(p Params, pts []scatterPoint) (*Field, error) {
	n := len(pts)
	lons := make([]float64, n)
	lats := make([]float64, n)
	for i, pt := range pts {
		lons[i] = pt.lon
		lats[i] = pt.lat
	}
	lonMin, lonMax := floats.Min(lons), floats.Max(lons)
	latMin, latMax := floats.Min(lats), floats.Max(lats)
	lonSpan, latSpan := lonMax-lonMin, latMax-latMin

	u := make([]float64, n)
	v := make([]float64, n)
	for i := range pts {
		u[i] = (lons[i] - lonMin) / lonSpan
		v[i] = (lats[i] - latMin) / latSpan
	}

	// Shape parameter tracks the mean spacing of n points in the unit square.
	eps := 1.5 / math.Sqrt(float64(n))
	kernel := func(d2 float64) float64 { return math.Exp(-d2 / (eps * eps)) }

	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			du, dv := u[i]-u[j], v[i]-v[j]
			k := kernel(du*du + dv*dv)
			if i == j {
				k += rbfRidge
			}
			a.SetSym(i, j, k)
		}
	}
	b := mat.NewVecDense(n, nil)
	for i, pt := range pts {
		b.SetVec(i, pt.z)
	}

	var chol mat.Cholesky
	var w mat.VecDense
	if ok := chol.Factorize(a); ok {
		if err := chol.SolveVecTo(&w, b); err != nil {
			return nil, fmt.Errorf("rbf solve: %w", err)
		}
	} else if err := w.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("rbf solve: %w", err)
	}

	f := NewFieldOver(Linspace(p.Width, lonMin, lonMax), Linspace(p.Height, latMin, latMax))
	data := f.Values()
	width := f.Width()
	weights := w.RawVector().Data
	for i, lat := range f.Y {
		gv := (lat - latMin) / latSpan
		for j, lon := range f.X {
			gu := (lon - lonMin) / lonSpan
			var sum float64
			for k := range pts {
				du, dv := gu-u[k], gv-v[k]
				sum += weights[k] * kernel(du*du+dv*dv)
			}
			data[i*width+j] = sum
		}
	}
	return f, nil
}
