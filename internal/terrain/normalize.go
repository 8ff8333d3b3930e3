package terrain

import "math"

// normEpsilon keeps the rescale finite for fields with tiny spread.
const normEpsilon = 1e-12

// Normalize rescales f in place to [0,1] and applies contrast around the
// midpoint: z'' = clamp((z'-0.5)*contrast + 0.5, 0, 1).
//
// Non-finite cells are first replaced by the smallest finite value (0 when
// there is none). A field with no spread maps to 0.5 before contrast.
func Normalize(f *Field, contrast float64) *Field {
	data := f.Values()

	lo, hi := math.Inf(1), math.Inf(-1)
	finite := false
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !finite {
		lo, hi = 0, 0
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = lo
		}
	}

	span := hi - lo
	for i, v := range data {
		z := 0.5
		if span != 0 {
			z = (v - lo) / (span + normEpsilon)
		}
		data[i] = Clamp01((z-0.5)*contrast + 0.5)
	}
	return f
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
