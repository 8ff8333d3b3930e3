package terrain

import (
	"math"

	"github.com/banshee-data/seedterrain/internal/telemetry"
	"github.com/banshee-data/seedterrain/internal/timeutil"
)

// seedModulus is 2^32-1; seeds therefore land in [0, 2^32-2].
const seedModulus = 1<<32 - 1

// seedScale preserves six decimal places of the summed sensor values.
const seedScale = 1e6

// DeriveSeed sums values in order, scales by 1e6, truncates toward zero and
// reduces modulo 2^32-1. Negative sums wrap to a non-negative seed. A
// non-finite sum yields 0.
func DeriveSeed(values ...float64) uint32 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return reduce(math.Trunc(sum * seedScale))
}

func reduce(n float64) uint32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	m := math.Mod(n, seedModulus)
	if m < 0 {
		m += seedModulus
	}
	return uint32(m)
}

// RowSeed derives the seed for one row from all six fields.
func RowSeed(r telemetry.Row) uint32 {
	return DeriveSeed(r.Values()...)
}

// PositionSeed derives a seed from latitude, longitude and altitude only.
// The fixed-seed policy uses it on the first row of a sequence.
func PositionSeed(r telemetry.Row) uint32 {
	return DeriveSeed(r.Latitude, r.Longitude, r.Altitude)
}

// AmbientSeed derives a seed from the clock's current time in milliseconds.
// It is intentionally not reproducible: every run gets a fresh landscape.
func AmbientSeed(clock timeutil.Clock) uint32 {
	return reduce(float64(clock.Now().UnixMilli()))
}
