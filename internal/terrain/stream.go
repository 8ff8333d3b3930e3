package terrain

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stream supplies the random draws consumed by synthesis. Implementations must
// be deterministic for a given construction seed and call sequence.
type Stream interface {
	// Float64 returns a uniform draw in [0,1).
	Float64() float64
	// Uniform returns a uniform draw in [a,b).
	Uniform(a, b float64) float64
	// Normal returns a standard normal draw.
	Normal() float64
	// FillNormal fills dst with standard normal draws in index order.
	FillNormal(dst []float64)
}

// RandStream is the PCG-backed Stream used in production.
type RandStream struct {
	seed uint32
	src  *rand.PCG
	rnd  *rand.Rand
}

// NewStream seeds a new stream. Two streams built from the same seed return
// identical sequences for identical call sequences.
func NewStream(seed uint32) *RandStream {
	src := rand.NewPCG(uint64(seed), 0)
	return &RandStream{seed: seed, src: src, rnd: rand.New(src)}
}

// Seed returns the seed the stream was constructed with.
func (s *RandStream) Seed() uint32 { return s.seed }

// Float64 returns a uniform draw in [0,1).
func (s *RandStream) Float64() float64 {
	return s.rnd.Float64()
}

// Uniform returns a uniform draw in [a,b).
func (s *RandStream) Uniform(a, b float64) float64 {
	return distuv.Uniform{Min: a, Max: b, Src: s.src}.Rand()
}

// Normal returns a standard normal draw.
func (s *RandStream) Normal() float64 {
	return distuv.Normal{Mu: 0, Sigma: 1, Src: s.src}.Rand()
}

// FillNormal fills dst with standard normal draws.
func (s *RandStream) FillNormal(dst []float64) {
	for i := range dst {
		dst[i] = s.rnd.NormFloat64()
	}
}
