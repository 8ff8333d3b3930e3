// Package pipeline turns a sequence of sensor rows into an ordered stream of
// normalized terrain frames and hands each one to a Sink.
package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/seedterrain/internal/telemetry"
)

// Kind distinguishes where a frame's row came from.
type Kind string

const (
	KindReal         Kind = "real"
	KindInterpolated Kind = "interpolated"
	KindScattered    Kind = "scattered"
)

// Step is one planned frame: the row to synthesize and where it sits in the
// source sequence. For interpolated steps Row lies T of the way from row
// Source to row Next; for real steps Next == Source and T is 0.
type Step struct {
	Index  int
	Kind   Kind
	Source int
	Next   int
	T      float64
	Row    telemetry.Row
}

// Interpolated reports whether the step's row is synthetic.
func (s Step) Interpolated() bool { return s.Kind == KindInterpolated }

// Plan expands rows into frame steps: row 0, k rows interpolated at
// t = i/(k+1) for i = 1..k, row 1, and so on. The last row has no
// interpolated successors. A negative k is treated as 0.
func Plan(rows []telemetry.Row, k int) []Step {
	if k < 0 {
		k = 0
	}
	if len(rows) == 0 {
		return nil
	}
	steps := make([]Step, 0, FrameCount(len(rows), k))
	for i, row := range rows {
		steps = append(steps, Step{Index: len(steps), Kind: KindReal, Source: i, Next: i, Row: row})
		if i == len(rows)-1 {
			break
		}
		next := rows[i+1]
		for j := 1; j <= k; j++ {
			t := float64(j) / float64(k+1)
			steps = append(steps, Step{
				Index:  len(steps),
				Kind:   KindInterpolated,
				Source: i,
				Next:   i + 1,
				T:      t,
				Row:    telemetry.Interpolate(row, next, t),
			})
		}
	}
	return steps
}

// FrameCount returns the number of frames Plan produces for n rows and k
// interpolated frames per gap.
func FrameCount(n, k int) int {
	if n <= 0 {
		return 0
	}
	if k < 0 {
		k = 0
	}
	return n + (n-1)*k
}

// SeedPolicy controls how random streams are allocated across frames.
type SeedPolicy string

const (
	// PerRow builds a fresh stream for every frame from that frame's row, so
	// each frame is reproducible on its own.
	PerRow SeedPolicy = "per-row"
	// Fixed builds one stream from the first row and threads it through
	// every frame. Output then depends on frame order.
	Fixed SeedPolicy = "fixed"
)

// ParseSeedPolicy resolves a seed policy name.
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "per-row", "perrow", "row", "":
		return PerRow, nil
	case "fixed", "single":
		return Fixed, nil
	}
	return "", fmt.Errorf("unknown seed policy %q", s)
}

func title(s Step) string {
	r := s.Row
	sensors := fmt.Sprintf("Alt: %.1fm | Accel: (%.2f, %.2f, %.2f)", r.Altitude, r.Ax, r.Ay, r.Az)
	switch s.Kind {
	case KindInterpolated:
		return fmt.Sprintf("Row %d→%d (%.0f%%) | %s", s.Source+1, s.Next+1, math.Round(s.T*100), sensors)
	case KindScattered:
		return fmt.Sprintf("Scattered surface (%d rows)", s.Next+1)
	}
	return fmt.Sprintf("Row %d | %s", s.Source+1, sensors)
}
