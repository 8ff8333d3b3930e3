package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seedterrain/internal/telemetry"
)

var scenarioRows = []telemetry.Row{
	{Latitude: 1, Longitude: 2, Altitude: 3, Ax: 0.1, Ay: 0.2, Az: 0.3},
	{Latitude: 1, Longitude: 2, Altitude: 4, Ax: 0.4, Ay: 0.1, Az: 0.2},
}

func TestPlan_Scenario(t *testing.T) {
	steps := Plan(scenarioRows, 1)
	require.Len(t, steps, 3)

	want := []Step{
		{Index: 0, Kind: KindReal, Source: 0, Next: 0, Row: scenarioRows[0]},
		{Index: 1, Kind: KindInterpolated, Source: 0, Next: 1, T: 0.5, Row: telemetry.Interpolate(scenarioRows[0], scenarioRows[1], 0.5)},
		{Index: 2, Kind: KindReal, Source: 1, Next: 1, Row: scenarioRows[1]},
	}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Errorf("Plan mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 3.5, steps[1].Row.Altitude, 1e-12)
	assert.True(t, steps[1].Interpolated())
	assert.False(t, steps[0].Interpolated())
}

func TestPlan_Fractions(t *testing.T) {
	rows := []telemetry.Row{{Altitude: 0}, {Altitude: 4}, {Altitude: 8}}
	steps := Plan(rows, 3)
	require.Len(t, steps, FrameCount(3, 3))

	var ts []float64
	for _, s := range steps[:5] {
		ts = append(ts, s.T)
	}
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 0}, ts)
	assert.Equal(t, 2, steps[len(steps)-1].Source)
	for i, s := range steps {
		assert.Equal(t, i, s.Index)
	}
}

func TestPlan_EdgeCases(t *testing.T) {
	assert.Nil(t, Plan(nil, 3))
	assert.Len(t, Plan(scenarioRows, 0), 2)
	assert.Len(t, Plan(scenarioRows, -2), 2)
	assert.Len(t, Plan(scenarioRows[:1], 5), 1)
}

func TestFrameCount(t *testing.T) {
	tests := []struct{ n, k, want int }{
		{0, 5, 0},
		{1, 5, 1},
		{2, 1, 3},
		{10, 4, 46},
		{3, -1, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FrameCount(tt.n, tt.k), "n=%d k=%d", tt.n, tt.k)
	}
}

func TestParseSeedPolicy(t *testing.T) {
	p, err := ParseSeedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PerRow, p)

	p, err = ParseSeedPolicy("Fixed")
	require.NoError(t, err)
	assert.Equal(t, Fixed, p)

	_, err = ParseSeedPolicy("random")
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	steps := Plan(scenarioRows, 1)
	assert.Equal(t, "Row 1 | Alt: 3.0m | Accel: (0.10, 0.20, 0.30)", title(steps[0]))
	assert.Equal(t, "Row 1→2 (50%) | Alt: 3.5m | Accel: (0.25, 0.15, 0.25)", title(steps[1]))
	assert.Equal(t, "Row 2 | Alt: 4.0m | Accel: (0.40, 0.10, 0.20)", title(steps[2]))
	assert.Equal(t, "Scattered surface (2 rows)", title(Step{Kind: KindScattered, Next: 1}))
}
