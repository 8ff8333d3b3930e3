package monitoring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMetrics_ObserveFrame(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRunMetrics(reg)
	require.NoError(t, err)

	m.ObserveFrame(KindReal, "hills", 20*time.Millisecond)
	m.ObserveFrame(KindReal, "hills", 30*time.Millisecond)
	m.ObserveFrame(KindInterpolated, "hills", 25*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Frames.WithLabelValues(KindReal, "hills")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Frames.WithLabelValues(KindInterpolated, "hills")))

	count, err := testutil.GatherAndCount(reg, "terrain_synthesis_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunMetrics_Fallbacks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRunMetrics(reg)
	require.NoError(t, err)

	m.ObserveFallback("degenerate-geometry")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("degenerate-geometry")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("interpolation-failure")))
}

func TestRunMetrics_ReRegisterReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRunMetrics(reg)
	require.NoError(t, err)
	second, err := NewRunMetrics(reg)
	require.NoError(t, err)

	first.ObserveFallback("degenerate-geometry")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.Fallbacks.WithLabelValues("degenerate-geometry")))
}

func TestRunMetrics_NilIsNoop(t *testing.T) {
	var m *RunMetrics
	m.ObserveFrame(KindReal, "dome", time.Second)
	m.ObserveRender(time.Second)
	m.ObserveFallback("x")
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestRunMetrics_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRunMetrics(reg)
	require.NoError(t, err)
	m.ObserveFrame(KindScattered, "scattered", 100*time.Millisecond)
	m.ObserveRender(50 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "terrain.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	for _, name := range []string{
		"terrain_frames_total",
		"terrain_synthesis_duration_seconds",
		"terrain_render_duration_seconds",
	} {
		assert.True(t, strings.Contains(body, name), "expected %q in textfile", name)
	}
}
