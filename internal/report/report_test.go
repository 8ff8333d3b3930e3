package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/seedterrain/internal/fsutil"
	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/telemetry"
	"github.com/banshee-data/seedterrain/internal/terrain"
)

func collect(t *testing.T) []Entry {
	t.Helper()
	rows := []telemetry.Row{
		{Latitude: 1, Longitude: 2, Altitude: 3, Ax: 0.1, Ay: 0.2, Az: 0.3},
		{Latitude: 1, Longitude: 2, Altitude: 4, Ax: 0.4, Ay: 0.1, Az: 0.2},
	}
	params := terrain.DefaultParams()
	params.Width, params.Height = 12, 12
	p, err := pipeline.New(pipeline.Options{Params: params, Mode: terrain.ModeHills, InterpFrames: 1})
	require.NoError(t, err)

	c := &Collector{}
	_, err = p.Run(context.Background(), rows, c)
	require.NoError(t, err)
	return c.Entries()
}

func TestCollector(t *testing.T) {
	entries := collect(t)
	require.Len(t, entries, 3)

	assert.Equal(t, pipeline.KindInterpolated, entries[1].Kind)
	assert.Equal(t, 3.5, entries[1].Row.Altitude)
	assert.True(t, strings.HasPrefix(entries[1].Title, "Row 1→2 (50%)"))
	for _, e := range entries {
		assert.Equal(t, terrain.RowSeed(e.Row), e.Seed)
		assert.Greater(t, e.Mean, 0.0)
		assert.Less(t, e.Mean, 1.0)
		assert.Greater(t, e.StdDev, 0.0)
	}
}

func TestCollector_NilField(t *testing.T) {
	c := &Collector{}
	require.NoError(t, c.Consume(context.Background(), pipeline.Frame{Step: pipeline.Step{Index: 4}}))
	require.Len(t, c.Entries(), 1)
	assert.Equal(t, 0.0, c.Entries()[0].Mean)
}

func TestRender(t *testing.T) {
	entries := collect(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, entries, Options{Title: "Run 42", Subtitle: "sensor.csv"}))

	html := buf.String()
	for _, want := range []string{"Run 42", "Sensor series", "Field relief", "Frame seeds", "Altitud", "Az", "sensor.csv"} {
		assert.Contains(t, html, want)
	}
}

func TestRender_NoEntries(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, Options{}))
}

func TestWrite(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/run", 0755))
	require.NoError(t, Write(mfs, "/run/report.html", collect(t), Options{AssetsHost: "/assets/"}))

	data, err := mfs.ReadFile("/run/report.html")
	require.NoError(t, err)
	assert.Contains(t, string(data), "/assets/")
	assert.Contains(t, string(data), "Terrain run")

	assert.Error(t, Write(mfs, "/missing/report.html", collect(t), Options{}))
}
