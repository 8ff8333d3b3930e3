// Package report writes an HTML summary of a terrain run: the sensor values
// behind every frame, each frame's seed, and how much relief it ended up with.
package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/seedterrain/internal/fsutil"
	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/telemetry"
)

// Entry summarizes one frame.
type Entry struct {
	Index int
	Kind  pipeline.Kind
	Title string
	Row   telemetry.Row
	Seed  uint32
	// Mean and StdDev describe the normalized field.
	Mean   float64
	StdDev float64
}

// Collector is a pipeline.Sink that records an Entry per frame.
type Collector struct {
	entries []Entry
}

// Consume records f.
func (c *Collector) Consume(_ context.Context, f pipeline.Frame) error {
	e := Entry{
		Index: f.Index,
		Kind:  f.Kind,
		Title: f.Title(),
		Row:   f.Row,
		Seed:  f.Seed,
	}
	if f.Field != nil {
		e.Mean, e.StdDev = stat.MeanStdDev(f.Field.Values(), nil)
	}
	c.entries = append(c.entries, e)
	return nil
}

// Entries returns the recorded entries in frame order.
func (c *Collector) Entries() []Entry { return c.entries }

// Options controls page text and asset location.
type Options struct {
	Title    string
	Subtitle string
	// AssetsHost overrides where the echarts scripts are loaded from.
	AssetsHost string
}

// Render writes the report page to w.
func Render(w io.Writer, entries []Entry, o Options) error {
	if len(entries) == 0 {
		return fmt.Errorf("report: no frames recorded")
	}
	if o.Title == "" {
		o.Title = "Terrain run"
	}

	x := make([]string, len(entries))
	series := map[telemetry.Field][]opts.LineData{}
	seeds := make([]opts.BarData, len(entries))
	means := make([]opts.LineData, len(entries))
	spreads := make([]opts.LineData, len(entries))
	for i, e := range entries {
		x[i] = strconv.Itoa(e.Index)
		for _, f := range []telemetry.Field{telemetry.Altitude, telemetry.Ax, telemetry.Ay, telemetry.Az} {
			series[f] = append(series[f], opts.LineData{Value: e.Row.Get(f), Name: e.Title})
		}
		seeds[i] = opts.BarData{Value: e.Seed, Name: string(e.Kind)}
		means[i] = opts.LineData{Value: e.Mean}
		spreads[i] = opts.LineData{Value: e.StdDev}
	}

	init := opts.Initialization{PageTitle: o.Title, Width: "100%", Height: "420px", AssetsHost: o.AssetsHost}
	tooltip := charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"})

	sensors := charts.NewLine()
	sensors.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: "Sensor series", Subtitle: o.Subtitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		tooltip,
	)
	sensors.SetXAxis(x)
	for _, f := range []telemetry.Field{telemetry.Altitude, telemetry.Ax, telemetry.Ay, telemetry.Az} {
		sensors.AddSeries(string(f), series[f])
	}

	relief := charts.NewLine()
	relief.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: "Field relief", Subtitle: "mean and standard deviation of normalized height"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
		tooltip,
	)
	relief.SetXAxis(x).
		AddSeries("mean", means).
		AddSeries("stddev", spreads)

	seedBar := charts.NewBar()
	seedBar.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: "Frame seeds"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		tooltip,
	)
	seedBar.SetXAxis(x).AddSeries("seed", seeds)

	page := components.NewPage().SetPageTitle(o.Title)
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}
	page.AddCharts(sensors, relief, seedBar)
	return page.Render(w)
}

// Write renders the report and stores it at path.
func Write(fsys fsutil.FileSystem, path string, entries []Entry, o Options) error {
	var buf bytes.Buffer
	if err := Render(&buf, entries, o); err != nil {
		return err
	}
	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
