package monitoring

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Frame kinds used as the "kind" label.
const (
	KindReal         = "real"
	KindInterpolated = "interpolated"
	KindScattered    = "scattered"
)

// RunMetrics bundles the Prometheus collectors for one terrain run. A nil
// *RunMetrics is valid and records nothing.
type RunMetrics struct {
	gatherer prometheus.Gatherer

	Frames            *prometheus.CounterVec
	SynthesisDuration *prometheus.HistogramVec
	RenderDuration    prometheus.Histogram
	Fallbacks         *prometheus.CounterVec
}

// NewRunMetrics registers run metrics against reg, defaulting to the global
// registry when nil.
func NewRunMetrics(reg prometheus.Registerer) (*RunMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_frames_total",
		Help: "Frames synthesized, labeled by frame kind and synthesis mode.",
	}, []string{"kind", "mode"}), "terrain_frames_total")
	if err != nil {
		return nil, err
	}

	synth, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terrain_synthesis_duration_seconds",
		Help:    "Time spent synthesizing and normalizing one field.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"mode"}), "terrain_synthesis_duration_seconds")
	if err != nil {
		return nil, err
	}

	render, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "terrain_render_duration_seconds",
		Help:    "Time spent rendering and writing one frame image.",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}), "terrain_render_duration_seconds")
	if err != nil {
		return nil, err
	}

	fallbacks, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "terrain_fallbacks_total",
		Help: "Scattered reconstructions replaced by the synthetic bump, labeled by reason.",
	}, []string{"reason"}), "terrain_fallbacks_total")
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		gatherer:          gatherer,
		Frames:            frames,
		SynthesisDuration: synth,
		RenderDuration:    render,
		Fallbacks:         fallbacks,
	}, nil
}

// ObserveFrame counts one synthesized frame and its synthesis time.
func (m *RunMetrics) ObserveFrame(kind, mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(kind, mode).Inc()
	m.SynthesisDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// ObserveRender records the time taken to render one frame.
func (m *RunMetrics) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(d.Seconds())
}

// ObserveFallback counts one bump substitution.
func (m *RunMetrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(reason).Inc()
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func (m *RunMetrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
