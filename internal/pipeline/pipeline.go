package pipeline

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/banshee-data/seedterrain/internal/monitoring"
	"github.com/banshee-data/seedterrain/internal/telemetry"
	"github.com/banshee-data/seedterrain/internal/terrain"
	"github.com/banshee-data/seedterrain/internal/timeutil"
)

// Frame is one synthesized, normalized field and the step that produced it.
type Frame struct {
	Step
	// Total is the number of frames in the run.
	Total    int
	Mode     terrain.Mode
	Seed     uint32
	Field    *terrain.Field
	Fallback terrain.Fallback
}

// Title is the caption drawn above the frame.
func (f Frame) Title() string { return title(f.Step) }

// Sink receives frames in order. An error stops the run.
type Sink interface {
	Consume(ctx context.Context, f Frame) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Frame) error

// Consume calls fn.
func (fn SinkFunc) Consume(ctx context.Context, f Frame) error { return fn(ctx, f) }

// Tee returns a Sink that hands every frame to each sink in turn.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, f Frame) error {
		for _, s := range sinks {
			if err := s.Consume(ctx, f); err != nil {
				return err
			}
		}
		return nil
	})
}

// Options configures a Pipeline.
type Options struct {
	Params       terrain.Params
	Mode         terrain.Mode
	SeedPolicy   SeedPolicy
	InterpFrames int

	// Clock feeds ambient seeding and stage timing. Defaults to RealClock.
	Clock timeutil.Clock
	// Metrics may be nil.
	Metrics *monitoring.RunMetrics
}

// Pipeline runs synthesis over a row sequence.
type Pipeline struct {
	opts Options
}

// Summary describes a finished run.
type Summary struct {
	Frames       int
	Interpolated int
	Fallback     terrain.Fallback
}

// New validates opts and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid terrain parameters: %w", err)
	}
	if !slices.Contains(terrain.Modes, opts.Mode) {
		return nil, fmt.Errorf("invalid synthesis mode %q", opts.Mode)
	}
	if opts.SeedPolicy == "" {
		opts.SeedPolicy = PerRow
	}
	if opts.SeedPolicy != PerRow && opts.SeedPolicy != Fixed {
		return nil, fmt.Errorf("unknown seed policy %q", opts.SeedPolicy)
	}
	if opts.InterpFrames < 0 {
		return nil, fmt.Errorf("interpolated frame count must be non-negative, got %d", opts.InterpFrames)
	}
	if opts.Clock == nil {
		opts.Clock = timeutil.RealClock{}
	}
	return &Pipeline{opts: opts}, nil
}

// FrameCount returns how many frames Run will emit for rows.
func (p *Pipeline) FrameCount(rows []telemetry.Row) int {
	switch {
	case p.opts.Mode == terrain.ModeScattered:
		return 1
	case p.opts.Mode == terrain.ModeAmbient && len(rows) == 0:
		return 1
	}
	return FrameCount(len(rows), p.opts.InterpFrames)
}

// Run synthesizes every frame in order and hands each to sink before the
// next is started. The context is checked between frames.
func (p *Pipeline) Run(ctx context.Context, rows []telemetry.Row, sink Sink) (Summary, error) {
	mode := p.opts.Mode
	if len(rows) == 0 && mode != terrain.ModeAmbient {
		return Summary{}, telemetry.Validate("pipeline", rows)
	}

	ctx, span := monitoring.Tracer().Start(ctx, "terrain.run", trace.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.String("seed_policy", string(p.opts.SeedPolicy)),
		attribute.Int("rows", len(rows)),
		attribute.Int("frames", p.FrameCount(rows)),
	))
	defer span.End()

	var (
		sum Summary
		err error
	)
	if mode == terrain.ModeScattered {
		sum, err = p.runScattered(ctx, rows, sink)
	} else {
		sum, err = p.runSequence(ctx, rows, sink)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return sum, err
}

func (p *Pipeline) runSequence(ctx context.Context, rows []telemetry.Row, sink Sink) (Summary, error) {
	steps := Plan(rows, p.opts.InterpFrames)
	if len(steps) == 0 {
		// Ambient mode needs no input: one frame from the clock alone.
		steps = []Step{{Kind: KindReal}}
	}
	stats := telemetry.ComputeStats(rows)

	var shared *terrain.RandStream
	if p.opts.SeedPolicy == Fixed {
		shared = terrain.NewStream(p.fixedSeed(steps[0].Row))
	}

	var sum Summary
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		stream := shared
		if stream == nil {
			stream = terrain.NewStream(p.rowSeed(step.Row))
		}
		frame := Frame{Step: step, Total: len(steps), Mode: p.opts.Mode, Seed: stream.Seed()}

		if err := p.emit(ctx, &frame, sink, func() (*terrain.Field, error) {
			return terrain.Build(p.opts.Params, p.opts.Mode, stream, step.Row, stats)
		}); err != nil {
			return sum, err
		}
		sum.Frames++
		if step.Interpolated() {
			sum.Interpolated++
		}
	}
	return sum, nil
}

func (p *Pipeline) runScattered(ctx context.Context, rows []telemetry.Row, sink Sink) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	seed := terrain.AmbientSeed(p.opts.Clock)
	stream := terrain.NewStream(seed)
	frame := Frame{
		Step:  Step{Kind: KindScattered, Source: 0, Next: len(rows) - 1, Row: rows[0]},
		Total: 1,
		Mode:  terrain.ModeScattered,
		Seed:  seed,
	}

	err := p.emit(ctx, &frame, sink, func() (*terrain.Field, error) {
		res, err := terrain.Scattered(p.opts.Params, stream, rows)
		if err != nil {
			return nil, err
		}
		frame.Fallback = res.Fallback
		switch res.Fallback {
		case terrain.FallbackDegenerate:
			monitoring.Logf("scattered: %d rows collapse to one position; using a synthetic bump", len(rows))
			p.opts.Metrics.ObserveFallback(string(res.Fallback))
		case terrain.FallbackInterpolation:
			monitoring.Logf("scattered: interpolation failed (%v); using a synthetic bump", res.Cause)
			p.opts.Metrics.ObserveFallback(string(res.Fallback))
		}
		return res.Field, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Frames: 1, Fallback: frame.Fallback}, nil
}

// emit synthesizes one frame under its own span and passes it to sink.
func (p *Pipeline) emit(ctx context.Context, frame *Frame, sink Sink, build func() (*terrain.Field, error)) error {
	ctx, span := monitoring.Tracer().Start(ctx, "terrain.frame", trace.WithAttributes(
		attribute.Int("index", frame.Index),
		attribute.String("kind", string(frame.Kind)),
		attribute.Int64("seed", int64(frame.Seed)),
	))
	defer span.End()

	start := p.opts.Clock.Now()
	field, err := build()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to synthesize frame %d: %w", frame.Index, err)
	}
	p.opts.Metrics.ObserveFrame(string(frame.Kind), string(frame.Mode), p.opts.Clock.Since(start))
	frame.Field = field

	if err := sink.Consume(ctx, *frame); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to consume frame %d: %w", frame.Index, err)
	}
	return nil
}

func (p *Pipeline) rowSeed(r telemetry.Row) uint32 {
	if p.opts.Mode == terrain.ModeAmbient {
		return terrain.AmbientSeed(p.opts.Clock)
	}
	return terrain.RowSeed(r)
}

func (p *Pipeline) fixedSeed(first telemetry.Row) uint32 {
	if p.opts.Mode == terrain.ModeAmbient {
		return terrain.AmbientSeed(p.opts.Clock)
	}
	return terrain.PositionSeed(first)
}
