package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/seedterrain/internal/config"
	"github.com/banshee-data/seedterrain/internal/telemetry"
)

// cliOptions is the parsed command line. cfg already has every flag
// override applied.
type cliOptions struct {
	cfg *config.TerrainConfig

	csvPath    string
	dbPath     string
	table      string
	configPath string
	metricsOut string
	traceOut   string

	report      bool
	preview     bool
	quiet       bool
	showVersion bool
}

// parseFlags reads args into cliOptions. Tuning flags only override the
// config file when they are given explicitly.
func parseFlags(args []string, out io.Writer) (*cliOptions, error) {
	defaults := config.EmptyTerrainConfig()
	o := &cliOptions{}

	fs := flag.NewFlagSet("terrain", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&o.csvPath, "csv", "", "Telemetry CSV file (Latitud, Longitud, Altitud, Ax, Ay, Az)")
	fs.StringVar(&o.dbPath, "db", "", "SQLite database holding the telemetry table")
	fs.StringVar(&o.table, "table", telemetry.DefaultTable, "Table to read from -db")
	fs.StringVar(&o.configPath, "config", "", "JSON run configuration (see "+config.DefaultConfigPath+")")
	fs.StringVar(&o.metricsOut, "metrics-out", "", "Write run metrics in Prometheus text format to this file")
	fs.StringVar(&o.traceOut, "trace-out", "", "Write run and frame trace spans to this file")
	fs.BoolVar(&o.report, "report", false, "Write an HTML run report next to the frames")
	fs.BoolVar(&o.preview, "preview", false, "Open the preview window without asking")
	fs.BoolVar(&o.quiet, "quiet", false, "No progress bar, prompt or log output")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")

	width := fs.Int("width", defaults.GetWidth(), "Grid width in cells")
	height := fs.Int("height", defaults.GetHeight(), "Grid height in cells")
	hills := fs.Int("hills", defaults.GetHills(), "Hills per frame")
	sigmaMin := fs.Float64("sigma-min", defaults.GetSigmaMin(), "Smallest hill width")
	sigmaMax := fs.Float64("sigma-max", defaults.GetSigmaMax(), "Largest hill width")
	contrast := fs.Float64("contrast", defaults.GetContrast(), "Contrast factor applied around the midpoint after normalization")
	levels := fs.Int("contour-levels", defaults.GetContourLevels(), "Contour lines per frame (0 disables)")
	fps := fs.Int("fps", defaults.GetFPS(), "Animation frames per second")
	interp := fs.Int("interp-frames", defaults.GetInterpFrames(), "Interpolated frames between consecutive rows")
	mode := fs.String("mode", string(defaults.GetMode()), "Synthesis mode: hills, sensor, dome, ambient or scattered")
	policy := fs.String("seed-policy", string(defaults.GetSeedPolicy()), "Seed policy: per-row or fixed")
	noise := fs.Float64("noise", defaults.GetNoiseLevel(), "Texture noise level")
	gradient := fs.Float64("gradient", defaults.GetGradientStrength(), "Accelerometer tilt strength (sensor mode)")
	gifWidth := fs.Int("gif-width", defaults.GetGIFWidth(), "Scale GIF frames down to this width (0 keeps the rendered size)")
	dpi := fs.Int("dpi", defaults.GetDPI(), "Frame resolution in dots per inch")
	outRoot := fs.String("out", defaults.GetOutputRoot(), "Directory that receives the run directory")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.showVersion {
		return o, nil
	}

	cfg := defaults
	if o.configPath != "" {
		loaded, err := config.LoadTerrainConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = width
		case "height":
			cfg.Height = height
		case "hills":
			cfg.Hills = hills
		case "sigma-min":
			cfg.SigmaMin = sigmaMin
		case "sigma-max":
			cfg.SigmaMax = sigmaMax
		case "contrast":
			cfg.Contrast = contrast
		case "contour-levels":
			cfg.ContourLevels = levels
		case "fps":
			cfg.FPS = fps
		case "interp-frames":
			cfg.InterpFrames = interp
		case "mode":
			cfg.Mode = mode
		case "seed-policy":
			cfg.SeedPolicy = policy
		case "noise":
			cfg.NoiseLevel = noise
		case "gradient":
			cfg.GradientStrength = gradient
		case "gif-width":
			cfg.GIFWidth = gifWidth
		case "dpi":
			cfg.DPI = dpi
		case "out":
			cfg.OutputRoot = outRoot
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg
	return o, nil
}
