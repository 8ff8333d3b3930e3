package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/render"
	"github.com/banshee-data/seedterrain/internal/terrain"
)

// DefaultConfigPath is the path to the canonical run defaults file.
const DefaultConfigPath = "config/terrain.defaults.json"

// TerrainConfig is the JSON run configuration. Every field is optional; the
// Get* methods supply defaults for anything left unset, and command-line
// flags override whatever the file provides.
type TerrainConfig struct {
	// Grid and synthesis
	Width            *int     `json:"width,omitempty"`
	Height           *int     `json:"height,omitempty"`
	Hills            *int     `json:"hills,omitempty"`
	SigmaMin         *float64 `json:"sigma_min,omitempty"`
	SigmaMax         *float64 `json:"sigma_max,omitempty"`
	Contrast         *float64 `json:"contrast,omitempty"`
	NoiseLevel       *float64 `json:"noise_level,omitempty"`
	GradientStrength *float64 `json:"gradient_strength,omitempty"`
	Mode             *string  `json:"mode,omitempty"`
	SeedPolicy       *string  `json:"seed_policy,omitempty"`

	// Sequence
	InterpFrames *int `json:"interp_frames,omitempty"`
	FPS          *int `json:"fps,omitempty"`

	// Rendering
	ContourLevels    *int     `json:"contour_levels,omitempty"`
	FigureSizeInches *float64 `json:"figure_size_inches,omitempty"`
	DPI              *int     `json:"dpi,omitempty"`
	GIFWidth         *int     `json:"gif_width,omitempty"`
	OutputRoot       *string  `json:"output_root,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTerrainConfig returns a TerrainConfig with all fields set to nil.
func EmptyTerrainConfig() *TerrainConfig {
	return &TerrainConfig{}
}

// LoadTerrainConfig loads a TerrainConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file fall back to the Get* defaults, so partial configs are safe.
func LoadTerrainConfig(path string) (*TerrainConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTerrainConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and common parent directories. Panics if the file cannot be
// loaded, intended for test setup.
func MustLoadDefaultConfig() *TerrainConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/ or cmd/terrain/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTerrainConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks every set field. The combined synthesis parameters are
// checked once more by terrain.Params.Validate when a run starts.
func (c *TerrainConfig) Validate() error {
	positive := []struct {
		name string
		v    *int
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"fps", c.FPS},
		{"dpi", c.DPI},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, *p.v)
		}
	}

	nonNegative := []struct {
		name string
		v    *int
	}{
		{"hills", c.Hills},
		{"interp_frames", c.InterpFrames},
		{"contour_levels", c.ContourLevels},
		{"gif_width", c.GIFWidth},
	}
	for _, p := range nonNegative {
		if p.v != nil && *p.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", p.name, *p.v)
		}
	}

	if c.SigmaMin != nil && *c.SigmaMin <= 0 {
		return fmt.Errorf("sigma_min must be positive, got %f", *c.SigmaMin)
	}
	if c.GetSigmaMax() < c.GetSigmaMin() {
		return fmt.Errorf("sigma_max (%f) must not be below sigma_min (%f)", c.GetSigmaMax(), c.GetSigmaMin())
	}
	if c.Contrast != nil && *c.Contrast <= 0 {
		return fmt.Errorf("contrast must be positive, got %f", *c.Contrast)
	}
	if c.NoiseLevel != nil && *c.NoiseLevel < 0 {
		return fmt.Errorf("noise_level must be non-negative, got %f", *c.NoiseLevel)
	}
	if c.FigureSizeInches != nil && *c.FigureSizeInches <= 0 {
		return fmt.Errorf("figure_size_inches must be positive, got %f", *c.FigureSizeInches)
	}

	if c.Mode != nil {
		if _, err := terrain.ParseMode(*c.Mode); err != nil {
			return err
		}
	}
	if c.SeedPolicy != nil {
		if _, err := pipeline.ParseSeedPolicy(*c.SeedPolicy); err != nil {
			return err
		}
	}

	return nil
}

// GetWidth returns the width value or the default.
func (c *TerrainConfig) GetWidth() int {
	if c.Width == nil {
		return 800
	}
	return *c.Width
}

// GetHeight returns the height value or the default.
func (c *TerrainConfig) GetHeight() int {
	if c.Height == nil {
		return 800
	}
	return *c.Height
}

// GetHills returns the hills value or the default.
func (c *TerrainConfig) GetHills() int {
	if c.Hills == nil {
		return 35
	}
	return *c.Hills
}

// GetSigmaMin returns the sigma_min value or the default.
func (c *TerrainConfig) GetSigmaMin() float64 {
	if c.SigmaMin == nil {
		return 0.03
	}
	return *c.SigmaMin
}

// GetSigmaMax returns the sigma_max value or the default.
func (c *TerrainConfig) GetSigmaMax() float64 {
	if c.SigmaMax == nil {
		return 0.25
	}
	return *c.SigmaMax
}

// GetContrast returns the contrast value or the default.
func (c *TerrainConfig) GetContrast() float64 {
	if c.Contrast == nil {
		return 1.2
	}
	return *c.Contrast
}

// GetNoiseLevel returns the noise_level value or the default.
func (c *TerrainConfig) GetNoiseLevel() float64 {
	if c.NoiseLevel == nil {
		return 0.08
	}
	return *c.NoiseLevel
}

// GetGradientStrength returns the gradient_strength value or the default.
func (c *TerrainConfig) GetGradientStrength() float64 {
	if c.GradientStrength == nil {
		return 0.3
	}
	return *c.GradientStrength
}

// GetMode returns the synthesis mode, defaulting to sensor. An unparseable
// value also yields the default; Validate reports it.
func (c *TerrainConfig) GetMode() terrain.Mode {
	if c.Mode == nil {
		return terrain.ModeSensor
	}
	m, err := terrain.ParseMode(*c.Mode)
	if err != nil {
		return terrain.ModeSensor
	}
	return m
}

// GetSeedPolicy returns the seed policy, defaulting to per-row.
func (c *TerrainConfig) GetSeedPolicy() pipeline.SeedPolicy {
	if c.SeedPolicy == nil {
		return pipeline.PerRow
	}
	p, err := pipeline.ParseSeedPolicy(*c.SeedPolicy)
	if err != nil {
		return pipeline.PerRow
	}
	return p
}

// GetInterpFrames returns the interp_frames value or the default.
func (c *TerrainConfig) GetInterpFrames() int {
	if c.InterpFrames == nil {
		return 5
	}
	return *c.InterpFrames
}

// GetFPS returns the fps value or the default.
func (c *TerrainConfig) GetFPS() int {
	if c.FPS == nil {
		return 15
	}
	return *c.FPS
}

// GetContourLevels returns the contour_levels value or the default.
func (c *TerrainConfig) GetContourLevels() int {
	if c.ContourLevels == nil {
		return 18
	}
	return *c.ContourLevels
}

// GetFigureSizeInches returns the figure_size_inches value or the default.
func (c *TerrainConfig) GetFigureSizeInches() float64 {
	if c.FigureSizeInches == nil {
		return 6
	}
	return *c.FigureSizeInches
}

// GetDPI returns the dpi value or the default.
func (c *TerrainConfig) GetDPI() int {
	if c.DPI == nil {
		return 150
	}
	return *c.DPI
}

// GetGIFWidth returns the gif_width value or the default (0, no scaling).
func (c *TerrainConfig) GetGIFWidth() int {
	if c.GIFWidth == nil {
		return 0
	}
	return *c.GIFWidth
}

// GetOutputRoot returns the output_root value or the default.
func (c *TerrainConfig) GetOutputRoot() string {
	if c.OutputRoot == nil || *c.OutputRoot == "" {
		return "."
	}
	return *c.OutputRoot
}

// Params assembles the synthesis parameters.
func (c *TerrainConfig) Params() terrain.Params {
	return terrain.Params{
		Width:            c.GetWidth(),
		Height:           c.GetHeight(),
		Hills:            c.GetHills(),
		SigmaMin:         c.GetSigmaMin(),
		SigmaMax:         c.GetSigmaMax(),
		Contrast:         c.GetContrast(),
		NoiseLevel:       c.GetNoiseLevel(),
		GradientStrength: c.GetGradientStrength(),
	}
}

// Style assembles the frame drawing style.
func (c *TerrainConfig) Style() render.Style {
	return render.Style{
		SizeInches:    c.GetFigureSizeInches(),
		DPI:           c.GetDPI(),
		ContourLevels: c.GetContourLevels(),
	}
}

// GIFOptions assembles the animation settings.
func (c *TerrainConfig) GIFOptions() render.GIFOptions {
	return render.GIFOptions{FPS: c.GetFPS(), Width: c.GetGIFWidth()}
}
