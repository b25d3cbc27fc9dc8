// Package config loads the viewer configuration: embedded defaults with an
// optional user file merged on top.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"surface-engine/colors"
	"surface-engine/presets"
	"surface-engine/sampler"
	"surface-engine/surface"
	"surface-engine/textures"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid value")

// Config holds every tunable of the viewer.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Presets   PresetsConfig   `yaml:"presets"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// SurfaceConfig is the surface shown at startup.
type SurfaceConfig struct {
	Mode        string         `yaml:"mode"` // grid or parametric
	Expressions []string       `yaml:"expressions"`
	X           string         `yaml:"x"`
	Y           string         `yaml:"y"`
	Z           string         `yaml:"z"`
	UMin        presets.Bound  `yaml:"u_min"`
	UMax        presets.Bound  `yaml:"u_max"`
	VMin        presets.Bound  `yaml:"v_min"`
	VMax        presets.Bound  `yaml:"v_max"`
	Segments    int            `yaml:"segments"`
	HalfWidth   float64        `yaml:"half_width"`
	Morph       float64        `yaml:"morph"`
	Style       textures.Style `yaml:"style"`
	Theme       string         `yaml:"theme"`
	Variation   bool           `yaml:"variation"`
}

// AnimationConfig holds the initial animation toggles and their step sizes.
type AnimationConfig struct {
	Time        bool    `yaml:"time"`
	Drift       bool    `yaml:"drift"`
	Morph       bool    `yaml:"morph"`
	Rotate      bool    `yaml:"rotate"`
	TimeStep    float64 `yaml:"time_step"`
	DriftX      float64 `yaml:"drift_x"`
	DriftY      float64 `yaml:"drift_y"`
	MorphStep   float64 `yaml:"morph_step"`
	RotateSpeed float32 `yaml:"rotate_speed"` // radians per frame
	ColorStep   float32 `yaml:"color_step"`
}

// CameraConfig angles are in degrees.
type CameraConfig struct {
	Distance float32 `yaml:"distance"`
	Yaw      float32 `yaml:"yaw"`
	Pitch    float32 `yaml:"pitch"`
	FOV      float32 `yaml:"fov"`
}

type PresetsConfig struct {
	File string `yaml:"file"` // user presets; empty disables saving
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

var global *Config

// Init loads the configuration into the package-level instance.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used. Formulas are
// not compiled here; a bad formula is reported when the surface is built.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := surface.ParseMode(c.Surface.Mode); err != nil {
		return fmt.Errorf("%w: surface.mode: %w", ErrInvalid, err)
	}
	if c.Surface.Segments < sampler.MinSegments {
		return fmt.Errorf("%w: surface.segments must be at least %d", ErrInvalid, sampler.MinSegments)
	}
	if c.Surface.HalfWidth <= 0 {
		return fmt.Errorf("%w: surface.half_width must be positive", ErrInvalid)
	}
	if !colors.IsHex(c.Surface.Theme) {
		return fmt.Errorf("%w: surface.theme %q", ErrInvalid, c.Surface.Theme)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("%w: camera.fov %g", ErrInvalid, c.Camera.FOV)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("%w: camera.distance %g", ErrInvalid, c.Camera.Distance)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// Params converts the surface section. Validate must have passed.
func (s SurfaceConfig) Params() surface.Params {
	mode, _ := surface.ParseMode(s.Mode)
	return surface.Params{
		Mode:        mode,
		Expressions: append([]string(nil), s.Expressions...),
		X:           s.X,
		Y:           s.Y,
		Z:           s.Z,
		U:           sampler.Range{Min: s.UMin.Value, Max: s.UMax.Value},
		V:           sampler.Range{Min: s.VMin.Value, Max: s.VMax.Value},
		Segments:    s.Segments,
		HalfWidth:   s.HalfWidth,
		Morph:       s.Morph,
		Style:       s.Style,
		Theme:       s.Theme,
		Variation:   s.Variation,
	}
}

func (a AnimationConfig) Animation() surface.Animation {
	return surface.Animation{
		Time:        a.Time,
		Drift:       a.Drift,
		Morph:       a.Morph,
		Rotate:      a.Rotate,
		TimeStep:    a.TimeStep,
		DriftX:      a.DriftX,
		DriftY:      a.DriftY,
		MorphStep:   a.MorphStep,
		RotateSpeed: a.RotateSpeed,
		ColorStep:   a.ColorStep,
	}
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
