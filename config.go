package cellfx

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	applog "github.com/phanxgames/cellfx/internal/log"
)

// Config describes an engine: the root grid, the font, the camera and any
// windows to create up front. Colors are "#rrggbb" strings.
type Config struct {
	// Width and Height are the root window size in cells.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Scale magnifies every window's font by an integer factor unless the
	// window sets its own.
	Scale      int            `yaml:"scale"`
	Font       FontConfig     `yaml:"font"`
	Background string         `yaml:"background"`
	Camera     CameraConfig   `yaml:"camera"`
	Windows    []WindowConfig `yaml:"windows"`
	// Parallel runs the per-window sprite, lighting and bloom passes
	// concurrently.
	Parallel      bool           `yaml:"parallel"`
	ScreenshotDir string         `yaml:"screenshot_dir"`
	Debug         bool           `yaml:"debug"`
	Log           applog.Options `yaml:"log"`
}

// FontConfig selects the glyph source. Name is "basic" (7x13 bitmap) or
// "gomono" (Go Mono at Size points).
type FontConfig struct {
	Name string  `yaml:"name"`
	Size float64 `yaml:"size"`
}

// CameraConfig sets the initial camera.
type CameraConfig struct {
	Mode       string  `yaml:"mode"`
	DepthScale float64 `yaml:"depth_scale"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
}

// WindowConfig describes a window created by New.
type WindowConfig struct {
	Name       string          `yaml:"name"`
	X          int             `yaml:"x"`
	Y          int             `yaml:"y"`
	Width      int             `yaml:"width"`
	Height     int             `yaml:"height"`
	ZIndex     int             `yaml:"z_index"`
	Scale      int             `yaml:"scale"`
	Alpha      uint8           `yaml:"alpha"`
	Background string          `yaml:"background"`
	Depth      float64         `yaml:"depth"`
	Fixed      bool            `yaml:"fixed"`
	Bloom      *BloomConfig    `yaml:"bloom"`
	Lighting   *LightingConfig `yaml:"lighting"`
}

// BloomConfig mirrors BloomSettings. Omitted fields take the defaults.
type BloomConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold int     `yaml:"threshold"`
	BlurScale int     `yaml:"blur_scale"`
	Intensity float64 `yaml:"intensity"`
}

// UnmarshalYAML decodes over the default settings.
func (b *BloomConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain BloomConfig
	d := DefaultBloomSettings()
	p := plain{Enabled: true, Threshold: d.Threshold, BlurScale: d.BlurScale, Intensity: d.Intensity}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*b = BloomConfig(p)
	return nil
}

// LightingConfig enables lighting on a window.
type LightingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Ambient string `yaml:"ambient"`
}

// UnmarshalYAML decodes with lighting enabled unless stated otherwise.
func (l *LightingConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain LightingConfig
	p := plain{Enabled: true}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*l = LightingConfig(p)
	return nil
}

// DefaultConfig returns an 80x25 root grid with the bitmap font and a
// perspective camera.
func DefaultConfig() Config {
	return Config{
		Width:         80,
		Height:        25,
		Scale:         1,
		Font:          FontConfig{Name: "basic", Size: 14},
		Background:    "#000000",
		Camera:        CameraConfig{Mode: "perspective", DepthScale: 1},
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem in c joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("root size %dx%d must be positive", c.Width, c.Height))
	}
	switch strings.ToLower(c.Font.Name) {
	case "", "basic", "gomono":
	default:
		errs = append(errs, fmt.Errorf("unknown font %q", c.Font.Name))
	}
	if _, err := ParseColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseCameraMode(c.Camera.Mode); err != nil {
		errs = append(errs, err)
	}

	seen := map[string]bool{rootWindowName: true}
	for i, w := range c.Windows {
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("window %d: missing name", i))
		} else if seen[w.Name] {
			errs = append(errs, fmt.Errorf("window %q: %w", w.Name, ErrWindowExists))
		}
		seen[w.Name] = true
		if w.Width <= 0 || w.Height <= 0 {
			errs = append(errs, fmt.Errorf("window %q: size %dx%d must be positive", w.Name, w.Width, w.Height))
		}
		if w.Depth < 0 {
			errs = append(errs, fmt.Errorf("window %q: negative depth %v", w.Name, w.Depth))
		}
		if _, err := ParseColor(w.Background); err != nil {
			errs = append(errs, fmt.Errorf("window %q: %w", w.Name, err))
		}
		if w.Lighting != nil {
			if _, err := ParseColor(w.Lighting.Ambient); err != nil {
				errs = append(errs, fmt.Errorf("window %q: ambient: %w", w.Name, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// rasterizer builds the configured glyph source.
func (c Config) rasterizer() (Rasterizer, error) {
	switch strings.ToLower(c.Font.Name) {
	case "gomono":
		return NewMonoRasterizer(c.Font.Size)
	default:
		return defaultRasterizer(), nil
	}
}

// options converts a window config into WindowOptions. Colors must have
// been validated.
func (wc WindowConfig) options(r Rasterizer, defaultScale int) WindowOptions {
	bg, _ := ParseColor(wc.Background)
	scale := wc.Scale
	if scale == 0 {
		scale = defaultScale
	}
	return WindowOptions{
		X:          wc.X,
		Y:          wc.Y,
		Width:      wc.Width,
		Height:     wc.Height,
		ZIndex:     wc.ZIndex,
		Rasterizer: r,
		Scale:      scale,
		Alpha:      wc.Alpha,
		Background: bg,
		Depth:      wc.Depth,
		Fixed:      wc.Fixed,
	}
}

// apply sets the bloom and lighting sections on w.
func (wc WindowConfig) apply(w *Window) {
	if b := wc.Bloom; b != nil {
		w.SetBloom(b.Enabled, b.Threshold, b.BlurScale, b.Intensity)
	}
	if l := wc.Lighting; l != nil {
		ambient, _ := ParseColor(l.Ambient)
		w.SetLighting(l.Enabled, ambient)
	}
}
