// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/vrkit/pkg/orchestrator"
	"github.com/user/vrkit/pkg/repair"
	"github.com/user/vrkit/pkg/timeline"
)

// Config represents the full configuration for vrkit.
type Config struct {
	// Repair
	Threshold   float64 `yaml:"threshold"`
	BlendWeight float64 `yaml:"blend_weight"`
	Strategy    string  `yaml:"strategy"`
	CopyClean   bool    `yaml:"copy_clean"`

	// Encoding
	Quality    int     `yaml:"quality"`
	Bitrate    int     `yaml:"bitrate"`
	FPS        float64 `yaml:"fps"`
	FFmpegPath string  `yaml:"ffmpeg_path"`

	// Batch
	Workers    int      `yaml:"workers"`
	Suffix     string   `yaml:"suffix"`
	Extensions []string `yaml:"extensions"`

	// Debug
	Debug           bool        `yaml:"debug"`
	DebugDir        string      `yaml:"debug_dir"`
	DebugFrameWidth int         `yaml:"debug_frame_width"`
	Timeline        ThemeConfig `yaml:"timeline"`

	LogLevel string `yaml:"log_level"`
}

// ThemeConfig represents the colours of the debug timeline.
type ThemeConfig struct {
	BackgroundColor   string `yaml:"background_color"`
	TextColor         string `yaml:"text_color"`
	PresentColor      string `yaml:"present_color"`
	InterpolatedColor string `yaml:"interpolated_color"`
	CopiedColor       string `yaml:"copied_color"`
	DroppedColor      string `yaml:"dropped_color"`
	Font              string `yaml:"font"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Repair
		Threshold:   repair.DefaultThreshold,
		BlendWeight: repair.DefaultBlendWeight,
		Strategy:    string(repair.ModeAuto),
		CopyClean:   true,

		// Batch
		Workers:    1,
		Suffix:     "_repaired",
		Extensions: []string{".mp4", ".m4v", ".mov"},

		// Debug
		DebugDir:        "./debug",
		DebugFrameWidth: 640,
		Timeline: ThemeConfig{
			BackgroundColor:   "#202020",
			TextColor:         "#ffffff",
			PresentColor:      "#2ea043",
			InterpolatedColor: "#3884f4",
			CopiedColor:       "#f0c828",
			DroppedColor:      "#da3633",
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	if err := c.RepairOptions().Validate(); err != nil {
		return err
	}
	if c.Quality < 0 || c.Quality > 63 {
		return fmt.Errorf("quality %d outside [0, 63]", c.Quality)
	}
	if c.Bitrate < 0 {
		return fmt.Errorf("bitrate %d is negative", c.Bitrate)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps %.3f is negative", c.FPS)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers %d must be at least 1", c.Workers)
	}
	if c.DebugFrameWidth < 0 {
		return fmt.Errorf("debug_frame_width %d is negative", c.DebugFrameWidth)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// NormalizedExtensions returns the extensions lowercased with a leading dot.
func (c Config) NormalizedExtensions() []string {
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// RepairOptions converts the repair keys to repair.Options.
func (c Config) RepairOptions() repair.Options {
	return repair.Options{
		Threshold:   c.Threshold,
		BlendWeight: c.BlendWeight,
		Mode:        repair.Mode(strings.ToLower(c.Strategy)),
	}
}

// TimelineTheme builds the timeline theme from the configured colours.
func (c Config) TimelineTheme() timeline.Theme {
	theme := timeline.DefaultTheme()
	set := func(dst *color.Color, hex string) {
		if hex != "" {
			*dst = ParseColor(hex)
		}
	}
	set(&theme.Background, c.Timeline.BackgroundColor)
	set(&theme.Text, c.Timeline.TextColor)
	set(&theme.Present, c.Timeline.PresentColor)
	set(&theme.Interpolated, c.Timeline.InterpolatedColor)
	set(&theme.Copied, c.Timeline.CopiedColor)
	set(&theme.Dropped, c.Timeline.DroppedColor)
	theme.FontPath = c.Timeline.Font
	return theme
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	return color.RGBA{
		R: hexValue(hex[0])<<4 | hexValue(hex[1]),
		G: hexValue(hex[2])<<4 | hexValue(hex[3]),
		B: hexValue(hex[4])<<4 | hexValue(hex[5]),
		A: 255,
	}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config for one video.
func (c Config) ToOrchestratorConfig(inputPath, outputPath string) orchestrator.Config {
	return orchestrator.Config{
		InputPath:  inputPath,
		OutputPath: outputPath,

		Repair: c.RepairOptions(),

		Quality: c.Quality,
		Bitrate: c.Bitrate,
		FPS:     c.FPS,

		CopyClean: c.CopyClean,

		DebugFrameWidth: c.DebugFrameWidth,
		Timeline:        c.TimelineTheme(),
	}
}
