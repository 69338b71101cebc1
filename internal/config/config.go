// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/overlay"
	"github.com/timjonaswechler/ui/position"
)

// Default placement values shared by the built-in presets.
const (
	DefaultSideOffset       = 4.0
	DefaultCollisionPadding = 10.0
	DefaultOpenDelay        = "700ms"
	DefaultCloseDelay       = "300ms"
)

// Config represents the overlay engine configuration.
type Config struct {
	Viewport ViewportConfig    `toml:"viewport"`
	Presets  map[string]Preset `toml:"presets"`
}

// ViewportConfig holds the initial viewport dimensions.
type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Preset is one named overlay behavior profile. Durations are Go
// duration strings ("700ms", "1s"); enum fields use the lowercase
// names of their values.
type Preset struct {
	Side             string  `toml:"side"`              // top, right, bottom, left
	Align            string  `toml:"align"`             // start, center, end
	SideOffset       float64 `toml:"side_offset"`       // gap to the anchor
	AlignOffset      float64 `toml:"align_offset"`      // shift along the aligned edge
	AvoidCollisions  bool    `toml:"avoid_collisions"`  //
	CollisionPadding float64 `toml:"collision_padding"` // uniform boundary inset
	Sticky           string  `toml:"sticky"`            // partial, always

	OpenDelay  string `toml:"open_delay"`
	CloseDelay string `toml:"close_delay"`

	CloseOnOutsideClick bool `toml:"close_on_outside_click"`
	CloseOnEscape       bool `toml:"close_on_escape"`
	HideWhenDetached    bool `toml:"hide_when_detached"`

	Layer string `toml:"layer"` // portal layer name, empty = default
}

// DefaultConfig returns a Config with the built-in presets.
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
		},
		Presets: map[string]Preset{
			"tooltip": {
				Side:             "top",
				Align:            "center",
				SideOffset:       DefaultSideOffset,
				AvoidCollisions:  true,
				CollisionPadding: DefaultCollisionPadding,
				Sticky:           "partial",
				OpenDelay:        DefaultOpenDelay,
				CloseDelay:       DefaultCloseDelay,
				CloseOnEscape:    true,
				HideWhenDetached: true,
				Layer:            "tooltip",
			},
			"hover-card": {
				Side:             "bottom",
				Align:            "center",
				SideOffset:       DefaultSideOffset,
				AvoidCollisions:  true,
				CollisionPadding: DefaultCollisionPadding,
				Sticky:           "partial",
				OpenDelay:        DefaultOpenDelay,
				CloseDelay:       DefaultCloseDelay,
				CloseOnEscape:    true,
				HideWhenDetached: true,
			},
			"popover": {
				Side:                "bottom",
				Align:               "center",
				SideOffset:          DefaultSideOffset,
				AvoidCollisions:     true,
				CollisionPadding:    DefaultCollisionPadding,
				Sticky:              "partial",
				CloseOnOutsideClick: true,
				CloseOnEscape:       true,
			},
			"menu": {
				Side:                "bottom",
				Align:               "start",
				SideOffset:          DefaultSideOffset,
				AvoidCollisions:     true,
				CollisionPadding:    DefaultCollisionPadding,
				Sticky:              "always",
				CloseOnOutsideClick: true,
				CloseOnEscape:       true,
			},
			"dialog": {
				Side:            "bottom",
				Align:           "center",
				AvoidCollisions: true,
				Sticky:          "always",
				CloseOnEscape:   true,
				Layer:           "dialog",
			},
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ui", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist; presets in the file
// are merged over the built-in ones by name.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	if file.Viewport.Width > 0 {
		cfg.Viewport.Width = file.Viewport.Width
	}
	if file.Viewport.Height > 0 {
		cfg.Viewport.Height = file.Viewport.Height
	}
	for name, preset := range file.Presets {
		cfg.Presets[name] = preset
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Spec resolves a named preset into an overlay spec for content of the
// given size.
func (c *Config) Spec(preset string, size geometry.Size) (overlay.Spec, error) {
	p, ok := c.Presets[preset]
	if !ok {
		return overlay.Spec{}, fmt.Errorf("config: unknown preset %q", preset)
	}
	return p.Spec(size)
}

// Spec converts the preset into an overlay spec.
func (p Preset) Spec(size geometry.Size) (overlay.Spec, error) {
	side, err := parseSide(p.Side)
	if err != nil {
		return overlay.Spec{}, err
	}

	align, err := parseAlign(p.Align)
	if err != nil {
		return overlay.Spec{}, err
	}

	sticky, err := parseSticky(p.Sticky)
	if err != nil {
		return overlay.Spec{}, err
	}

	openDelay, err := parseDelay(p.OpenDelay)
	if err != nil {
		return overlay.Spec{}, fmt.Errorf("config: open_delay: %w", err)
	}
	closeDelay, err := parseDelay(p.CloseDelay)
	if err != nil {
		return overlay.Spec{}, fmt.Errorf("config: close_delay: %w", err)
	}

	return overlay.Spec{
		Placement: position.Placement{
			Side:             side,
			Align:            align,
			SideOffset:       p.SideOffset,
			AlignOffset:      p.AlignOffset,
			AvoidCollisions:  p.AvoidCollisions,
			CollisionPadding: geometry.UniformInsets(p.CollisionPadding),
			Sticky:           sticky,
		},
		Size:                size,
		OpenDelay:           openDelay,
		CloseDelay:          closeDelay,
		CloseOnOutsideClick: p.CloseOnOutsideClick,
		CloseOnEscape:       p.CloseOnEscape,
		HideWhenDetached:    p.HideWhenDetached,
		Layer:               p.Layer,
	}, nil
}

// Bounds returns the configured viewport rectangle.
func (v ViewportConfig) Bounds() geometry.Rect {
	return geometry.Rect{W: v.Width, H: v.Height}
}

// Empty enum fields fall back to the library defaults.

func parseSide(s string) (position.Side, error) {
	if s == "" {
		return position.SideBottom, nil
	}
	return position.ParseSide(s)
}

func parseAlign(s string) (position.Align, error) {
	if s == "" {
		return position.AlignCenter, nil
	}
	return position.ParseAlign(s)
}

func parseSticky(s string) (position.Sticky, error) {
	if s == "" {
		return position.StickyPartial, nil
	}
	return position.ParseSticky(s)
}

func parseDelay(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("negative duration")
	}
	return d, nil
}
