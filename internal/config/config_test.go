package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/position"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1280.0, cfg.Viewport.Width)
	assert.Equal(t, 720.0, cfg.Viewport.Height)

	for _, name := range []string{"tooltip", "hover-card", "popover", "menu", "dialog"} {
		_, ok := cfg.Presets[name]
		assert.True(t, ok, "missing built-in preset %q", name)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Viewport, cfg.Viewport)
}

func TestLoadConfigMergesPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[viewport]
width = 1920
height = 1080

[presets.tooltip]
side = "bottom"
open_delay = "150ms"
close_on_escape = true

[presets.custom-card]
side = "right"
align = "start"
side_offset = 8
avoid_collisions = true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1920.0, cfg.Viewport.Width)
	assert.Equal(t, geometry.Rect{W: 1920, H: 1080}, cfg.Viewport.Bounds())

	// File presets replace built-ins of the same name.
	tooltip := cfg.Presets["tooltip"]
	assert.Equal(t, "bottom", tooltip.Side)
	assert.Equal(t, "150ms", tooltip.OpenDelay)

	// And new names are added alongside the rest.
	custom, ok := cfg.Presets["custom-card"]
	require.True(t, ok)
	assert.Equal(t, "right", custom.Side)
	_, ok = cfg.Presets["popover"]
	assert.True(t, ok)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestPresetSpec(t *testing.T) {
	cfg := DefaultConfig()

	spec, err := cfg.Spec("tooltip", geometry.Size{W: 200, H: 60})
	require.NoError(t, err)

	assert.Equal(t, position.SideTop, spec.Placement.Side)
	assert.Equal(t, position.AlignCenter, spec.Placement.Align)
	assert.Equal(t, 4.0, spec.Placement.SideOffset)
	assert.Equal(t, geometry.UniformInsets(10), spec.Placement.CollisionPadding)
	assert.Equal(t, position.StickyPartial, spec.Placement.Sticky)
	assert.True(t, spec.Placement.AvoidCollisions)
	assert.Equal(t, 700*time.Millisecond, spec.OpenDelay)
	assert.Equal(t, 300*time.Millisecond, spec.CloseDelay)
	assert.True(t, spec.CloseOnEscape)
	assert.False(t, spec.CloseOnOutsideClick)
	assert.Equal(t, "tooltip", spec.Layer)
	assert.Equal(t, geometry.Size{W: 200, H: 60}, spec.Size)

	require.NoError(t, spec.Validate())
}

func TestPresetSpecDefaults(t *testing.T) {
	// A minimal preset resolves with library defaults.
	spec, err := Preset{AvoidCollisions: true}.Spec(geometry.Size{W: 100, H: 50})
	require.NoError(t, err)

	assert.Equal(t, position.SideBottom, spec.Placement.Side)
	assert.Equal(t, position.AlignCenter, spec.Placement.Align)
	assert.Equal(t, position.StickyPartial, spec.Placement.Sticky)
	assert.Zero(t, spec.OpenDelay)
	assert.Zero(t, spec.CloseDelay)
}

func TestPresetSpecErrors(t *testing.T) {
	_, err := Preset{Side: "diagonal"}.Spec(geometry.Size{W: 1, H: 1})
	assert.Error(t, err)

	_, err = Preset{Align: "middle"}.Spec(geometry.Size{W: 1, H: 1})
	assert.Error(t, err)

	_, err = Preset{Sticky: "sometimes"}.Spec(geometry.Size{W: 1, H: 1})
	assert.Error(t, err)

	_, err = Preset{OpenDelay: "soon"}.Spec(geometry.Size{W: 1, H: 1})
	assert.Error(t, err)

	_, err = Preset{CloseDelay: "-1s"}.Spec(geometry.Size{W: 1, H: 1})
	assert.Error(t, err)
}

func TestSpecUnknownPreset(t *testing.T) {
	cfg := DefaultConfig()
	_, err := cfg.Spec("banner", geometry.Size{W: 1, H: 1})
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Viewport.Width = 800
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 800.0, loaded.Viewport.Width)
	assert.Equal(t, cfg.Presets["menu"], loaded.Presets["menu"])
}

func TestFileWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	reloaded := make(chan *Config, 1)
	fw, err := NewFileWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	defer fw.Stop()

	data := "[viewport]\nwidth = 640\nheight = 480\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 640.0, cfg.Viewport.Width)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestFileWatcherStartStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	fw, err := NewFileWatcher(path, func(*Config) {})
	require.NoError(t, err)

	require.NoError(t, fw.Start())
	require.NoError(t, fw.Start())
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
}
