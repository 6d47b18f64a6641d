// Copyright 2026 The Expogrid Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ScratchWorkspace is the workspace the overview session switches to
// while visible, so the real workspaces keep their layout. The updater
// never tracks it (it has no number).
const ScratchWorkspace = "expogrid-temporary-workspace"

// WindowClass is the X window class of the overview window itself.
// Events originating from this class are dropped by the updater to
// prevent feedback loops.
const WindowClass = "expogrid"

// Duration wraps time.Duration with YAML support for strings like
// "10s" and "500ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// CaptureConfig controls the screenshot region and update cadence.
type CaptureConfig struct {
	// Width and Height bound the captured region. Zero means the full
	// root window, resolved at startup.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// OffsetX and OffsetY shift the capture origin, for setups where
	// a bar or dock should be excluded.
	OffsetX int `yaml:"offset_x"`
	OffsetY int `yaml:"offset_y"`

	// ForcedUpdateInterval is the fallback refresh period: a workspace
	// whose screenshot is older than this is re-captured even when its
	// geometry fingerprint is unchanged.
	ForcedUpdateInterval Duration `yaml:"forced_update_interval"`

	// MinUpdateInterval debounces per-workspace updates during bursts
	// of geometry events.
	MinUpdateInterval Duration `yaml:"min_update_interval"`
}

// UIConfig controls the overview grid geometry.
type UIConfig struct {
	// WindowWidth and WindowHeight size the overview window. Zero
	// means the full root window, resolved at startup.
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	// Workspaces is how many workspace slots the user actually uses.
	// Grid tiles beyond this count render with the "nonexistent"
	// palette.
	Workspaces int `yaml:"workspaces"`

	GridColumns int `yaml:"grid_columns"`
	GridRows    int `yaml:"grid_rows"`

	PaddingPercentX int `yaml:"padding_percent_x"`
	PaddingPercentY int `yaml:"padding_percent_y"`
	SpacingPercentX int `yaml:"spacing_percent_x"`
	SpacingPercentY int `yaml:"spacing_percent_y"`

	// FrameWidthPx is the border drawn around each tile.
	FrameWidthPx int `yaml:"frame_width_px"`

	// HighlightPercent is the opacity of the white overlay on the
	// hovered tile.
	HighlightPercent int `yaml:"highlight_percent"`
}

// ColorsConfig holds the per-state palette as "#rrggbb" strings.
type ColorsConfig struct {
	Background string `yaml:"background"`

	FrameActive      string `yaml:"frame_active"`
	FrameInactive    string `yaml:"frame_inactive"`
	FrameUnknown     string `yaml:"frame_unknown"`
	FrameEmpty       string `yaml:"frame_empty"`
	FrameNonexistent string `yaml:"frame_nonexistent"`

	TileActive      string `yaml:"tile_active"`
	TileInactive    string `yaml:"tile_inactive"`
	TileUnknown     string `yaml:"tile_unknown"`
	TileEmpty       string `yaml:"tile_empty"`
	TileNonexistent string `yaml:"tile_nonexistent"`

	Names string `yaml:"names"`
}

// FlagsConfig holds behavior toggles.
type FlagsConfig struct {
	// ShowNames draws workspace names under the tiles.
	ShowNames bool `yaml:"show_names"`

	// ThumbStretch scales thumbnails to exactly fill the tile,
	// ignoring aspect ratio. Off means aspect-preserving fit.
	ThumbStretch bool `yaml:"thumb_stretch"`

	// SwitchToEmptyWorkspaces allows selecting a tile with no live
	// workspace, provided the index has a configured name to switch
	// to.
	SwitchToEmptyWorkspaces bool `yaml:"switch_to_empty_workspaces"`
}

// Config is the full expogrid configuration.
type Config struct {
	Capture CaptureConfig `yaml:"capture"`
	UI      UIConfig      `yaml:"ui"`
	Colors  ColorsConfig  `yaml:"colors"`
	Flags   FlagsConfig   `yaml:"flags"`

	// WorkspaceNames overrides the displayed (and, with
	// switch_to_empty_workspaces, the targeted) name per index.
	WorkspaceNames map[int]string `yaml:"workspace_names"`

	// Palette is derived from Colors during Load.
	Palette PaletteSet `yaml:"-"`
}

// Default returns the built-in configuration. The color values match
// the classic i3 expose scheme.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			ForcedUpdateInterval: Duration(10 * time.Second),
			MinUpdateInterval:    Duration(500 * time.Millisecond),
		},
		UI: UIConfig{
			Workspaces:       9,
			GridColumns:      3,
			GridRows:         3,
			PaddingPercentX:  5,
			PaddingPercentY:  5,
			SpacingPercentX:  5,
			SpacingPercentY:  5,
			FrameWidthPx:     5,
			HighlightPercent: 20,
		},
		Colors: ColorsConfig{
			Background:       "#333333",
			FrameActive:      "#3b4f8a",
			FrameInactive:    "#43747b",
			FrameUnknown:     "#c8986b",
			FrameEmpty:       "#999999",
			FrameNonexistent: "#4d4d4d",
			TileActive:       "#5a6da4",
			TileInactive:     "#93afb3",
			TileUnknown:      "#ffe6d0",
			TileEmpty:        "#cccccc",
			TileNonexistent:  "#666666",
			Names:            "#ffffff",
		},
		Flags: FlagsConfig{
			ShowNames: true,
		},
		WorkspaceNames: map[int]string{},
	}
}

// DefaultPath returns the default configuration file location,
// honoring $XDG_CONFIG_HOME.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "expogrid", "config.yaml")
}

// Load reads the configuration file at path (DefaultPath when empty).
// A missing file yields the defaults; any other read, parse, or
// validation failure is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// finalize validates the raw values and derives the palette.
func (c *Config) finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	palette, err := c.Colors.palettes()
	if err != nil {
		return err
	}
	c.Palette = palette
	if c.WorkspaceNames == nil {
		c.WorkspaceNames = map[int]string{}
	}
	return nil
}

// Validate checks the configuration for errors, accumulating every
// problem rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.UI.GridColumns < 1 || c.UI.GridRows < 1 {
		errs = append(errs, fmt.Errorf("ui.grid_columns and ui.grid_rows must be >= 1 (got %dx%d)",
			c.UI.GridColumns, c.UI.GridRows))
	}
	if c.UI.Workspaces < 1 {
		errs = append(errs, fmt.Errorf("ui.workspaces must be >= 1 (got %d)", c.UI.Workspaces))
	}
	for _, percent := range []struct {
		name  string
		value int
	}{
		{"ui.padding_percent_x", c.UI.PaddingPercentX},
		{"ui.padding_percent_y", c.UI.PaddingPercentY},
		{"ui.spacing_percent_x", c.UI.SpacingPercentX},
		{"ui.spacing_percent_y", c.UI.SpacingPercentY},
	} {
		if percent.value < 0 || percent.value > 40 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 40 (got %d)", percent.name, percent.value))
		}
	}
	if c.UI.HighlightPercent < 0 || c.UI.HighlightPercent > 100 {
		errs = append(errs, fmt.Errorf("ui.highlight_percent must be between 0 and 100 (got %d)", c.UI.HighlightPercent))
	}
	if c.UI.FrameWidthPx < 0 {
		errs = append(errs, fmt.Errorf("ui.frame_width_px must be >= 0 (got %d)", c.UI.FrameWidthPx))
	}

	if c.Capture.ForcedUpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("capture.forced_update_interval must be positive (got %v)",
			c.Capture.ForcedUpdateInterval.Std()))
	}
	if c.Capture.MinUpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("capture.min_update_interval must be positive (got %v)",
			c.Capture.MinUpdateInterval.Std()))
	}
	if c.Capture.MinUpdateInterval >= c.Capture.ForcedUpdateInterval && c.Capture.ForcedUpdateInterval > 0 {
		errs = append(errs, fmt.Errorf("capture.min_update_interval (%v) must be below capture.forced_update_interval (%v)",
			c.Capture.MinUpdateInterval.Std(), c.Capture.ForcedUpdateInterval.Std()))
	}

	for index := range c.WorkspaceNames {
		if index < 1 {
			errs = append(errs, fmt.Errorf("workspace_names: index %d is not a positive workspace number", index))
		}
	}

	return errors.Join(errs...)
}

// Tiles returns the number of grid slots in the overview.
func (c *Config) Tiles() int { return c.UI.GridColumns * c.UI.GridRows }
