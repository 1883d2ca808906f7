// Package config handles terrain print job configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"github.com/printforge/terraprint/pkg/geo"
)

// Config holds one terrain generation job.
type Config struct {
	Location LocationConfig `yaml:"location"`
	Output   OutputConfig   `yaml:"output"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LocationConfig selects the area of interest, either by address plus
// radius or by an explicit bounding box.
type LocationConfig struct {
	Address  string      `yaml:"address"`
	RadiusKM float64     `yaml:"radius_km"`
	Bounds   *geo.Bounds `yaml:"bounds"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Filename     string `yaml:"filename"`
	PrinterBedMM int    `yaml:"printer_bed_mm"`
	Format       string `yaml:"format"` // "stl", "3mf", "obj"
}

// HeightSteppingConfig holds terracing settings.
type HeightSteppingConfig struct {
	Enabled           bool    `yaml:"enabled"`
	StepHeightMM      float64 `yaml:"step_height_mm"`
	SmoothTransitions bool    `yaml:"smooth_transitions"`
	BlendFraction     float64 `yaml:"blend_fraction"` // ramp width as fraction of step height
}

// ColorConfig holds multi-color banding settings.
type ColorConfig struct {
	Enabled          bool     `yaml:"enabled"`
	NumColors        int      `yaml:"num_colors"` // 1-6
	ColorMode        string   `yaml:"color_mode"` // "elevation" or "slope"
	ColorNames       []string `yaml:"color_names"`
	LayerThicknessMM float64  `yaml:"layer_thickness_mm"`
}

// TerrainConfig holds sampling and scaling settings.
type TerrainConfig struct {
	ResolutionMeters     int                  `yaml:"resolution_meters"`
	VerticalExaggeration float64              `yaml:"vertical_exaggeration"`
	BaseThicknessMM      float64              `yaml:"base_thickness_mm"`
	HeightStepping       HeightSteppingConfig `yaml:"height_stepping"`
	Colors               ColorConfig          `yaml:"colors"`
}

// CacheConfig holds elevation cache settings.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Filename:     "terrain.stl",
			PrinterBedMM: 220,
			Format:       "stl",
		},
		Terrain: TerrainConfig{
			ResolutionMeters:     30,
			VerticalExaggeration: 2.0,
			BaseThicknessMM:      5.0,
			HeightStepping: HeightSteppingConfig{
				Enabled:           false,
				StepHeightMM:      2.0,
				SmoothTransitions: true,
				BlendFraction:     0.25,
			},
			Colors: ColorConfig{
				Enabled:          false,
				NumColors:        1,
				ColorMode:        "elevation",
				LayerThicknessMM: 2.0,
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "data/elevation_cache.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the configuration for contradictions before a run starts.
func (c *Config) Validate() error {
	if c.Location.Address == "" && c.Location.Bounds == nil {
		return fmt.Errorf("either location.address or location.bounds must be specified")
	}
	if c.Location.Address != "" && c.Location.Bounds != nil {
		return fmt.Errorf("cannot specify both location.address and location.bounds")
	}
	if c.Location.Address != "" && c.Location.RadiusKM <= 0 {
		return fmt.Errorf("location.radius_km must be positive when using an address")
	}
	if c.Location.Bounds != nil {
		if err := c.Location.Bounds.Validate(); err != nil {
			return err
		}
	}

	if c.Output.Filename == "" {
		return fmt.Errorf("output.filename must be set")
	}
	if c.Output.PrinterBedMM <= 0 {
		return fmt.Errorf("output.printer_bed_mm must be positive, got %d", c.Output.PrinterBedMM)
	}
	switch strings.ToLower(c.Output.Format) {
	case "stl", "3mf", "obj":
	default:
		return fmt.Errorf("output.format must be one of stl, 3mf, obj; got %q", c.Output.Format)
	}

	if c.Terrain.ResolutionMeters <= 0 {
		return fmt.Errorf("terrain.resolution_meters must be positive, got %d", c.Terrain.ResolutionMeters)
	}
	if c.Terrain.VerticalExaggeration <= 0 {
		return fmt.Errorf("terrain.vertical_exaggeration must be positive, got %f", c.Terrain.VerticalExaggeration)
	}
	if c.Terrain.BaseThicknessMM <= 0 {
		return fmt.Errorf("terrain.base_thickness_mm must be positive, got %f", c.Terrain.BaseThicknessMM)
	}

	if c.Terrain.HeightStepping.Enabled {
		if c.Terrain.HeightStepping.StepHeightMM <= 0 {
			return fmt.Errorf("height_stepping.step_height_mm must be positive, got %f",
				c.Terrain.HeightStepping.StepHeightMM)
		}
		if bf := c.Terrain.HeightStepping.BlendFraction; bf < 0 || bf > 0.5 {
			return fmt.Errorf("height_stepping.blend_fraction must be in [0, 0.5], got %f", bf)
		}
	}

	if c.Terrain.Colors.Enabled {
		if n := c.Terrain.Colors.NumColors; n < 1 || n > 6 {
			return fmt.Errorf("colors.num_colors must be between 1 and 6, got %d", n)
		}
		switch c.Terrain.Colors.ColorMode {
		case "elevation", "slope":
		default:
			return fmt.Errorf("colors.color_mode must be elevation or slope, got %q", c.Terrain.Colors.ColorMode)
		}
		if names := c.Terrain.Colors.ColorNames; len(names) != 0 && len(names) != c.Terrain.Colors.NumColors {
			return fmt.Errorf("colors.color_names has %d entries for %d colors",
				len(names), c.Terrain.Colors.NumColors)
		}
		if c.Terrain.Colors.LayerThicknessMM <= 0 {
			return fmt.Errorf("colors.layer_thickness_mm must be positive, got %f",
				c.Terrain.Colors.LayerThicknessMM)
		}
	}

	return nil
}
