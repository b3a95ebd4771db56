// Package config provides configuration loading for the spot tools server.
// It loads YAML files and fills in default values for anything not set.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
	"github.com/ironsheep/spot-tools-mcp/internal/spot"
)

// Config represents the server configuration loaded from YAML.
// Tool arguments override these values per call.
type Config struct {
	// Image conversion defaults
	Image struct {
		// Calibration is the physical pixel size per axis (x, y, optional z).
		Calibration []float64 `yaml:"calibration"`

		// Intensity is the IntensityMode used for color images.
		Intensity string `yaml:"intensity"`

		// SmoothRadius applies a Gaussian blur before measuring. 0 disables it.
		SmoothRadius float64 `yaml:"smoothRadius"`
	} `yaml:"image"`

	// Spot defaults
	Spots struct {
		// DefaultRadius is used when a spot omits its radius.
		DefaultRadius float64 `yaml:"defaultRadius"`
	} `yaml:"spots"`

	// Output limits and rendering
	Output struct {
		// MaxSamples caps the number of pixels spot_pixels returns.
		MaxSamples int `yaml:"maxSamples"`

		// OverlayColor tints member pixels in spot_crop previews.
		OverlayColor string `yaml:"overlayColor"`

		// CropPadding adds context pixels around the spot bounding box.
		CropPadding int `yaml:"cropPadding"`

		// CropScale enlarges previews so small spots stay visible.
		CropScale float64 `yaml:"cropScale"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Image.Calibration = spot.Uniform(3, 1)
	cfg.Image.Intensity = string(imaging.IntensityLuma)
	cfg.Image.SmoothRadius = 0

	cfg.Spots.DefaultRadius = 2.5

	cfg.Output.MaxSamples = 10000
	cfg.Output.OverlayColor = imaging.DefaultOverlayColor
	cfg.Output.CropPadding = 3
	cfg.Output.CropScale = 8

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if n := len(c.Image.Calibration); n < 2 || n > 3 {
		return fmt.Errorf("image.calibration needs 2 or 3 entries, got %d", n)
	}
	for i, v := range c.Image.Calibration {
		if v <= 0 {
			return fmt.Errorf("image.calibration[%d] must be positive, got %g", i, v)
		}
	}
	if _, err := imaging.ParseIntensityMode(c.Image.Intensity); err != nil {
		return fmt.Errorf("image.intensity: %w", err)
	}
	if c.Image.SmoothRadius < 0 {
		return fmt.Errorf("image.smoothRadius must not be negative, got %g", c.Image.SmoothRadius)
	}
	if c.Spots.DefaultRadius < 0 {
		return fmt.Errorf("spots.defaultRadius must not be negative, got %g", c.Spots.DefaultRadius)
	}
	if c.Output.MaxSamples <= 0 {
		return fmt.Errorf("output.maxSamples must be positive, got %d", c.Output.MaxSamples)
	}
	if _, err := colorful.Hex(c.Output.OverlayColor); err != nil {
		return fmt.Errorf("output.overlayColor: %w", err)
	}
	if c.Output.CropPadding < 0 {
		return fmt.Errorf("output.cropPadding must not be negative, got %d", c.Output.CropPadding)
	}
	if c.Output.CropScale <= 0 {
		return fmt.Errorf("output.cropScale must be positive, got %g", c.Output.CropScale)
	}
	return nil
}

// ZStep returns the z calibration, or 1 when only x and y are configured.
func (c *Config) ZStep() float64 {
	if len(c.Image.Calibration) >= 3 {
		return c.Image.Calibration[2]
	}
	return 1
}
