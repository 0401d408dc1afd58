package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/image-slicer/internal/slicing"
)

// Config holds the application configuration
type Config struct {
	Slicing SlicingConfig `json:"slicing"`
	Output  OutputConfig  `json:"output"`
	Overlay OverlayConfig `json:"overlay"`
}

// SlicingConfig holds the tiling and annotation filtering settings
type SlicingConfig struct {
	SliceHeight         int     `json:"slice_height"`
	SliceWidth          int     `json:"slice_width"`
	OverlapHeightRatio  float64 `json:"overlap_height_ratio"`
	OverlapWidthRatio   float64 `json:"overlap_width_ratio"`
	AutoSliceResolution bool    `json:"auto_slice_resolution"`
	MinAreaRatio        float64 `json:"min_area_ratio"`
	MinAnnotations      int     `json:"min_annotations"`
}

// OutputConfig holds configuration for exported tiles
type OutputConfig struct {
	Extension    string `json:"extension"`
	JPEGQuality  int    `json:"jpeg_quality"`
	LosslessWebP bool   `json:"lossless_webp"`
	OutputDir    string `json:"output_dir"`
}

// OverlayConfig holds configuration for tile plan overlays
type OverlayConfig struct {
	TileColor   string `json:"tile_color"`
	ShowIndices bool   `json:"show_indices"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Slicing: SlicingConfig{
			OverlapHeightRatio:  slicing.DefaultOverlapRatio,
			OverlapWidthRatio:   slicing.DefaultOverlapRatio,
			AutoSliceResolution: true,
			MinAreaRatio:        slicing.DefaultMinAreaRatio,
		},
		Output: OutputConfig{
			Extension:   slicing.DefaultOutExt,
			JPEGQuality: slicing.DefaultJPEGQuality,
			OutputDir:   "./slices",
		},
		Overlay: OverlayConfig{
			TileColor:   "#FF000080",
			ShowIndices: true,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Keys missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.SliceOptions().Validate(); err != nil {
		return fmt.Errorf("slicing: %w", err)
	}

	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100")
	}

	switch c.Output.Extension {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp":
	default:
		return fmt.Errorf("output.extension %q is not a supported image format", c.Output.Extension)
	}

	return nil
}

// SliceOptions converts the slicing and output sections to slicer options.
func (c *Config) SliceOptions() slicing.Options {
	return slicing.Options{
		SliceHeight:            c.Slicing.SliceHeight,
		SliceWidth:             c.Slicing.SliceWidth,
		OverlapHeightRatio:     c.Slicing.OverlapHeightRatio,
		OverlapWidthRatio:      c.Slicing.OverlapWidthRatio,
		AutoSliceResolution:    c.Slicing.AutoSliceResolution,
		MinAreaRatio:           c.Slicing.MinAreaRatio,
		MinOutSliceAnnotations: c.Slicing.MinAnnotations,
		OutExt:                 c.Output.Extension,
		JPEGQuality:            c.Output.JPEGQuality,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "image-slicer", "config.json")
}
