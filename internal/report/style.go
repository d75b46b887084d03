// Package report renders the fixed chart set and the summary workbook from
// the cleaned and aggregated disaster table. It is the load stage of the
// pipeline: everything here consumes read-only inputs.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StyleConfig controls chart geometry and typography. It is passed into the
// renderer explicitly; nothing in this package mutates process-wide plotting
// state.
type StyleConfig struct {
	WidthIn   float64 `yaml:"width_in"`
	HeightIn  float64 `yaml:"height_in"`
	TitleSize float64 `yaml:"title_size_pt"`
	LabelSize float64 `yaml:"label_size_pt"`
	BarWidth  float64 `yaml:"bar_width_pt"`
	TopTypes  int     `yaml:"top_types"`
	TopPlaces int     `yaml:"top_places"`
}

// DefaultStyle mirrors the 12x6-inch, 10pt layout the report was designed
// around.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		WidthIn:   12,
		HeightIn:  6,
		TitleSize: 14,
		LabelSize: 10,
		BarWidth:  18,
		TopTypes:  5,
		TopPlaces: 15,
	}
}

// LoadStyle reads a YAML style file over the defaults. Unset keys keep their
// default values.
func LoadStyle(path string) (StyleConfig, error) {
	cfg := DefaultStyle()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read style config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse style config: %w", err)
	}
	if cfg.WidthIn <= 0 || cfg.HeightIn <= 0 {
		return cfg, fmt.Errorf("style config: width and height must be positive")
	}
	return cfg, nil
}
