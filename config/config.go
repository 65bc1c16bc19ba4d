// Package config loads flowshot settings from an INI file, falling back to
// built-in defaults when the file or a key is absent.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// TrackingConfig controls the session recorder.
type TrackingConfig struct {
	// Tolerance is the acceptance band around the recording bounds,
	// expressed as a fraction of the bounds size.
	Tolerance float64
	// CaptureMoves records pointer movement events in addition to clicks.
	CaptureMoves bool
}

// LayoutConfig holds the flow graph grid parameters.
type LayoutConfig struct {
	Columns    int
	NodeWidth  float64
	NodeHeight float64
	GapX       float64
	GapY       float64
	OriginX    float64
	OriginY    float64
}

// ExportConfig holds export package defaults.
type ExportConfig struct {
	ProjectName string
	Format      string // "png" or "jpeg"
	Quality     int    // 1-100, jpeg only
}

type Config struct {
	Tracking TrackingConfig
	Layout   LayoutConfig
	Export   ExportConfig
}

func Default() *Config {
	return &Config{
		Tracking: TrackingConfig{
			Tolerance:    0.1,
			CaptureMoves: false,
		},
		Layout: LayoutConfig{
			Columns:    4,
			NodeWidth:  320,
			NodeHeight: 180,
			GapX:       80,
			GapY:       100,
			OriginX:    100,
			OriginY:    100,
		},
		Export: ExportConfig{
			ProjectName: "flowshot recording",
			Format:      "png",
			Quality:     90,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".flowshot", "config.ini")
}

// Load reads the config file at path. A missing file is not an error; the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	tracking := file.Section("tracking")
	cfg.Tracking.Tolerance = tracking.Key("tolerance").MustFloat64(cfg.Tracking.Tolerance)
	cfg.Tracking.CaptureMoves = tracking.Key("capture_moves").MustBool(cfg.Tracking.CaptureMoves)

	layout := file.Section("layout")
	cfg.Layout.Columns = layout.Key("columns").MustInt(cfg.Layout.Columns)
	cfg.Layout.NodeWidth = layout.Key("node_width").MustFloat64(cfg.Layout.NodeWidth)
	cfg.Layout.NodeHeight = layout.Key("node_height").MustFloat64(cfg.Layout.NodeHeight)
	cfg.Layout.GapX = layout.Key("gap_x").MustFloat64(cfg.Layout.GapX)
	cfg.Layout.GapY = layout.Key("gap_y").MustFloat64(cfg.Layout.GapY)
	cfg.Layout.OriginX = layout.Key("origin_x").MustFloat64(cfg.Layout.OriginX)
	cfg.Layout.OriginY = layout.Key("origin_y").MustFloat64(cfg.Layout.OriginY)

	export := file.Section("export")
	cfg.Export.ProjectName = export.Key("project_name").MustString(cfg.Export.ProjectName)
	cfg.Export.Format = export.Key("format").MustString(cfg.Export.Format)
	cfg.Export.Quality = export.Key("quality").MustInt(cfg.Export.Quality)

	if cfg.Layout.Columns < 1 {
		cfg.Layout.Columns = 1
	}
	if cfg.Tracking.Tolerance < 0 {
		cfg.Tracking.Tolerance = 0
	}

	return cfg, nil
}
