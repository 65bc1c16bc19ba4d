package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.Tracking.Tolerance != want.Tracking.Tolerance {
		t.Errorf("tolerance = %v, want %v", cfg.Tracking.Tolerance, want.Tracking.Tolerance)
	}
	if cfg.Layout.Columns != want.Layout.Columns {
		t.Errorf("columns = %d, want %d", cfg.Layout.Columns, want.Layout.Columns)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `
[tracking]
tolerance = 0.25
capture_moves = true

[layout]
columns = 6
node_width = 200

[export]
project_name = demo
quality = 75
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tracking.Tolerance != 0.25 {
		t.Errorf("tolerance = %v, want 0.25", cfg.Tracking.Tolerance)
	}
	if !cfg.Tracking.CaptureMoves {
		t.Error("capture_moves should be true")
	}
	if cfg.Layout.Columns != 6 {
		t.Errorf("columns = %d, want 6", cfg.Layout.Columns)
	}
	if cfg.Layout.NodeWidth != 200 {
		t.Errorf("node_width = %v, want 200", cfg.Layout.NodeWidth)
	}
	// untouched keys keep defaults
	if cfg.Layout.NodeHeight != Default().Layout.NodeHeight {
		t.Errorf("node_height = %v, want default", cfg.Layout.NodeHeight)
	}
	if cfg.Export.ProjectName != "demo" {
		t.Errorf("project_name = %q, want %q", cfg.Export.ProjectName, "demo")
	}
	if cfg.Export.Quality != 75 {
		t.Errorf("quality = %d, want 75", cfg.Export.Quality)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `
[tracking]
tolerance = -1

[layout]
columns = 0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tracking.Tolerance != 0 {
		t.Errorf("tolerance = %v, want 0", cfg.Tracking.Tolerance)
	}
	if cfg.Layout.Columns != 1 {
		t.Errorf("columns = %d, want 1", cfg.Layout.Columns)
	}
}
