package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func createTestZip(t *testing.T, files map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return zipPath
}

func TestUnzip_ExtractsFiles(t *testing.T) {
	zipPath := createTestZip(t, map[string]string{
		"flow.json":            `{"version":"1"}`,
		"assets/frame-001.png": "fake-png",
	})

	destDir, err := Unzip(zipPath)
	if err != nil {
		t.Fatalf("Unzip() error: %v", err)
	}
	defer os.RemoveAll(destDir)

	payload, err := os.ReadFile(filepath.Join(destDir, "flow.json"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(payload) != `{"version":"1"}` {
		t.Errorf("extracted content = %q", payload)
	}
	if _, err := os.Stat(filepath.Join(destDir, "assets", "frame-001.png")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
}

func TestUnzip_RejectsPathTraversal(t *testing.T) {
	zipPath := createTestZip(t, map[string]string{
		"../escape.txt": "nope",
	})

	if _, err := Unzip(zipPath); err == nil {
		t.Error("Unzip() should reject entries escaping the destination")
	}
}

func TestZipDirectoryRoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "pkg")
	if err := os.MkdirAll(filepath.Join(src, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "flow.json"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "assets", "frame-001.png"), []byte("png"), 0o600); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "pkg.zip")
	if err := ZipDirectory(src, dest); err != nil {
		t.Fatalf("ZipDirectory() error: %v", err)
	}

	out, err := Unzip(dest)
	if err != nil {
		t.Fatalf("Unzip() error: %v", err)
	}
	defer os.RemoveAll(out)

	if _, err := os.Stat(filepath.Join(out, "pkg", "assets", "frame-001.png")); err != nil {
		t.Errorf("archived file missing after round trip: %v", err)
	}
}

func TestZipDirectory_MissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.zip")
	if err := ZipDirectory("/nonexistent/dir", dest); err == nil {
		t.Error("ZipDirectory() should fail for a missing source")
	}
}
