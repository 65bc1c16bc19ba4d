// Package extract turns recording timestamps into encoded keyframe images.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// SeekError reports a failed seek to a requested timestamp. Batch extraction
// records these per item instead of aborting.
type SeekError struct {
	TimestampMs int64
	Err         error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("seek to %dms failed: %v", e.TimestampMs, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }

// FrameSource is a seekable supply of decoded video frames. FrameAt must not
// return until the frame backing the requested time is actually available.
type FrameSource interface {
	FrameAt(ctx context.Context, timestampMs int64) (image.Image, error)
	Bounds() (width, height int)
	DurationMs() int64
	Close() error
}

// DirManifest describes a frame-sequence directory produced by the recorder:
// numbered PNG frames at a fixed rate plus this manifest.
type DirManifest struct {
	FPS        float64 `json:"fps"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameCount int     `json:"frameCount"`
}

// DirSource reads frames from a recorder frame-sequence directory.
type DirSource struct {
	dir      string
	manifest DirManifest
}

const frameFilePattern = "frame-%06d.png"

// OpenDir opens a frame-sequence directory and validates its manifest.
func OpenDir(dir string) (*DirSource, error) {
	payload, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("error reading frame manifest: %w", err)
	}

	var manifest DirManifest
	if err := json.Unmarshal(payload, &manifest); err != nil {
		return nil, fmt.Errorf("error decoding frame manifest: %w", err)
	}
	if manifest.FPS <= 0 || manifest.FrameCount <= 0 {
		return nil, fmt.Errorf("invalid frame manifest: fps=%v frames=%d", manifest.FPS, manifest.FrameCount)
	}

	return &DirSource{dir: dir, manifest: manifest}, nil
}

func (s *DirSource) Bounds() (int, int) {
	return s.manifest.Width, s.manifest.Height
}

func (s *DirSource) DurationMs() int64 {
	return int64(float64(s.manifest.FrameCount) / s.manifest.FPS * 1000)
}

// FrameAt decodes the frame covering timestampMs. Timestamps outside the
// recording fail as a seek error.
func (s *DirSource) FrameAt(ctx context.Context, timestampMs int64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &SeekError{TimestampMs: timestampMs, Err: err}
	}
	if timestampMs < 0 || timestampMs > s.DurationMs() {
		return nil, &SeekError{
			TimestampMs: timestampMs,
			Err:         fmt.Errorf("timestamp outside recording (0..%dms)", s.DurationMs()),
		}
	}

	idx := int(float64(timestampMs) * s.manifest.FPS / 1000)
	if idx >= s.manifest.FrameCount {
		idx = s.manifest.FrameCount - 1
	}

	path := filepath.Join(s.dir, fmt.Sprintf(frameFilePattern, idx))
	f, err := os.Open(path)
	if err != nil {
		return nil, &SeekError{TimestampMs: timestampMs, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &SeekError{TimestampMs: timestampMs, Err: fmt.Errorf("error decoding %s: %w", filepath.Base(path), err)}
	}
	return img, nil
}

func (s *DirSource) Close() error { return nil }
