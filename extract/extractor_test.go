package extract

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/flowshot/flowshot/flowgraph"
	"github.com/flowshot/flowshot/tracking"
)

func newTestExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	dir := writeFrameDir(t, 10, 5, 64, 48)
	src, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { src.Close() })
	return New(src, opts)
}

func TestExtractAtProducesKeyframe(t *testing.T) {
	e := newTestExtractor(t, Options{})

	pos := flowgraph.Point{X: 0.25, Y: 0.75}
	k, err := e.ExtractAt(context.Background(), Request{
		TimestampMs:   100,
		MousePosition: &pos,
		Label:         "Step 1",
		Source:        flowgraph.SourceClick,
	})
	if err != nil {
		t.Fatalf("ExtractAt() error = %v", err)
	}

	if k.ID == "" {
		t.Error("keyframe has no id")
	}
	if k.TimestampMs != 100 || k.Source != flowgraph.SourceClick || k.Label != "Step 1" {
		t.Errorf("keyframe = %+v", k)
	}
	if k.MousePosition == nil || *k.MousePosition != pos {
		t.Errorf("mousePosition = %v, want %v", k.MousePosition, pos)
	}
	if k.ImageWidth != 64 || k.ImageHeight != 48 {
		t.Errorf("image size = %dx%d, want 64x48", k.ImageWidth, k.ImageHeight)
	}

	img, err := png.Decode(bytes.NewReader(k.ImageData))
	if err != nil {
		t.Fatalf("image data is not png: %v", err)
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != 10 {
		t.Errorf("decoded pixel R=%d, want 10", uint8(r>>8))
	}
}

func TestExtractAtDownscales(t *testing.T) {
	e := newTestExtractor(t, Options{MaxWidth: 32, MaxHeight: 100})

	k, err := e.ExtractAt(context.Background(), Request{TimestampMs: 0})
	if err != nil {
		t.Fatalf("ExtractAt() error = %v", err)
	}
	if k.ImageWidth != 32 || k.ImageHeight != 24 {
		t.Errorf("image size = %dx%d, want 32x24", k.ImageWidth, k.ImageHeight)
	}
}

func TestExtractBatchAggregatesFailures(t *testing.T) {
	e := newTestExtractor(t, Options{})

	reqs := []Request{
		{TimestampMs: 100},
		{TimestampMs: -5},
		{TimestampMs: 200},
	}

	var steps [][2]int
	batch := e.ExtractBatch(context.Background(), reqs, func(current, total int) {
		steps = append(steps, [2]int{current, total})
	})

	if batch.Total != 3 || batch.Successful != 2 || batch.Failed != 1 {
		t.Errorf("batch = total %d / successful %d / failed %d, want 3 / 2 / 1",
			batch.Total, batch.Successful, batch.Failed)
	}

	// results keep input order; the failure sits in the middle
	if len(batch.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(batch.Results))
	}
	if !batch.Results[0].Success || batch.Results[1].Success || !batch.Results[2].Success {
		t.Errorf("success flags = [%v %v %v], want [true false true]",
			batch.Results[0].Success, batch.Results[1].Success, batch.Results[2].Success)
	}

	var seekErr *SeekError
	if !errors.As(batch.Results[1].Err, &seekErr) {
		t.Errorf("failed result error = %v, want *SeekError", batch.Results[1].Err)
	}
	if batch.Results[1].Keyframe != nil {
		t.Error("failed result must carry no keyframe")
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(steps) != len(want) {
		t.Fatalf("progress calls = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("progress call %d = %v, want %v", i, steps[i], want[i])
		}
	}
}

func TestRequestsFromClicksSkipsMoves(t *testing.T) {
	events := []tracking.MouseEvent{
		{TimestampMs: 100, X: 0.1, Y: 0.2, Type: tracking.EventClick, Button: tracking.ButtonLeft},
		{TimestampMs: 150, X: 0.3, Y: 0.4, Type: tracking.EventMove},
		{TimestampMs: 200, X: 0.5, Y: 0.6, Type: tracking.EventClick, Button: tracking.ButtonRight},
	}

	reqs := RequestsFromClicks(events)
	if len(reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(reqs))
	}
	if reqs[0].Label != "Step 1" || reqs[1].Label != "Step 2" {
		t.Errorf("labels = [%q %q], want [Step 1, Step 2]", reqs[0].Label, reqs[1].Label)
	}
	if reqs[1].TimestampMs != 200 || reqs[1].MousePosition.X != 0.5 {
		t.Errorf("request 1 = %+v", reqs[1])
	}
	for _, r := range reqs {
		if r.Source != flowgraph.SourceClick {
			t.Errorf("source = %s, want click", r.Source)
		}
	}
}

func TestExtractFromClicks(t *testing.T) {
	e := newTestExtractor(t, Options{})
	events := []tracking.MouseEvent{
		{TimestampMs: 100, X: 0.5, Y: 0.5, Type: tracking.EventClick},
		{TimestampMs: 300, X: 0.6, Y: 0.6, Type: tracking.EventClick},
	}

	batch := e.ExtractFromClicks(context.Background(), events, nil)
	if batch.Successful != 2 {
		t.Fatalf("successful = %d, want 2", batch.Successful)
	}
	for i, res := range batch.Results {
		if res.Keyframe.MousePosition == nil {
			t.Errorf("result %d missing mouse position", i)
		}
	}
}

func TestSolidBackgroundAddsPadding(t *testing.T) {
	e := newTestExtractor(t, Options{
		Background: &Background{
			Kind:    BackgroundSolid,
			Color:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
			Padding: 16,
		},
	})

	k, err := e.ExtractAt(context.Background(), Request{TimestampMs: 0})
	if err != nil {
		t.Fatalf("ExtractAt() error = %v", err)
	}
	if k.ImageWidth != 64+32 || k.ImageHeight != 48+32 {
		t.Errorf("image size = %dx%d, want 96x80", k.ImageWidth, k.ImageHeight)
	}

	img, err := png.Decode(bytes.NewReader(k.ImageData))
	if err != nil {
		t.Fatal(err)
	}
	// corner shows the background, center shows the frame
	r, g, b, _ := img.At(0, 0).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Error("corner pixel is not the background color")
	}
	r, _, _, _ = img.At(48, 40).RGBA()
	if uint8(r>>8) != 0 {
		t.Errorf("center pixel R=%d, want 0 (frame 0)", uint8(r>>8))
	}
}

func TestGradientBackgroundInterpolates(t *testing.T) {
	c := newCompositor()
	frame := writeFrameDir(t, 10, 1, 4, 4)
	src, err := OpenDir(frame)
	if err != nil {
		t.Fatal(err)
	}
	img, err := src.FrameAt(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	out := c.apply(img, &Background{
		Kind:    BackgroundGradient,
		From:    color.RGBA{R: 0, A: 255},
		To:      color.RGBA{R: 200, A: 255},
		Padding: 10,
	})

	b := out.Bounds()
	topR, _, _, _ := out.At(0, 0).RGBA()
	bottomR, _, _, _ := out.At(0, b.Max.Y-1).RGBA()
	if uint8(topR>>8) != 0 {
		t.Errorf("top R=%d, want 0", uint8(topR>>8))
	}
	if uint8(bottomR>>8) != 200 {
		t.Errorf("bottom R=%d, want 200", uint8(bottomR>>8))
	}
}

func TestImageBackgroundFallsBackToSolid(t *testing.T) {
	c := newCompositor()
	dir := writeFrameDir(t, 10, 1, 4, 4)
	src, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	img, err := src.FrameAt(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}

	out := c.apply(img, &Background{
		Kind:    BackgroundImage,
		Path:    "/nonexistent/bg.png",
		Color:   color.RGBA{G: 128, A: 255},
		Padding: 8,
	})

	_, g, _, _ := out.At(0, 0).RGBA()
	if uint8(g>>8) != 128 {
		t.Errorf("fallback corner G=%d, want 128", uint8(g>>8))
	}
}
