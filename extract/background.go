package extract

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/flowshot/flowshot/utils"
)

// BackgroundKind selects how the canvas behind a keyframe is painted.
type BackgroundKind string

const (
	BackgroundNone     BackgroundKind = "none"
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Background describes the optional canvas composited behind extracted frames.
// Padding is the margin in pixels between the frame and the canvas edge.
type Background struct {
	Kind    BackgroundKind `json:"kind"`
	Color   color.RGBA     `json:"color"`
	From    color.RGBA     `json:"from"`
	To      color.RGBA     `json:"to"`
	Path    string         `json:"path,omitempty"`
	Padding int            `json:"padding"`
}

// compositor paints frames onto backgrounds. Decoded background images are
// cached so batch extraction does not re-decode the same file per frame.
type compositor struct {
	cache *lru.Cache[string, image.Image]
}

func newCompositor() *compositor {
	cache, _ := lru.New[string, image.Image](8)
	return &compositor{cache: cache}
}

// apply returns the frame composited onto the configured background. A nil
// or none background returns the frame untouched.
func (c *compositor) apply(frame image.Image, bg *Background) image.Image {
	if bg == nil || bg.Kind == BackgroundNone || bg.Kind == "" {
		return frame
	}

	pad := bg.Padding
	if pad < 0 {
		pad = 0
	}
	fb := frame.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, fb.Dx()+2*pad, fb.Dy()+2*pad))

	switch bg.Kind {
	case BackgroundSolid:
		fillSolid(canvas, bg.Color)
	case BackgroundGradient:
		fillGradient(canvas, bg.From, bg.To)
	case BackgroundImage:
		img, err := c.loadImage(bg.Path)
		if err != nil {
			utils.Warn("Background image unavailable, using solid fill: %v", err)
			fillSolid(canvas, bg.Color)
		} else {
			xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		}
	default:
		return frame
	}

	target := image.Rect(pad, pad, pad+fb.Dx(), pad+fb.Dy())
	xdraw.Draw(canvas, target, frame, fb.Min, xdraw.Over)
	return canvas
}

func (c *compositor) loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no background image path configured")
	}
	if img, ok := c.cache.Get(path); ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding background %s: %w", path, err)
	}
	c.cache.Add(path, img)
	return img, nil
}

func fillSolid(canvas *image.RGBA, col color.RGBA) {
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// fillGradient paints a vertical linear gradient row by row.
func fillGradient(canvas *image.RGBA, from, to color.RGBA) {
	b := canvas.Bounds()
	h := b.Dy()
	for y := 0; y < h; y++ {
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		row := color.RGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: lerp(from.A, to.A, t),
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			canvas.SetRGBA(x, b.Min.Y+y, row)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
