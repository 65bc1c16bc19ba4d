package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// EncodeImage encodes img as png, jpeg or webp. Quality applies to jpeg and
// webp only.
func EncodeImage(img image.Image, format string, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = 90
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "", "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format '%s'. Supported formats are 'png', 'jpeg' and 'webp'", format)
	}

	return buf.Bytes(), nil
}

// FitWithin computes the target size for an image of w by h so it fits within
// maxW by maxH while preserving aspect ratio. Each axis is bounded in turn:
// the width bound is applied first, then the height bound against the
// already-scaled size. A bound of zero means unbounded on that axis.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW > 0 && w > maxW {
		scale := float64(maxW) / float64(w)
		w = maxW
		h = int(math.Round(float64(h) * scale))
	}
	if maxH > 0 && h > maxH {
		scale := float64(maxH) / float64(h)
		h = maxH
		w = int(math.Round(float64(w) * scale))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize scales img to exactly w by h.
func Resize(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
