package tracking

// DefaultTolerance is the acceptance band around the recording bounds,
// as a fraction of the bounds size. Points up to this far outside are
// clamped in; anything farther is rejected. The band absorbs display
// scaling and border jitter without admitting clicks on other monitors.
const DefaultTolerance = 0.1

// Normalize maps an absolute screen point into the recording's unit space
// using the default tolerance. It reports false when the point is rejected.
func Normalize(screenX, screenY float64, b Bounds) (Point, bool) {
	return NormalizeWithTolerance(screenX, screenY, b, DefaultTolerance)
}

// NormalizeWithTolerance maps an absolute screen point into unit coordinates
// relative to b. Points within the tolerance band outside [0,1] are clamped;
// points beyond it are rejected.
func NormalizeWithTolerance(screenX, screenY float64, b Bounds, tolerance float64) (Point, bool) {
	if b.Width <= 0 || b.Height <= 0 {
		return Point{}, false
	}

	x := (screenX - b.X) / b.Width
	y := (screenY - b.Y) / b.Height

	if x < -tolerance || x > 1+tolerance || y < -tolerance || y > 1+tolerance {
		return Point{}, false
	}

	return Point{X: clamp01(x), Y: clamp01(y)}, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
