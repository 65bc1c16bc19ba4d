// Package tracking records global mouse activity during a screen-recording
// session and maps it into the recording's coordinate space.
package tracking

// Bounds is the absolute-screen rectangle of the area being captured.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position normalized to the recording bounds, each axis in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type EventType string

const (
	EventClick EventType = "click"
	EventMove  EventType = "move"
)

type Button string

const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// ButtonFromCode maps a raw platform button code to a button name.
// Unrecognized codes default to left.
func ButtonFromCode(code int) Button {
	switch code {
	case 2:
		return ButtonRight
	case 3:
		return ButtonMiddle
	default:
		return ButtonLeft
	}
}

// MouseEvent is a single recorded pointer event. Coordinates are normalized
// to the recording bounds and the timestamp is relative to session start.
type MouseEvent struct {
	ID          string    `json:"id"`
	TimestampMs int64     `json:"timestampMs"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Type        EventType `json:"type"`
	Button      Button    `json:"button,omitempty"`
}

// ScreenBounds is the size of the recorded area in screen pixels.
type ScreenBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TrackData is the immutable snapshot returned by StopTracking.
type TrackData struct {
	Events       []MouseEvent `json:"events"`
	ScreenBounds ScreenBounds `json:"screenBounds"`
}
