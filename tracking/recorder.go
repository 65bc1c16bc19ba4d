package tracking

import (
	"fmt"
	"sync"
	"time"

	"github.com/flowshot/flowshot/utils"
	"github.com/google/uuid"
)

// RecorderOptions tunes a Recorder. Zero values select the defaults.
type RecorderOptions struct {
	// Tolerance overrides the normalizer acceptance band.
	Tolerance float64
	// CaptureMoves records pointer movement in addition to clicks.
	CaptureMoves bool
	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// Recorder owns the state of one tracking session. Sessions move
// Idle -> Tracking -> Idle; starting while tracking discards the previous
// session's buffer (one active session at a time, last start wins).
type Recorder struct {
	hooks        *Manager
	tolerance    float64
	captureMoves bool
	clock        func() time.Time

	mu       sync.Mutex
	tracking bool
	bounds   Bounds
	start    time.Time
	events   []MouseEvent
}

func NewRecorder(hooks *Manager, opts RecorderOptions) *Recorder {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{
		hooks:        hooks,
		tolerance:    tolerance,
		captureMoves: opts.CaptureMoves,
		clock:        clock,
	}
}

// StartTracking begins a session over the given recording bounds. On
// permission or hook failure the recorder state is left untouched and the
// error describes the remedy.
func (r *Recorder) StartTracking(b Bounds) error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid recording bounds: %+v", b)
	}

	if !r.hooks.CheckPermission() {
		return fmt.Errorf("%w; grant input monitoring access and retry", ErrPermissionDenied)
	}

	if err := r.hooks.EnsureStarted(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.tracking {
		utils.Verbose("Tracking restarted, discarding %d buffered events", len(r.events))
	}
	r.tracking = true
	r.bounds = b
	r.start = r.clock()
	r.events = nil
	r.mu.Unlock()

	r.hooks.SetConsumer(r)
	utils.Info("Mouse tracking started (bounds %vx%v at %v,%v)", b.Width, b.Height, b.X, b.Y)
	return nil
}

// StopTracking ends the session and returns its snapshot. The underlying OS
// hook keeps running so the next session starts without hook latency.
// Stopping while idle returns an empty snapshot.
func (r *Recorder) StopTracking() TrackData {
	r.mu.Lock()
	events := r.events
	bounds := r.bounds
	wasTracking := r.tracking
	r.tracking = false
	r.events = nil
	r.bounds = Bounds{}
	r.mu.Unlock()

	r.hooks.ClearConsumer(r)

	if events == nil {
		events = []MouseEvent{}
	}
	if wasTracking {
		utils.Info("Mouse tracking stopped, %d events recorded", len(events))
	}

	return TrackData{
		Events: events,
		ScreenBounds: ScreenBounds{
			Width:  bounds.Width,
			Height: bounds.Height,
		},
	}
}

func (r *Recorder) IsTracking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracking
}

// RecordClick records a click at the current OS cursor position. This is the
// manual fallback for when hook delivery is unreliable; the same bounds and
// normalization rules apply. A no-op while idle.
func (r *Recorder) RecordClick(button Button) {
	x, y, err := r.hooks.CursorPosition()
	if err != nil {
		utils.Verbose("RecordClick: cursor position unavailable: %v", err)
		return
	}
	if button == "" {
		button = ButtonLeft
	}
	r.record(x, y, EventClick, button)
}

// OnClick implements Consumer. Invoked by the hook manager for press events.
func (r *Recorder) OnClick(screenX, screenY float64, button Button) {
	r.record(screenX, screenY, EventClick, button)
}

// OnMove implements Consumer. Movement is only buffered when enabled.
func (r *Recorder) OnMove(screenX, screenY float64) {
	if !r.captureMoves {
		return
	}
	r.record(screenX, screenY, EventMove, "")
}

func (r *Recorder) record(screenX, screenY float64, kind EventType, button Button) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// races between stop and in-flight hook callbacks are expected
	if !r.tracking {
		return
	}

	p, ok := NormalizeWithTolerance(screenX, screenY, r.bounds, r.tolerance)
	if !ok {
		// out-of-bounds events are dropped silently, not an error
		return
	}

	r.events = append(r.events, MouseEvent{
		ID:          uuid.NewString(),
		TimestampMs: r.clock().Sub(r.start).Milliseconds(),
		X:           p.X,
		Y:           p.Y,
		Type:        kind,
		Button:      button,
	})
}
