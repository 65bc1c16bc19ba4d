package tracking

import (
	"errors"
	"fmt"
	"sync"

	"github.com/flowshot/flowshot/utils"
)

// ErrPermissionDenied is returned when the platform refuses global input
// monitoring (e.g. no accessibility grant on macOS).
var ErrPermissionDenied = errors.New("input monitoring permission not granted")

type RawKind string

const (
	RawPress   RawKind = "press"
	RawRelease RawKind = "release"
	RawMove    RawKind = "move"
	RawClick   RawKind = "click"
	RawWheel   RawKind = "wheel"
)

// RawEvent is a pointer event as delivered by the OS-level hook, with
// absolute screen coordinates.
type RawEvent struct {
	Kind   RawKind
	X, Y   float64
	Button int
}

// Hook is a platform-specific global pointer listener. Implementations
// deliver events to the handler passed to Start from their own goroutine.
type Hook interface {
	Start(handler func(RawEvent)) error
	Stop() error
	CursorPosition() (x, y float64, err error)
	CheckPermission() bool
	RequestPermission() bool
}

// Consumer receives normalized-ready pointer events from the hook manager.
type Consumer interface {
	OnClick(screenX, screenY float64, button Button)
	OnMove(screenX, screenY float64)
}

// Manager owns the process-wide global hook. The underlying OS hook is
// started at most once per process and is left running across recording
// sessions; whether events are acted on is decided by the active consumer.
type Manager struct {
	hook Hook

	mu       sync.Mutex
	started  bool
	consumer Consumer
}

func NewManager(hook Hook) *Manager {
	return &Manager{hook: hook}
}

// EnsureStarted starts the underlying OS hook if it is not running yet.
// Subsequent calls are no-ops.
func (m *Manager) EnsureStarted() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return nil
	}

	if !m.hook.CheckPermission() {
		return ErrPermissionDenied
	}

	if err := m.hook.Start(m.dispatch); err != nil {
		return fmt.Errorf("failed to start global input hook: %w", err)
	}

	m.started = true
	utils.Verbose("Global input hook started")
	return nil
}

// Stop tears down the OS hook. Intended for process shutdown only; ending a
// recording session must not stop the hook, restarting it is expensive.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return nil
	}

	m.started = false
	if err := m.hook.Stop(); err != nil {
		return err
	}

	utils.Verbose("Global input hook stopped")
	return nil
}

func (m *Manager) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// SetConsumer installs the consumer that receives hook events. Only one
// consumer is active at a time; setting a new one replaces the previous.
func (m *Manager) SetConsumer(c Consumer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consumer = c
}

// ClearConsumer removes c if it is still the active consumer.
func (m *Manager) ClearConsumer(c Consumer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.consumer == c {
		m.consumer = nil
	}
}

func (m *Manager) CursorPosition() (float64, float64, error) {
	return m.hook.CursorPosition()
}

func (m *Manager) CheckPermission() bool {
	return m.hook.CheckPermission()
}

func (m *Manager) RequestPermission() bool {
	return m.hook.RequestPermission()
}

func (m *Manager) dispatch(ev RawEvent) {
	m.mu.Lock()
	c := m.consumer
	m.mu.Unlock()

	if c == nil {
		return
	}

	switch ev.Kind {
	case RawPress, RawClick:
		c.OnClick(ev.X, ev.Y, ButtonFromCode(ev.Button))
	case RawMove:
		c.OnMove(ev.X, ev.Y)
	case RawRelease, RawWheel:
		// releases and wheel activity are not recorded
	}
}
