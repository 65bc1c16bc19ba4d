//go:build !windows && !darwin

package tracking

import (
	"fmt"
	"sync"

	"github.com/flowshot/flowshot/utils"
)

// stubHook is used on platforms without a global pointer hook. Starting it
// succeeds but no events are ever delivered; clicks can still be recorded
// through the manual RecordClick path when a cursor source exists.
type stubHook struct {
	mu      sync.Mutex
	running bool
}

// NewPlatformHook returns a no-op hook for unsupported platforms.
func NewPlatformHook() Hook {
	return &stubHook{}
}

func (h *stubHook) Start(handler func(RawEvent)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		utils.Warn("Global pointer hooks are not supported on this platform")
	}
	h.running = true
	return nil
}

func (h *stubHook) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.running = false
	return nil
}

func (h *stubHook) CursorPosition() (float64, float64, error) {
	return 0, 0, fmt.Errorf("cursor position not available on this platform")
}

// no permission model outside macOS
func (h *stubHook) CheckPermission() bool { return true }

func (h *stubHook) RequestPermission() bool { return true }
