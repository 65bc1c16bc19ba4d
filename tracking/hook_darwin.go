//go:build darwin

package tracking

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices
#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>
#include <stdint.h>
#include <stdbool.h>

// Forward declaration of the Go callback
CGEventRef flowshotTapCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon);

// Creates a listen-only event tap for pointer events and runs its loop.
// Takes uintptr_t to avoid Go unsafe.Pointer conversion rules.
static inline bool flowshotRunTap(uintptr_t refcon) {
	CGEventMask mask = CGEventMaskBit(kCGEventLeftMouseDown) |
		CGEventMaskBit(kCGEventLeftMouseUp) |
		CGEventMaskBit(kCGEventRightMouseDown) |
		CGEventMaskBit(kCGEventRightMouseUp) |
		CGEventMaskBit(kCGEventOtherMouseDown) |
		CGEventMaskBit(kCGEventOtherMouseUp) |
		CGEventMaskBit(kCGEventMouseMoved) |
		CGEventMaskBit(kCGEventScrollWheel);

	CFMachPortRef tap = CGEventTapCreate(
		kCGSessionEventTap,
		kCGHeadInsertEventTap,
		kCGEventTapOptionListenOnly,
		mask,
		flowshotTapCallback,
		(void*)refcon);

	if (!tap) {
		return false;
	}

	CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
	CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
	CGEventTapEnable(tap, true);
	CFRunLoopRun();
	return true;
}

static inline bool flowshotIsTrusted() {
	return AXIsProcessTrusted();
}

static inline bool flowshotRequestTrust() {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanTrue };
	CFDictionaryRef options = CFDictionaryCreate(
		kCFAllocatorDefault, keys, values, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	bool trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}

static inline CGPoint flowshotCursorPosition() {
	CGEventRef event = CGEventCreate(NULL);
	CGPoint cursor = CGEventGetLocation(event);
	CFRelease(event);
	return cursor;
}
*/
import "C"

import (
	"runtime"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/flowshot/flowshot/utils"
)

// darwinHook listens for global pointer events through a CGEventTap.
// Requires the accessibility (input monitoring) grant.
type darwinHook struct {
	mu      sync.Mutex
	handler func(RawEvent)
	handle  cgo.Handle
	running bool
}

// NewPlatformHook returns the macOS global pointer hook.
func NewPlatformHook() Hook {
	return &darwinHook{}
}

//export flowshotTapCallback
func flowshotTapCallback(proxy C.CGEventTapProxy, eventType C.CGEventType, event C.CGEventRef, refcon unsafe.Pointer) C.CGEventRef {
	h := cgo.Handle(uintptr(refcon))
	hook := h.Value().(*darwinHook)

	loc := C.CGEventGetLocation(event)
	ev := RawEvent{X: float64(loc.x), Y: float64(loc.y)}

	switch eventType {
	case C.kCGEventLeftMouseDown:
		ev.Kind, ev.Button = RawPress, 1
	case C.kCGEventLeftMouseUp:
		ev.Kind, ev.Button = RawRelease, 1
	case C.kCGEventRightMouseDown:
		ev.Kind, ev.Button = RawPress, 2
	case C.kCGEventRightMouseUp:
		ev.Kind, ev.Button = RawRelease, 2
	case C.kCGEventOtherMouseDown:
		ev.Kind, ev.Button = RawPress, 3
	case C.kCGEventOtherMouseUp:
		ev.Kind, ev.Button = RawRelease, 3
	case C.kCGEventMouseMoved:
		ev.Kind = RawMove
	case C.kCGEventScrollWheel:
		ev.Kind = RawWheel
	default:
		return event
	}

	hook.mu.Lock()
	handler := hook.handler
	hook.mu.Unlock()

	if handler != nil {
		handler(ev)
	}

	// listen-only tap, always pass the event through
	return event
}

func (h *darwinHook) Start(handler func(RawEvent)) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil
	}
	h.handler = handler
	h.running = true
	h.handle = cgo.NewHandle(h)
	handle := h.handle
	h.mu.Unlock()

	go func() {
		// the event tap needs a dedicated thread owning a CFRunLoop
		runtime.LockOSThread()
		if !C.flowshotRunTap(C.uintptr_t(handle)) {
			utils.Warn("Failed to create CGEventTap; accessibility permission missing?")
		}
	}()

	return nil
}

func (h *darwinHook) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return nil
	}
	h.running = false
	h.handler = nil
	h.handle.Delete()
	return nil
}

func (h *darwinHook) CursorPosition() (float64, float64, error) {
	p := C.flowshotCursorPosition()
	return float64(p.x), float64(p.y), nil
}

func (h *darwinHook) CheckPermission() bool {
	return bool(C.flowshotIsTrusted())
}

func (h *darwinHook) RequestPermission() bool {
	return bool(C.flowshotRequestTrust())
}
