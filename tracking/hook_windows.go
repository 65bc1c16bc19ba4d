//go:build windows

package tracking

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows implementation using a low-level mouse hook (WH_MOUSE_LL).
// There is no input-monitoring permission model on Windows.

const (
	whMouseLL     = 14
	wmQuit        = 0x0012
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
)

type winPoint struct {
	X, Y int32
}

type msllHookStruct struct {
	Pt          winPoint
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winMsg struct {
	Hwnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      winPoint
}

type windowsHook struct {
	mu       sync.Mutex
	handler  func(RawEvent)
	hook     windows.Handle
	threadID uint32
	running  bool
}

// NewPlatformHook returns the Windows global pointer hook.
func NewPlatformHook() Hook {
	return &windowsHook{}
}

func (h *windowsHook) Start(handler func(RawEvent)) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return nil
	}
	h.handler = handler
	h.running = true
	h.mu.Unlock()

	ready := make(chan error, 1)

	go func() {
		// the hook and its message loop must share one OS thread
		runtime.LockOSThread()

		hook, _, err := procSetWindowsHookEx.Call(
			whMouseLL,
			syscall.NewCallback(h.hookProc),
			0,
			0,
		)
		if hook == 0 {
			ready <- fmt.Errorf("SetWindowsHookEx failed: %v", err)
			return
		}

		h.mu.Lock()
		h.hook = windows.Handle(hook)
		h.threadID = windows.GetCurrentThreadId()
		h.mu.Unlock()
		ready <- nil

		var msg winMsg
		for {
			ret, _, _ := procGetMessage.Call(
				uintptr(unsafe.Pointer(&msg)),
				0, 0, 0,
			)
			if int32(ret) <= 0 {
				return
			}
		}
	}()

	if err := <-ready; err != nil {
		h.mu.Lock()
		h.running = false
		h.handler = nil
		h.mu.Unlock()
		return err
	}

	return nil
}

func (h *windowsHook) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return nil
	}
	h.running = false
	h.handler = nil

	if h.hook != 0 {
		procUnhookWindowsHookEx.Call(uintptr(h.hook))
		h.hook = 0
	}
	if h.threadID != 0 {
		procPostThreadMessage.Call(uintptr(h.threadID), wmQuit, 0, 0)
		h.threadID = 0
	}
	return nil
}

func (h *windowsHook) hookProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		info := (*msllHookStruct)(unsafe.Pointer(lParam))
		ev := RawEvent{X: float64(info.Pt.X), Y: float64(info.Pt.Y)}
		deliver := true

		switch uint32(wParam) {
		case wmMouseMove:
			ev.Kind = RawMove
		case wmLButtonDown:
			ev.Kind, ev.Button = RawPress, 1
		case wmLButtonUp:
			ev.Kind, ev.Button = RawRelease, 1
		case wmRButtonDown:
			ev.Kind, ev.Button = RawPress, 2
		case wmRButtonUp:
			ev.Kind, ev.Button = RawRelease, 2
		case wmMButtonDown:
			ev.Kind, ev.Button = RawPress, 3
		case wmMButtonUp:
			ev.Kind, ev.Button = RawRelease, 3
		case wmMouseWheel:
			ev.Kind = RawWheel
		default:
			deliver = false
		}

		if deliver {
			h.mu.Lock()
			handler := h.handler
			h.mu.Unlock()
			if handler != nil {
				handler(ev)
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (h *windowsHook) CursorPosition() (float64, float64, error) {
	var p winPoint
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if ret == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos failed: %v", err)
	}
	return float64(p.X), float64(p.Y), nil
}

func (h *windowsHook) CheckPermission() bool {
	return true
}

func (h *windowsHook) RequestPermission() bool {
	return true
}
