package commands

import (
	"fmt"

	"github.com/flowshot/flowshot/tracking"
)

// StartTrackingRequest carries the recording bounds in screen coordinates.
type StartTrackingRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StartTrackingCommand begins a mouse tracking session over the given
// recording bounds. A session already in progress is discarded.
func StartTrackingCommand(req StartTrackingRequest) *CommandResponse {
	a := GetApp()

	bounds := tracking.Bounds{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	if err := a.Recorder.StartTracking(bounds); err != nil {
		return NewErrorResponse(fmt.Errorf("error starting tracking: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"tracking": true,
		"bounds":   bounds,
	})
}

// StopTrackingRequest optionally names a file to save the session to.
type StopTrackingRequest struct {
	OutputPath string `json:"outputPath,omitempty"`
}

// StopTrackingCommand ends the active session and returns its events. The
// global input hook stays running for the next session.
func StopTrackingCommand(req StopTrackingRequest) *CommandResponse {
	a := GetApp()

	data := a.Recorder.StopTracking()
	a.setLastTrack(data)

	if req.OutputPath != "" {
		if err := tracking.SaveTrackData(req.OutputPath, data); err != nil {
			return NewErrorResponse(fmt.Errorf("error saving track data: %w", err))
		}
	}

	return NewSuccessResponse(data)
}

// TrackingStatusResponse reports the recorder and hook state.
type TrackingStatusResponse struct {
	Tracking          bool `json:"tracking"`
	HookStarted       bool `json:"hookStarted"`
	PermissionGranted bool `json:"permissionGranted"`
}

func TrackingStatusCommand() *CommandResponse {
	a := GetApp()
	return NewSuccessResponse(TrackingStatusResponse{
		Tracking:          a.Recorder.IsTracking(),
		HookStarted:       a.Hooks.Started(),
		PermissionGranted: a.Hooks.CheckPermission(),
	})
}

// RecordClickRequest names the button for a manually recorded click.
type RecordClickRequest struct {
	Button string `json:"button,omitempty"` // "left", "right" or "middle"
}

// RecordClickCommand records a click at the current cursor position, for
// callers that detect clicks themselves instead of relying on the hook.
func RecordClickCommand(req RecordClickRequest) *CommandResponse {
	a := GetApp()

	if !a.Recorder.IsTracking() {
		return NewErrorResponse(fmt.Errorf("no tracking session in progress"))
	}

	a.Recorder.RecordClick(tracking.Button(req.Button))
	return NewSuccessResponse(map[string]interface{}{"recorded": true})
}

// PermissionCheckCommand reports whether global input monitoring is allowed.
func PermissionCheckCommand() *CommandResponse {
	return NewSuccessResponse(map[string]interface{}{
		"granted": GetApp().Hooks.CheckPermission(),
	})
}

// PermissionRequestCommand asks the OS to prompt the user for input
// monitoring access. The returned value reflects the grant after the prompt.
func PermissionRequestCommand() *CommandResponse {
	return NewSuccessResponse(map[string]interface{}{
		"granted": GetApp().Hooks.RequestPermission(),
	})
}
