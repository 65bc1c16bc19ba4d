package commands

import (
	"sync"

	"github.com/flowshot/flowshot/config"
	"github.com/flowshot/flowshot/flowgraph"
	"github.com/flowshot/flowshot/tracking"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// App holds the long-lived collaborators every command works against: the
// global input hook, the session recorder, the flow graph editor and the
// loaded configuration. One App exists per process.
type App struct {
	Hooks    *tracking.Manager
	Recorder *tracking.Recorder
	Editor   *flowgraph.Editor
	Config   *config.Config

	mu        sync.Mutex
	lastTrack *tracking.TrackData
}

// NewApp wires an App from the loaded configuration using the platform's
// native input hook.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	hooks := tracking.NewManager(tracking.NewPlatformHook())
	recorder := tracking.NewRecorder(hooks, tracking.RecorderOptions{
		Tolerance:    cfg.Tracking.Tolerance,
		CaptureMoves: cfg.Tracking.CaptureMoves,
	})

	layout := flowgraph.Layout{
		Columns:    cfg.Layout.Columns,
		NodeWidth:  cfg.Layout.NodeWidth,
		NodeHeight: cfg.Layout.NodeHeight,
		GapX:       cfg.Layout.GapX,
		GapY:       cfg.Layout.GapY,
		OriginX:    cfg.Layout.OriginX,
		OriginY:    cfg.Layout.OriginY,
	}

	return &App{
		Hooks:    hooks,
		Recorder: recorder,
		Editor:   flowgraph.NewEditor(flowgraph.New(layout)),
		Config:   cfg,
	}
}

// app is set once at application startup via SetApp (main.go or server
// startup) and used by every command.
var app *App

// SetApp installs the process-wide App. This should be called once at
// application startup, before any command runs.
func SetApp(a *App) {
	app = a
}

// GetApp returns the process-wide App, building a default one on first use
// so commands stay usable from tests and embedded callers.
func GetApp() *App {
	if app == nil {
		app = NewApp(config.Default())
	}
	return app
}

// setLastTrack stores the snapshot of the most recently stopped session.
func (a *App) setLastTrack(data tracking.TrackData) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastTrack = &data
}

// LastTrack returns the snapshot of the most recently stopped session, or
// false if no session has been recorded yet.
func (a *App) LastTrack() (tracking.TrackData, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastTrack == nil {
		return tracking.TrackData{}, false
	}
	return *a.lastTrack, true
}
