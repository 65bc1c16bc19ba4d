package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowshot/flowshot/commands"
)

// HandlerFunc is the signature for non-streaming JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

var errMethodNotFound = errors.New("method not found")

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the WebSocket endpoint
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":                  handleStatus,
		"doctor":                  handleDoctor,
		"tracking.start":          handleTrackingStart,
		"tracking.stop":           handleTrackingStop,
		"tracking.status":         handleStatus,
		"tracking.click":          handleTrackingClick,
		"permission.check":        handlePermissionCheck,
		"permission.request":      handlePermissionRequest,
		"extract.frame":           handleExtractFrame,
		"extract.clicks":          handleExtractClicks,
		"extract.probe":           handleExtractProbe,
		"graph.get":               handleGraphGet,
		"graph.autolayout":        handleGraphAutoLayout,
		"graph.keyframe.update":   handleKeyframeUpdate,
		"graph.keyframe.remove":   handleKeyframeRemove,
		"graph.region.add":        handleRegionAdd,
		"graph.region.update":     handleRegionUpdate,
		"graph.region.remove":     handleRegionRemove,
		"graph.connection.add":    handleConnectionAdd,
		"graph.connection.update": handleConnectionUpdate,
		"graph.connection.remove": handleConnectionRemove,
		"graph.undo":              handleGraphUndo,
		"graph.redo":              handleGraphRedo,
		"graph.save":              handleGraphSave,
		"graph.load":              handleGraphLoad,
		"export.package":          handleExport,
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, errMethodNotFound
	}

	return handler(params)
}

// unwrap converts a command response into the JSON-RPC result/error pair.
func unwrap(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	if response.Data == nil {
		return okResponse, nil
	}
	return response.Data, nil
}

func handleStatus(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.TrackingStatusCommand())
}

func handleDoctor(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.DoctorCommand(Version))
}

// Version is stamped by the CLI at startup so doctor reports match the
// binary.
var Version = "dev"

func handleTrackingStart(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: x, y, width, height")
	}

	var req commands.StartTrackingRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: x, y, width, height", err)
	}

	return unwrap(commands.StartTrackingCommand(req))
}

func handleTrackingStop(params json.RawMessage) (interface{}, error) {
	var req commands.StopTrackingRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v", err)
		}
	}

	return unwrap(commands.StopTrackingCommand(req))
}

func handleTrackingClick(params json.RawMessage) (interface{}, error) {
	var req commands.RecordClickRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v. Expected fields: button", err)
		}
	}

	return unwrap(commands.RecordClickCommand(req))
}

func handlePermissionCheck(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.PermissionCheckCommand())
}

func handlePermissionRequest(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.PermissionRequestCommand())
}

func handleExtractFrame(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: sourceDir, timestampMs")
	}

	var req commands.ExtractFrameRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: sourceDir, timestampMs", err)
	}

	// server callers get base64 data unless they asked for a file
	if req.OutputPath == "" {
		req.OutputPath = "-"
	}

	return unwrap(commands.ExtractFrameCommand(req))
}

func handleExtractClicks(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: sourceDir")
	}

	var req commands.ExtractClicksRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: sourceDir", err)
	}

	return unwrap(commands.ExtractClicksCommand(req))
}

func handleExtractProbe(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: path")
	}

	var req commands.ProbeRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: path", err)
	}

	return unwrap(commands.ProbeCommand(req))
}

func handleGraphGet(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.GraphCommand())
}

func handleGraphAutoLayout(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.AutoLayoutCommand())
}

func handleKeyframeUpdate(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id")
	}

	var req commands.UpdateKeyframeRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id, label, x, y", err)
	}

	return unwrap(commands.UpdateKeyframeCommand(req))
}

func handleKeyframeRemove(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id")
	}

	var req commands.RemoveNodeRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id", err)
	}

	return unwrap(commands.RemoveKeyframeCommand(req))
}

func handleRegionAdd(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: x, y, width, height, label")
	}

	var req commands.AddRegionRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: x, y, width, height, label", err)
	}

	return unwrap(commands.AddRegionCommand(req))
}

func handleRegionUpdate(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id, label, x, y, width, height")
	}

	var req commands.UpdateRegionRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id, label, x, y, width, height", err)
	}

	return unwrap(commands.UpdateRegionCommand(req))
}

func handleRegionRemove(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id")
	}

	var req commands.RemoveNodeRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id", err)
	}

	return unwrap(commands.RemoveRegionCommand(req))
}

func handleConnectionAdd(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: from, to, label")
	}

	var req commands.AddConnectionRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: from, to, label", err)
	}

	return unwrap(commands.AddConnectionCommand(req))
}

func handleConnectionUpdate(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id, label")
	}

	var req commands.UpdateConnectionRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id, label", err)
	}

	return unwrap(commands.UpdateConnectionCommand(req))
}

func handleConnectionRemove(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: id")
	}

	var req commands.RemoveConnectionRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: id", err)
	}

	return unwrap(commands.RemoveConnectionCommand(req))
}

func handleGraphUndo(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.UndoCommand())
}

func handleGraphRedo(params json.RawMessage) (interface{}, error) {
	return unwrap(commands.RedoCommand())
}

func handleGraphSave(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: path")
	}

	var req commands.GraphFileRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: path", err)
	}

	return unwrap(commands.SaveGraphCommand(req))
}

func handleGraphLoad(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: path")
	}

	var req commands.GraphFileRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: path", err)
	}

	return unwrap(commands.LoadGraphCommand(req))
}

func handleExport(params json.RawMessage) (interface{}, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("'params' is required with fields: outputDir")
	}

	var req commands.ExportRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v. Expected fields: outputDir, projectName, format, zip", err)
	}

	return unwrap(commands.ExportCommand(req))
}
