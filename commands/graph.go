package commands

import (
	"fmt"

	"github.com/flowshot/flowshot/flowgraph"
)

// GraphSummary is the lightweight view returned by graph commands that do
// not need the full node payloads.
type GraphSummary struct {
	Keyframes   int  `json:"keyframes"`
	Regions     int  `json:"regions"`
	Connections int  `json:"connections"`
	CanUndo     bool `json:"canUndo"`
	CanRedo     bool `json:"canRedo"`
}

func summarize(a *App, g *flowgraph.Graph) GraphSummary {
	return GraphSummary{
		Keyframes:   len(g.Keyframes),
		Regions:     len(g.Regions),
		Connections: len(g.Connections),
		CanUndo:     a.Editor.CanUndo(),
		CanRedo:     a.Editor.CanRedo(),
	}
}

// GraphCommand returns a full snapshot of the current flow graph.
func GraphCommand() *CommandResponse {
	return NewSuccessResponse(GetApp().Editor.Snapshot())
}

// AutoLayoutCommand arranges keyframes on the timestamp-ordered grid and
// infers the sequential connection chain.
func AutoLayoutCommand() *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		flowgraph.AutoLayout(g)
		return nil
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// UpdateKeyframeRequest carries the editable keyframe fields. Omitted fields
// are left unchanged.
type UpdateKeyframeRequest struct {
	ID    string   `json:"id"`
	Label *string  `json:"label,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

func UpdateKeyframeCommand(req UpdateKeyframeRequest) *CommandResponse {
	a := GetApp()

	update := flowgraph.KeyframeUpdate{Label: req.Label}
	if req.X != nil || req.Y != nil {
		if req.X == nil || req.Y == nil {
			return NewErrorResponse(fmt.Errorf("both x and y are required to move a keyframe"))
		}
		update.FlowPosition = &flowgraph.Point{X: *req.X, Y: *req.Y}
	}

	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		return g.UpdateKeyframe(req.ID, update)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// RemoveNodeRequest identifies a keyframe or region to delete.
type RemoveNodeRequest struct {
	ID string `json:"id"`
}

// RemoveKeyframeCommand deletes a keyframe and every connection touching it.
func RemoveKeyframeCommand(req RemoveNodeRequest) *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		return g.RemoveKeyframe(req.ID)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// AddRegionRequest describes a grouping rectangle on the canvas.
type AddRegionRequest struct {
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func AddRegionCommand(req AddRegionRequest) *CommandResponse {
	a := GetApp()

	var id string
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		region := flowgraph.Region{
			Label:    req.Label,
			Position: flowgraph.Point{X: req.X, Y: req.Y},
			Width:    req.Width,
			Height:   req.Height,
		}
		if err := g.AddRegion(region); err != nil {
			return err
		}
		id = g.Regions[len(g.Regions)-1].ID
		return nil
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{"id": id})
}

// UpdateRegionRequest moves or resizes a region. Nil fields keep the
// current value.
type UpdateRegionRequest struct {
	ID     string   `json:"id"`
	Label  *string  `json:"label,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

func UpdateRegionCommand(req UpdateRegionRequest) *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		region, ok := g.FindRegion(req.ID)
		if !ok {
			return fmt.Errorf("region not found: %s", req.ID)
		}
		if req.Label != nil {
			region.Label = *req.Label
		}
		if req.X != nil {
			region.Position.X = *req.X
		}
		if req.Y != nil {
			region.Position.Y = *req.Y
		}
		if req.Width != nil {
			region.Width = *req.Width
		}
		if req.Height != nil {
			region.Height = *req.Height
		}
		return g.UpdateRegion(region)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// RemoveRegionCommand deletes a region and every connection touching it.
func RemoveRegionCommand(req RemoveNodeRequest) *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		return g.RemoveRegion(req.ID)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// AddConnectionRequest describes a directed edge between two nodes.
type AddConnectionRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

func AddConnectionCommand(req AddConnectionRequest) *CommandResponse {
	a := GetApp()

	var id string
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		c := flowgraph.Connection{From: req.From, To: req.To, Label: req.Label}
		if err := g.AddConnection(c); err != nil {
			return err
		}
		id = g.Connections[len(g.Connections)-1].ID
		return nil
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(map[string]interface{}{"id": id})
}

// UpdateConnectionRequest renames a connection's label.
type UpdateConnectionRequest struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func UpdateConnectionCommand(req UpdateConnectionRequest) *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		return g.UpdateConnectionLabel(req.ID, req.Label)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// RemoveConnectionRequest identifies a connection to delete.
type RemoveConnectionRequest struct {
	ID string `json:"id"`
}

func RemoveConnectionCommand(req RemoveConnectionRequest) *CommandResponse {
	a := GetApp()
	err := a.Editor.Apply(func(g *flowgraph.Graph) error {
		return g.RemoveConnection(req.ID)
	})
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(summarize(a, a.Editor.Snapshot()))
}

// UndoCommand steps the editor one snapshot back. Applied reports whether
// there was anything to undo.
func UndoCommand() *CommandResponse {
	a := GetApp()
	applied := a.Editor.Undo()
	return NewSuccessResponse(map[string]interface{}{
		"applied": applied,
		"canUndo": a.Editor.CanUndo(),
		"canRedo": a.Editor.CanRedo(),
	})
}

// RedoCommand reapplies the next snapshot after an undo.
func RedoCommand() *CommandResponse {
	a := GetApp()
	applied := a.Editor.Redo()
	return NewSuccessResponse(map[string]interface{}{
		"applied": applied,
		"canUndo": a.Editor.CanUndo(),
		"canRedo": a.Editor.CanRedo(),
	})
}

// GraphFileRequest names a graph file on disk.
type GraphFileRequest struct {
	Path string `json:"path"`
}

// SaveGraphCommand writes the current graph to disk.
func SaveGraphCommand(req GraphFileRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("path is required"))
	}
	a := GetApp()
	if err := flowgraph.SaveGraph(req.Path, a.Editor.Snapshot()); err != nil {
		return NewErrorResponse(fmt.Errorf("error saving graph: %w", err))
	}
	return NewSuccessResponse(map[string]interface{}{"path": req.Path})
}

// LoadGraphCommand replaces the current graph with one from disk. The undo
// history is reset.
func LoadGraphCommand(req GraphFileRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("path is required"))
	}
	a := GetApp()
	g, err := flowgraph.LoadGraph(req.Path)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error loading graph: %w", err))
	}
	a.Editor.Replace(g)
	return NewSuccessResponse(summarize(a, g))
}
