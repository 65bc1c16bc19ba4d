package flowgraph

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveGraph writes the graph as JSON. Keyframe image payloads are included
// base64-encoded, so a saved graph is self-contained.
func SaveGraph(path string, g *Graph) error {
	payload, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding graph: %w", err)
	}
	return os.WriteFile(path, payload, 0o600)
}

// LoadGraph reads a graph written by SaveGraph.
func LoadGraph(path string) (*Graph, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var g Graph
	if err := json.Unmarshal(payload, &g); err != nil {
		return nil, fmt.Errorf("error decoding graph: %w", err)
	}

	if g.Keyframes == nil {
		g.Keyframes = []Keyframe{}
	}
	if g.Regions == nil {
		g.Regions = []Region{}
	}
	if g.Connections == nil {
		g.Connections = []Connection{}
	}
	if g.Layout.Columns < 1 {
		g.Layout = DefaultLayout()
	}

	return &g, nil
}
