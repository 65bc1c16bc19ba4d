// Package flowgraph models the directed flow graph derived from a recording:
// keyframe nodes, region nodes, and labeled connections between them.
package flowgraph

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NodeType string

const (
	NodeKeyframe NodeType = "keyframe"
	NodeRegion   NodeType = "region"
)

// Source records how a keyframe came to exist.
type Source string

const (
	SourceClick  Source = "click"
	SourceManual Source = "manual"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Keyframe is a single extracted frame placed on the flow canvas.
type Keyframe struct {
	ID            string `json:"id"`
	TimestampMs   int64  `json:"timestampMs"`
	Source        Source `json:"source"`
	ImageData     []byte `json:"imageData,omitempty"`
	ImageWidth    int    `json:"imageWidth,omitempty"`
	ImageHeight   int    `json:"imageHeight,omitempty"`
	MousePosition *Point `json:"mousePosition,omitempty"`
	Label         string `json:"label,omitempty"`
	FlowPosition  *Point `json:"flowPosition,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
}

// Region is a named grouping rectangle on the canvas.
type Region struct {
	ID       string  `json:"id"`
	Label    string  `json:"label,omitempty"`
	Position Point   `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Connection is a directed edge between two nodes. At most one connection
// may exist per ordered (From, To) pair.
type Connection struct {
	ID       string   `json:"id"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	FromType NodeType `json:"fromType"`
	ToType   NodeType `json:"toType"`
	Label    string   `json:"label,omitempty"`
}

// Layout holds the grid parameters used by AutoLayout.
type Layout struct {
	Columns    int     `json:"columns"`
	NodeWidth  float64 `json:"nodeWidth"`
	NodeHeight float64 `json:"nodeHeight"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
	OriginX    float64 `json:"originX"`
	OriginY    float64 `json:"originY"`
}

func DefaultLayout() Layout {
	return Layout{
		Columns:    4,
		NodeWidth:  320,
		NodeHeight: 180,
		GapX:       80,
		GapY:       100,
		OriginX:    100,
		OriginY:    100,
	}
}

type Meta struct {
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Graph is the mutable flow graph for one editing session.
type Graph struct {
	Keyframes   []Keyframe   `json:"keyframes"`
	Regions     []Region     `json:"regions"`
	Connections []Connection `json:"connections"`
	Layout      Layout       `json:"layout"`
	Meta        Meta         `json:"metadata"`
}

func New(layout Layout) *Graph {
	if layout.Columns < 1 {
		layout = DefaultLayout()
	}
	now := time.Now().UnixMilli()
	return &Graph{
		Keyframes:   []Keyframe{},
		Regions:     []Region{},
		Connections: []Connection{},
		Layout:      layout,
		Meta:        Meta{CreatedAt: now, UpdatedAt: now},
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Keyframes:   make([]Keyframe, len(g.Keyframes)),
		Regions:     make([]Region, len(g.Regions)),
		Connections: make([]Connection, len(g.Connections)),
		Layout:      g.Layout,
		Meta:        g.Meta,
	}
	copy(c.Regions, g.Regions)
	copy(c.Connections, g.Connections)
	for i, k := range g.Keyframes {
		if k.ImageData != nil {
			k.ImageData = append([]byte(nil), k.ImageData...)
		}
		if k.MousePosition != nil {
			p := *k.MousePosition
			k.MousePosition = &p
		}
		if k.FlowPosition != nil {
			p := *k.FlowPosition
			k.FlowPosition = &p
		}
		c.Keyframes[i] = k
	}
	return c
}

func (g *Graph) touch() {
	g.Meta.UpdatedAt = time.Now().UnixMilli()
}

// NewKeyframe builds a keyframe with a fresh id and creation time.
func NewKeyframe(timestampMs int64, source Source) Keyframe {
	if source == "" {
		source = SourceManual
	}
	return Keyframe{
		ID:          uuid.NewString(),
		TimestampMs: timestampMs,
		Source:      source,
		CreatedAt:   time.Now().UnixMilli(),
	}
}

func (g *Graph) AddKeyframe(k Keyframe) error {
	if k.ID == "" {
		return fmt.Errorf("keyframe id is required")
	}
	if _, ok := g.FindKeyframe(k.ID); ok {
		return fmt.Errorf("keyframe already exists: %s", k.ID)
	}
	g.Keyframes = append(g.Keyframes, k)
	g.touch()
	return nil
}

func (g *Graph) FindKeyframe(id string) (*Keyframe, bool) {
	for i := range g.Keyframes {
		if g.Keyframes[i].ID == id {
			return &g.Keyframes[i], true
		}
	}
	return nil, false
}

// KeyframeUpdate carries the mutable keyframe fields; nil fields are left
// unchanged.
type KeyframeUpdate struct {
	Label        *string
	FlowPosition *Point
}

func (g *Graph) UpdateKeyframe(id string, update KeyframeUpdate) error {
	k, ok := g.FindKeyframe(id)
	if !ok {
		return fmt.Errorf("keyframe not found: %s", id)
	}
	if update.Label != nil {
		k.Label = *update.Label
	}
	if update.FlowPosition != nil {
		p := *update.FlowPosition
		k.FlowPosition = &p
	}
	g.touch()
	return nil
}

// RemoveKeyframe deletes a keyframe and every connection that names it as
// either endpoint.
func (g *Graph) RemoveKeyframe(id string) error {
	if _, ok := g.FindKeyframe(id); !ok {
		return fmt.Errorf("keyframe not found: %s", id)
	}
	kept := g.Keyframes[:0]
	for _, k := range g.Keyframes {
		if k.ID != id {
			kept = append(kept, k)
		}
	}
	g.Keyframes = kept
	g.removeConnectionsTouching(id)
	g.touch()
	return nil
}

func (g *Graph) AddRegion(r Region) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	for _, existing := range g.Regions {
		if existing.ID == r.ID {
			return fmt.Errorf("region already exists: %s", r.ID)
		}
	}
	g.Regions = append(g.Regions, r)
	g.touch()
	return nil
}

// FindRegion returns a copy of the region with the given id.
func (g *Graph) FindRegion(id string) (Region, bool) {
	for _, r := range g.Regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

func (g *Graph) UpdateRegion(r Region) error {
	for i := range g.Regions {
		if g.Regions[i].ID == r.ID {
			g.Regions[i] = r
			g.touch()
			return nil
		}
	}
	return fmt.Errorf("region not found: %s", r.ID)
}

// RemoveRegion deletes a region and cascades connection removal like
// RemoveKeyframe.
func (g *Graph) RemoveRegion(id string) error {
	found := false
	kept := g.Regions[:0]
	for _, r := range g.Regions {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("region not found: %s", id)
	}
	g.Regions = kept
	g.removeConnectionsTouching(id)
	g.touch()
	return nil
}

// HasConnection reports whether a connection with the exact ordered
// (from, to) pair exists.
func (g *Graph) HasConnection(from, to string) bool {
	for _, c := range g.Connections {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

func (g *Graph) AddConnection(c Connection) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.From == "" || c.To == "" {
		return fmt.Errorf("connection endpoints are required")
	}
	if !g.nodeExists(c.From) || !g.nodeExists(c.To) {
		return fmt.Errorf("connection references unknown node")
	}
	if g.HasConnection(c.From, c.To) {
		return fmt.Errorf("connection already exists: %s -> %s", c.From, c.To)
	}
	if c.FromType == "" {
		c.FromType = g.nodeType(c.From)
	}
	if c.ToType == "" {
		c.ToType = g.nodeType(c.To)
	}
	g.Connections = append(g.Connections, c)
	g.touch()
	return nil
}

func (g *Graph) UpdateConnectionLabel(id, label string) error {
	for i := range g.Connections {
		if g.Connections[i].ID == id {
			g.Connections[i].Label = label
			g.touch()
			return nil
		}
	}
	return fmt.Errorf("connection not found: %s", id)
}

func (g *Graph) RemoveConnection(id string) error {
	kept := g.Connections[:0]
	found := false
	for _, c := range g.Connections {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("connection not found: %s", id)
	}
	g.Connections = kept
	g.touch()
	return nil
}

func (g *Graph) removeConnectionsTouching(nodeID string) {
	kept := g.Connections[:0]
	for _, c := range g.Connections {
		if c.From == nodeID || c.To == nodeID {
			continue
		}
		kept = append(kept, c)
	}
	g.Connections = kept
}

func (g *Graph) nodeExists(id string) bool {
	if _, ok := g.FindKeyframe(id); ok {
		return true
	}
	for _, r := range g.Regions {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (g *Graph) nodeType(id string) NodeType {
	if _, ok := g.FindKeyframe(id); ok {
		return NodeKeyframe
	}
	return NodeRegion
}
