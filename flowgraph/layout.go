package flowgraph

import (
	"sort"

	"github.com/google/uuid"
)

// AutoLayout places keyframes on a fixed-column grid in timestamp order and
// links each adjacent pair in that order. Positions are fully determined by
// the layout parameters, so re-running on an unchanged graph is a no-op
// visually. Existing connections are kept and duplicate ordered pairs are
// never added.
func AutoLayout(g *Graph) {
	if len(g.Keyframes) == 0 {
		return
	}

	layout := g.Layout
	if layout.Columns < 1 {
		layout = DefaultLayout()
		g.Layout = layout
	}

	// timestamp-sorted view over the keyframes; insertion order breaks ties
	order := make([]int, len(g.Keyframes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.Keyframes[order[a]].TimestampMs < g.Keyframes[order[b]].TimestampMs
	})

	for pos, idx := range order {
		col := pos % layout.Columns
		row := pos / layout.Columns
		g.Keyframes[idx].FlowPosition = &Point{
			X: float64(col)*(layout.NodeWidth+layout.GapX) + layout.OriginX,
			Y: float64(row)*(layout.NodeHeight+layout.GapY) + layout.OriginY,
		}
	}

	// sequential chain over the sorted order
	for i := 0; i+1 < len(order); i++ {
		from := g.Keyframes[order[i]].ID
		to := g.Keyframes[order[i+1]].ID
		if g.HasConnection(from, to) {
			continue
		}
		g.Connections = append(g.Connections, Connection{
			ID:       uuid.NewString(),
			From:     from,
			To:       to,
			FromType: NodeKeyframe,
			ToType:   NodeKeyframe,
		})
	}

	g.touch()
}
