// Package export serializes a flow graph into a portable package: a
// flow.json document plus an assets directory of keyframe images.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/flowshot/flowshot/flowgraph"
	"github.com/flowshot/flowshot/utils"
)

const (
	// DocumentVersion identifies the flow.json schema.
	DocumentVersion = "1.0"

	// canvasMargin is where the leftmost and topmost nodes land after
	// origin normalization.
	canvasMargin = 40.0
)

// Document is the top-level flow.json payload.
type Document struct {
	Version     string          `json:"version"`
	ExportedAt  string          `json:"exportedAt"`
	ProjectName string          `json:"projectName"`
	Keyframes   []DocKeyframe   `json:"keyframes"`
	Connections []DocConnection `json:"connections"`
	Layout      DocLayout       `json:"layout"`
}

// DocKeyframe references an asset file instead of embedding image bytes.
// ImageFile is empty when the keyframe had no image to write.
type DocKeyframe struct {
	ID          string           `json:"id"`
	ImageFile   string           `json:"imageFile,omitempty"`
	Label       string           `json:"label,omitempty"`
	TimestampMs int64            `json:"timestampMs"`
	Position    flowgraph.Point  `json:"position"`
	Source      flowgraph.Source `json:"source"`
}

type DocConnection struct {
	ID       string             `json:"id"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	FromType flowgraph.NodeType `json:"fromType"`
	ToType   flowgraph.NodeType `json:"toType"`
	Label    string             `json:"label,omitempty"`
}

type DocLayout struct {
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	NodeWidth    float64 `json:"nodeWidth"`
	NodeHeight   float64 `json:"nodeHeight"`
}

// Options controls packaging. Format names the asset file extension and must
// match how the keyframe images were encoded.
type Options struct {
	ProjectName string
	Format      string
	Zip         bool
}

// Result reports what Package wrote.
type Result struct {
	Dir           string   `json:"dir"`
	ArchivePath   string   `json:"archivePath,omitempty"`
	AssetCount    int      `json:"assetCount"`
	MissingImages []string `json:"missingImages,omitempty"`
}

// Package writes the graph as a package directory under destDir and
// optionally zips it. Keyframes without image data stay in the document but
// produce no asset file.
func Package(g *flowgraph.Graph, destDir string, opts Options) (*Result, error) {
	if opts.ProjectName == "" {
		opts.ProjectName = "flowshot-export"
	}
	if opts.Format == "" {
		opts.Format = "png"
	}

	pkgDir := filepath.Join(destDir, opts.ProjectName)
	assetsDir := filepath.Join(pkgDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating package directory: %w", err)
	}

	ordered := make([]flowgraph.Keyframe, len(g.Keyframes))
	copy(ordered, g.Keyframes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMs < ordered[j].TimestampMs
	})

	offsetX, offsetY := originOffset(ordered)

	doc := Document{
		Version:     DocumentVersion,
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		ProjectName: opts.ProjectName,
		Keyframes:   make([]DocKeyframe, 0, len(ordered)),
		Connections: make([]DocConnection, 0, len(g.Connections)),
	}

	result := &Result{Dir: pkgDir}
	maxX, maxY := 0.0, 0.0

	for i, k := range ordered {
		pos := flowgraph.Point{}
		if k.FlowPosition != nil {
			pos = *k.FlowPosition
		}
		pos.X += offsetX
		pos.Y += offsetY
		if pos.X > maxX {
			maxX = pos.X
		}
		if pos.Y > maxY {
			maxY = pos.Y
		}

		entry := DocKeyframe{
			ID:          k.ID,
			Label:       k.Label,
			TimestampMs: k.TimestampMs,
			Position:    pos,
			Source:      k.Source,
		}

		if len(k.ImageData) == 0 {
			result.MissingImages = append(result.MissingImages, k.ID)
		} else {
			name := fmt.Sprintf("frame-%03d.%s", i+1, opts.Format)
			if err := os.WriteFile(filepath.Join(assetsDir, name), k.ImageData, 0o600); err != nil {
				return nil, fmt.Errorf("error writing asset %s: %w", name, err)
			}
			// forward slashes keep the document portable across platforms
			entry.ImageFile = "assets/" + name
			result.AssetCount++
		}
		doc.Keyframes = append(doc.Keyframes, entry)
	}

	for _, c := range g.Connections {
		doc.Connections = append(doc.Connections, DocConnection{
			ID:       c.ID,
			From:     c.From,
			To:       c.To,
			FromType: c.FromType,
			ToType:   c.ToType,
			Label:    c.Label,
		})
	}

	doc.Layout = DocLayout{
		CanvasWidth:  maxX + g.Layout.NodeWidth + canvasMargin,
		CanvasHeight: maxY + g.Layout.NodeHeight + canvasMargin,
		NodeWidth:    g.Layout.NodeWidth,
		NodeHeight:   g.Layout.NodeHeight,
	}
	if len(doc.Keyframes) == 0 {
		doc.Layout.CanvasWidth = 2 * canvasMargin
		doc.Layout.CanvasHeight = 2 * canvasMargin
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "flow.json"), payload, 0o600); err != nil {
		return nil, fmt.Errorf("error writing flow.json: %w", err)
	}

	if opts.Zip {
		archivePath := pkgDir + ".zip"
		if err := utils.ZipDirectory(pkgDir, archivePath); err != nil {
			return nil, err
		}
		result.ArchivePath = archivePath
	}

	return result, nil
}

// originOffset computes the shift that moves the minimum node position onto
// the canvas margin, so exported layouts never start at negative or far-off
// coordinates.
func originOffset(keyframes []flowgraph.Keyframe) (float64, float64) {
	if len(keyframes) == 0 {
		return 0, 0
	}
	minX, minY := 0.0, 0.0
	first := true
	for _, k := range keyframes {
		pos := flowgraph.Point{}
		if k.FlowPosition != nil {
			pos = *k.FlowPosition
		}
		if first || pos.X < minX {
			minX = pos.X
		}
		if first || pos.Y < minY {
			minY = pos.Y
		}
		first = false
	}
	return canvasMargin - minX, canvasMargin - minY
}
