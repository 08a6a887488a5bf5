// Package viz builds the renderable graph document: node and edge data with
// layout positions and an initial viewport transform, exported as an
// interactive HTML page or as SVG via an external renderer.
package viz

import (
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/view"
)

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes     []Node         `json:"nodes"`
	Edges     []Edge         `json:"edges"`
	Transform view.Transform `json:"transform"`

	// Fallback is set when positions come from the deterministic grid
	// because the external renderer failed; Notice carries the soft error
	// text shown to the user.
	Fallback bool   `json:"fallback,omitempty"`
	Notice   string `json:"notice,omitempty"`
}

// Node is a positioned node ready for rendering.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	Domain      string `json:"domain"`
	Status      string `json:"status"`

	ConnectionCount int `json:"connectionCount"`

	Position layout.Position `json:"position"`
	Radius   float64         `json:"radius"`
}

// Edge is a rendered prerequisite relationship.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
