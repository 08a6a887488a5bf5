package viz

import (
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/view"
)

// Default virtual viewport dimensions for the generated page's initial
// fit-to-content transform.
const (
	DefaultViewportWidth  = 1200.0
	DefaultViewportHeight = 800.0
)

// Build filters the node set, lays it out, and assembles a complete
// GraphData with an initial transform fitting the content into the default
// viewport.
func Build(m *graph.Model, f graph.FilterState, cfg layout.Config) *GraphData {
	nodes, edges := m.Visible(f)

	engine := layout.NewEngine(cfg)
	positions := engine.Compute(nodes, edges, f.YearRange)

	controller := view.NewController()
	if bounds, ok := engine.Bounds(); ok {
		controller.FitToContent(bounds, DefaultViewportWidth, DefaultViewportHeight)
	}

	return assemble(nodes, edges, positions, engine, controller.Transform())
}

// assemble maps model nodes and edges into render structs.
func assemble(nodes []node.Node, edges []graph.Edge, positions map[string]layout.Position, engine *layout.Engine, transform view.Transform) *GraphData {
	counts := graph.ConnectionCounts(edges)

	g := &GraphData{
		Nodes:     make([]Node, 0, len(nodes)),
		Edges:     make([]Edge, 0, len(edges)),
		Transform: transform,
	}

	for _, n := range nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:              n.ID,
			Label:           n.Label,
			Description:     n.Description,
			Year:            n.Year,
			Domain:          string(n.Domain),
			Status:          string(n.Status),
			ConnectionCount: counts[n.ID],
			Position:        positions[n.ID],
			Radius:          engine.Radius(n.ID),
		})
	}

	for _, e := range edges {
		g.Edges = append(g.Edges, Edge{
			Source: e.SourceID,
			Target: e.TargetID,
			Label:  e.Label,
		})
	}

	return g
}

// BuildFallback is Build with the deterministic grid placement instead of the
// heuristic layout, used when the external renderer fails. The notice is
// shown to the user as a soft, non-blocking error.
func BuildFallback(m *graph.Model, f graph.FilterState, cfg layout.Config, notice string) *GraphData {
	nodes, edges := m.Visible(f)
	positions := layout.GridFallback(cfg, nodes)

	engine := layout.NewEngine(cfg)

	counts := graph.ConnectionCounts(edges)
	g := &GraphData{
		Nodes:     make([]Node, 0, len(nodes)),
		Edges:     make([]Edge, 0, len(edges)),
		Transform: view.Identity(),
		Fallback:  true,
		Notice:    notice,
	}
	for _, n := range nodes {
		g.Nodes = append(g.Nodes, Node{
			ID:              n.ID,
			Label:           n.Label,
			Description:     n.Description,
			Year:            n.Year,
			Domain:          string(n.Domain),
			Status:          string(n.Status),
			ConnectionCount: counts[n.ID],
			Position:        positions[n.ID],
			Radius:          engine.EffectiveRadius(counts[n.ID]),
		})
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, Edge{Source: e.SourceID, Target: e.TargetID, Label: e.Label})
	}
	return g
}
