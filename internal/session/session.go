// Package session coordinates the graph model, layout engine, viewport, and
// interaction router for one browsing session. Every mutation re-filters the
// node set and recomputes the layout within the same call, so layout always
// observes the post-filter node and edge set of the turn that changed it —
// never a stale or partially-updated one.
package session

import (
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/interact"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/view"
)

// Session is single-threaded by contract, matching an event-driven UI turn
// model: callers dispatch one event at a time.
type Session struct {
	model    *graph.Model
	filter   graph.FilterState
	engine   *layout.Engine
	viewport *view.Controller
	router   *interact.Router

	visibleNodes []node.Node
	visibleEdges []graph.Edge
}

// New builds a session over an initial node set with the default filter and
// computes the first layout.
func New(nodes []node.Node, cfg layout.Config) *Session {
	s := &Session{
		model:    graph.New(nodes),
		filter:   graph.DefaultFilter(),
		engine:   layout.NewEngine(cfg),
		viewport: view.NewController(),
	}
	s.router = interact.NewRouter(s.engine, s.viewport)
	s.recompute()
	return s
}

// recompute applies the filter and lays out the visible set atomically with
// respect to the triggering change.
func (s *Session) recompute() {
	s.visibleNodes, s.visibleEdges = s.model.Visible(s.filter)
	s.engine.Compute(s.visibleNodes, s.visibleEdges, s.filter.YearRange)
}

// Model returns the underlying graph model for read-only access.
func (s *Session) Model() *graph.Model {
	return s.model
}

// Filter returns the active filter state.
func (s *Session) Filter() graph.FilterState {
	return s.filter
}

// SetFilter replaces the filter and recomputes visibility and layout.
func (s *Session) SetFilter(f graph.FilterState) {
	s.filter = f
	s.recompute()
}

// VisibleNodes returns the nodes passing the active filter.
func (s *Session) VisibleNodes() []node.Node {
	return s.visibleNodes
}

// VisibleEdges returns the edges whose endpoints are both visible.
func (s *Session) VisibleEdges() []graph.Edge {
	return s.visibleEdges
}

// Positions returns the current layout positions for visible nodes.
func (s *Session) Positions() map[string]layout.Position {
	return s.engine.Positions()
}

// Viewport returns the viewport controller.
func (s *Session) Viewport() *view.Controller {
	return s.viewport
}

// Router returns the interaction router.
func (s *Session) Router() *interact.Router {
	return s.router
}

// Engine returns the layout engine.
func (s *Session) Engine() *layout.Engine {
	return s.engine
}

// AddNode creates a node and recomputes.
func (s *Session) AddNode(in graph.NewNode) (node.Node, error) {
	created, err := s.model.AddNode(in)
	if err != nil {
		return node.Node{}, err
	}
	s.recompute()
	return created, nil
}

// UpdateNode replaces a node and recomputes.
func (s *Session) UpdateNode(n node.Node) error {
	if err := s.model.UpdateNode(n); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// DeleteNode removes a node and recomputes. A deleted selection or hover is
// dropped rather than left pointing at a missing node.
func (s *Session) DeleteNode(id string) error {
	if err := s.model.DeleteNode(id); err != nil {
		return err
	}
	if s.router.SelectedID() == id {
		s.router.ClearSelection()
	}
	s.recompute()
	return nil
}

// FitToContent fits the viewport to the current layout bounds.
func (s *Session) FitToContent(viewportW, viewportH float64) {
	bounds, ok := s.engine.Bounds()
	if !ok {
		s.viewport.Reset()
		return
	}
	s.viewport.FitToContent(bounds, viewportW, viewportH)
}
