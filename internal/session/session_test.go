package session

import (
	"testing"

	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/view"
)

func seedNodes() []node.Node {
	return []node.Node{
		{
			ID: "steam-engine", Label: "Steam Engine",
			Description: "External combustion engine.",
			Year:        1804, Domain: node.DomainEnergy, Status: node.StatusHistorical,
		},
		{
			ID: "transistor", Label: "Transistor",
			Description: "Semiconductor switch.",
			Year:        1947, Domain: node.DomainElectronics, Status: node.StatusHistorical,
		},
		{
			ID: "microprocessor", Label: "Microprocessor",
			Description: "CPU on a single chip.",
			Year:        1971, Domain: node.DomainComputing, Status: node.StatusCurrent,
			Links: []string{"transistor"},
		},
	}
}

func TestFilterChangeRecomputesAtomically(t *testing.T) {
	s := New(seedNodes(), layout.DefaultConfig())

	if len(s.VisibleNodes()) != 3 || len(s.VisibleEdges()) != 1 {
		t.Fatalf("initial visible = %d nodes, %d edges; want 3, 1",
			len(s.VisibleNodes()), len(s.VisibleEdges()))
	}

	s.SetFilter(graph.FilterState{YearRange: graph.YearRange{Min: 1900, Max: 1950}})

	// Only the transistor survives; the transistor->microprocessor edge
	// must vanish with the microprocessor, and the position table must
	// cover exactly the visible set.
	if len(s.VisibleNodes()) != 1 || s.VisibleNodes()[0].ID != "transistor" {
		t.Errorf("visible nodes = %v, want [transistor]", s.VisibleNodes())
	}
	if len(s.VisibleEdges()) != 0 {
		t.Errorf("visible edges = %v, want none", s.VisibleEdges())
	}
	positions := s.Positions()
	if len(positions) != 1 {
		t.Errorf("positions cover %d nodes, want 1", len(positions))
	}
	if _, ok := positions["transistor"]; !ok {
		t.Error("no position for the one visible node")
	}
}

func TestMutationRecomputes(t *testing.T) {
	s := New(seedNodes(), layout.DefaultConfig())

	created, err := s.AddNode(graph.NewNode{
		Label:       "Integrated Circuit",
		Description: "Multiple transistors on one die.",
		Year:        1958,
		Domain:      node.DomainElectronics,
		Status:      node.StatusHistorical,
		Links:       []string{"transistor"},
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	if _, ok := s.Positions()[created.ID]; !ok {
		t.Error("new node has no layout position")
	}
	if len(s.VisibleEdges()) != 2 {
		t.Errorf("visible edges = %d, want 2", len(s.VisibleEdges()))
	}

	if err := s.DeleteNode("transistor"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if _, ok := s.Positions()["transistor"]; ok {
		t.Error("deleted node still has a position")
	}
	if len(s.VisibleEdges()) != 0 {
		t.Errorf("edges touching the deleted node survived: %v", s.VisibleEdges())
	}
}

func TestDeleteDropsSelection(t *testing.T) {
	s := New(seedNodes(), layout.DefaultConfig())

	pos := s.Positions()["transistor"]
	s.Router().PointerDown(pos.X, pos.Y)
	s.Router().PointerUp(pos.X, pos.Y)
	if s.Router().SelectedID() != "transistor" {
		t.Fatalf("selection = %q, want transistor", s.Router().SelectedID())
	}

	if err := s.DeleteNode("transistor"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if s.Router().SelectedID() != "" {
		t.Errorf("selection still %q after deleting the node", s.Router().SelectedID())
	}
}

func TestDragOverrideSurvivesUntilInputChanges(t *testing.T) {
	s := New(seedNodes(), layout.DefaultConfig())

	before := s.Positions()["transistor"]
	s.Router().PointerDown(before.X, before.Y)
	s.Router().PointerMove(before.X+40, before.Y)
	s.Router().PointerUp(before.X+40, before.Y)

	moved := s.Positions()["transistor"]
	if moved.X != before.X+40 {
		t.Fatalf("dragged X = %f, want %f", moved.X, before.X+40)
	}

	// A model change recomputes everything; the drag override is discarded.
	if err := s.DeleteNode("steam-engine"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	after := s.Positions()["transistor"]
	if after.X == before.X+40 {
		t.Error("drag override survived a model change")
	}
}

func TestFitToContent(t *testing.T) {
	s := New(seedNodes(), layout.DefaultConfig())

	s.FitToContent(800, 600)
	tr := s.Viewport().Transform()
	if tr.Scale <= 0 {
		t.Errorf("fit produced scale %f", tr.Scale)
	}

	// Every visible node projects inside the viewport.
	for id, pos := range s.Positions() {
		p := tr.ToScreen(view.Point{X: pos.X, Y: pos.Y})
		if p.X < 0 || p.X > 800 || p.Y < 0 || p.Y > 600 {
			t.Errorf("node %s projects outside viewport: %+v", id, p)
		}
	}

	// Empty layout falls back to a reset.
	empty := New(nil, layout.DefaultConfig())
	empty.Viewport().Pan(50, 50)
	empty.FitToContent(800, 600)
	if got := empty.Viewport().Transform().Scale; got != 1 {
		t.Errorf("empty fit scale = %f, want identity", got)
	}
}
