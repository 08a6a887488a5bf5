// Package interact routes pointer input to viewport panning, node dragging,
// or node selection. A pointer-down is disambiguated by hit-testing: on a
// node it starts a drag, on empty canvas it starts a pan. A down/up pair with
// no movement in between is a click and selects instead of moving.
package interact

import (
	"math"

	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/view"
)

// State is the router's drag state.
type State int

// Router states.
const (
	Idle State = iota
	PanningViewport
	DraggingNode
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PanningViewport:
		return "panning"
	case DraggingNode:
		return "dragging"
	default:
		return "unknown"
	}
}

// Router is the pointer-event state machine. It reads positions and radii
// from the layout engine and the transform from the viewport controller, and
// writes only through their mutation methods; selection and hover are the
// two pieces of state it owns itself.
type Router struct {
	engine   *layout.Engine
	viewport *view.Controller

	state      State
	dragNodeID string
	lastX      float64
	lastY      float64
	moved      bool

	selectedID string
	hoveredID  string

	// OnSelect fires when a click (down+up without movement) lands on a
	// node, after the selection is recorded. Optional.
	OnSelect func(id string)
}

// NewRouter creates a router over the given layout engine and viewport.
func NewRouter(engine *layout.Engine, viewport *view.Controller) *Router {
	return &Router{engine: engine, viewport: viewport}
}

// State returns the current drag state.
func (r *Router) State() State {
	return r.state
}

// SelectedID returns the currently selected node ID, or "".
func (r *Router) SelectedID() string {
	return r.selectedID
}

// HoveredID returns the node under the pointer, or "".
func (r *Router) HoveredID() string {
	return r.hoveredID
}

// ClearSelection drops the current selection.
func (r *Router) ClearSelection() {
	r.selectedID = ""
}

// HitTest returns the ID of the topmost node whose hit region contains the
// screen point, or "". Later-placed nodes win ties, matching paint order.
func (r *Router) HitTest(screenX, screenY float64) string {
	tr := r.viewport.Transform()
	lp := tr.ToLayout(view.Point{X: screenX, Y: screenY})

	hit := ""
	for id, pos := range r.engine.Positions() {
		radius := r.engine.Radius(id)
		if math.Hypot(lp.X-pos.X, lp.Y-pos.Y) <= radius {
			if hit == "" || id > hit {
				hit = id
			}
		}
	}
	return hit
}

// PointerDown starts a pan or a node drag depending on what is under the
// pointer.
func (r *Router) PointerDown(screenX, screenY float64) {
	if r.state != Idle {
		return
	}
	r.lastX, r.lastY = screenX, screenY
	r.moved = false

	if id := r.HitTest(screenX, screenY); id != "" {
		r.state = DraggingNode
		r.dragNodeID = id
		return
	}
	r.state = PanningViewport
}

// PointerMove feeds movement to the active gesture and retracks hover. While
// dragging a node, screen deltas are scaled by the inverse zoom so screen
// distance maps to the equivalent layout displacement.
func (r *Router) PointerMove(screenX, screenY float64) {
	dx := screenX - r.lastX
	dy := screenY - r.lastY
	r.lastX, r.lastY = screenX, screenY

	switch r.state {
	case PanningViewport:
		if dx != 0 || dy != 0 {
			r.moved = true
			r.viewport.Pan(dx, dy)
		}
	case DraggingNode:
		if dx != 0 || dy != 0 {
			r.moved = true
			scale := r.viewport.Transform().Scale
			r.engine.MoveBy(r.dragNodeID, dx/scale, dy/scale)
		}
	default:
		r.hoveredID = r.HitTest(screenX, screenY)
	}
}

// PointerUp ends the active gesture. A node drag that never moved is a true
// click and fires selection instead of leaving the node in a moved state.
func (r *Router) PointerUp(screenX, screenY float64) {
	state := r.state
	nodeID := r.dragNodeID
	r.state = Idle
	r.dragNodeID = ""

	if state == DraggingNode && !r.moved {
		r.selectedID = nodeID
		if r.OnSelect != nil {
			r.OnSelect(nodeID)
		}
	}
	r.hoveredID = r.HitTest(screenX, screenY)
}
