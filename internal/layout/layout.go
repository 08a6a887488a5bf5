// Package layout assigns 2D positions to visible nodes. Time maps to the
// horizontal axis, domain to a horizontal band, then a greedy pass pushes
// overlapping nodes downward. This is deliberately a placement heuristic, not
// a force simulation: it is order-dependent and accepts residual overlap under
// dense input.
package layout

import (
	"math"
	"sort"

	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/node"
)

// Position is a 2D coordinate in layout space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the layout tunables.
type Config struct {
	Width  float64
	Height float64

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	// Node sizing: effective radius = BaseRadius + min(RadiusCap,
	// connections × RadiusPerConnection).
	BaseRadius          float64
	RadiusPerConnection float64
	RadiusCap           float64

	// Collision resolution.
	Padding     float64
	MaxAttempts int
}

// DefaultConfig returns the default layout tunables for a 1600×900 canvas.
func DefaultConfig() Config {
	return Config{
		Width:               1600,
		Height:              900,
		MarginLeft:          80,
		MarginRight:         80,
		MarginTop:           60,
		MarginBottom:        60,
		BaseRadius:          14,
		RadiusPerConnection: 2,
		RadiusCap:           16,
		Padding:             6,
		MaxAttempts:         20,
	}
}

// Engine computes and owns the per-node positions for the currently visible
// node set. Drag overrides are written directly and survive until the next
// full recompute.
type Engine struct {
	cfg       Config
	positions map[string]Position
	radii     map[string]float64
	overrides map[string]Position
}

// NewEngine creates an engine with the given config. Zero-value fields fall
// back to defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.BaseRadius <= 0 {
		cfg.BaseRadius = def.BaseRadius
	}
	if cfg.RadiusPerConnection <= 0 {
		cfg.RadiusPerConnection = def.RadiusPerConnection
	}
	if cfg.RadiusCap <= 0 {
		cfg.RadiusCap = def.RadiusCap
	}
	if cfg.Padding <= 0 {
		cfg.Padding = def.Padding
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	return &Engine{
		cfg:       cfg,
		positions: make(map[string]Position),
		radii:     make(map[string]float64),
		overrides: make(map[string]Position),
	}
}

// Config returns the active tunables.
func (e *Engine) Config() Config {
	return e.cfg
}

// Radius returns the effective render radius computed for a node during the
// last Compute, or the base radius if the node is unknown.
func (e *Engine) Radius(id string) float64 {
	if r, ok := e.radii[id]; ok {
		return r
	}
	return e.cfg.BaseRadius
}

// EffectiveRadius computes the render radius for a node with the given
// connection count.
func (e *Engine) EffectiveRadius(connections int) float64 {
	bonus := float64(connections) * e.cfg.RadiusPerConnection
	if bonus > e.cfg.RadiusCap {
		bonus = e.cfg.RadiusCap
	}
	return e.cfg.BaseRadius + bonus
}

// Compute recomputes positions wholesale for the visible node set. Any drag
// overrides from a previous input set are discarded: a change to the visible
// set or the time range invalidates them.
//
// Pass 1 scatters nodes with x linear in year over timeRange and y at the
// node's domain band. Pass 2 resolves collisions greedily in input order,
// pushing an overlapping node straight down by (radius + padding) up to
// MaxAttempts times before accepting residual overlap.
func (e *Engine) Compute(nodes []node.Node, edges []graph.Edge, timeRange graph.YearRange) map[string]Position {
	e.overrides = make(map[string]Position)
	e.positions = make(map[string]Position, len(nodes))
	e.radii = make(map[string]float64, len(nodes))

	counts := graph.ConnectionCounts(edges)

	type placed struct {
		pos    Position
		radius float64
	}
	done := make([]placed, 0, len(nodes))

	for _, n := range nodes {
		radius := e.EffectiveRadius(counts[n.ID])
		pos := Position{
			X: e.xForYear(n.Year, timeRange),
			Y: e.yForDomain(n.Domain),
		}

		// Greedy pushdown against everything already placed.
		for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
			collided := false
			for _, p := range done {
				minDist := radius + p.radius + e.cfg.Padding
				if dist(pos, p.pos) < minDist {
					pos.Y += radius + e.cfg.Padding
					collided = true
					break
				}
			}
			if !collided {
				break
			}
		}

		done = append(done, placed{pos: pos, radius: radius})
		e.positions[n.ID] = pos
		e.radii[n.ID] = radius
	}

	return e.Positions()
}

// xForYear maps a year linearly from timeRange into the horizontal content
// area.
func (e *Engine) xForYear(year int, timeRange graph.YearRange) float64 {
	left := e.cfg.MarginLeft
	right := e.cfg.Width - e.cfg.MarginRight
	span := timeRange.Max - timeRange.Min
	if span <= 0 {
		return (left + right) / 2
	}
	t := float64(year-timeRange.Min) / float64(span)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return left + t*(right-left)
}

// yForDomain maps a domain's ordinal to the center of its horizontal band.
func (e *Engine) yForDomain(d node.Domain) float64 {
	top := e.cfg.MarginTop
	bottom := e.cfg.Height - e.cfg.MarginBottom
	ord := d.Ordinal()
	if ord < 0 {
		ord = 0
	}
	bandHeight := (bottom - top) / float64(len(node.Domains))
	return top + (float64(ord)+0.5)*bandHeight
}

// Positions returns a copy of the current position table with drag overrides
// applied.
func (e *Engine) Positions() map[string]Position {
	out := make(map[string]Position, len(e.positions))
	for id, pos := range e.positions {
		if ov, ok := e.overrides[id]; ok {
			pos = ov
		}
		out[id] = pos
	}
	return out
}

// Position returns the current position for a node and whether it is known.
func (e *Engine) Position(id string) (Position, bool) {
	if ov, ok := e.overrides[id]; ok {
		return ov, true
	}
	pos, ok := e.positions[id]
	return pos, ok
}

// SetOverride writes a node's position directly during a drag gesture. The
// override lasts until the next Compute.
func (e *Engine) SetOverride(id string, pos Position) {
	if _, ok := e.positions[id]; !ok {
		return
	}
	e.overrides[id] = pos
}

// MoveBy displaces a node by (dx, dy) in layout space from its current
// position, as a drag override.
func (e *Engine) MoveBy(id string, dx, dy float64) {
	pos, ok := e.Position(id)
	if !ok {
		return
	}
	e.overrides[id] = Position{X: pos.X + dx, Y: pos.Y + dy}
}

// Bounds returns the axis-aligned bounding box of the current positions,
// inflated by each node's radius. Returns ok=false for an empty layout.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Bounds computes the bounding box of all current positions.
func (e *Engine) Bounds() (Bounds, bool) {
	if len(e.positions) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for id, pos := range e.positions {
		if ov, ok := e.overrides[id]; ok {
			pos = ov
		}
		r := e.radii[id]
		b.MinX = math.Min(b.MinX, pos.X-r)
		b.MinY = math.Min(b.MinY, pos.Y-r)
		b.MaxX = math.Max(b.MaxX, pos.X+r)
		b.MaxY = math.Max(b.MaxY, pos.Y+r)
	}
	return b, true
}

// GridFallback places nodes on a deterministic grid sorted by ID. Used when
// the external renderer collaborator fails and a layout is still needed.
func GridFallback(cfg Config, nodes []node.Node) map[string]Position {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	positions := make(map[string]Position, len(ids))
	if len(ids) == 0 {
		return positions
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	rows := int(math.Ceil(float64(len(ids)) / float64(cols)))
	cellW := cfg.Width / float64(cols)
	cellH := cfg.Height / float64(rows)

	for i, id := range ids {
		col := i % cols
		row := i / cols
		positions[id] = Position{
			X: (float64(col) + 0.5) * cellW,
			Y: (float64(row) + 0.5) * cellH,
		}
	}
	return positions
}

// dist is the Euclidean distance between two positions.
func dist(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
