// Package view owns the affine transform mapping layout space to screen
// space. The transform has exactly one writer: the viewport controller,
// driven by zoom and pan gestures.
package view

import (
	"github.com/techatlas/atlas/internal/layout"
)

// Transform is the affine map from layout space to screen space:
// screen = layout × Scale + Translate.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Point is a 2D coordinate in either space; the method applied decides which.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToScreen maps a layout point to screen space.
func (t Transform) ToScreen(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.TranslateX,
		Y: p.Y*t.Scale + t.TranslateY,
	}
}

// ToLayout maps a screen point back to layout space.
func (t Transform) ToLayout(p Point) Point {
	return Point{
		X: (p.X - t.TranslateX) / t.Scale,
		Y: (p.Y - t.TranslateY) / t.Scale,
	}
}

// ZoomDirection selects zoom-in or zoom-out.
type ZoomDirection int

// Zoom directions.
const (
	ZoomIn ZoomDirection = iota
	ZoomOut
)

// Controller tunables.
const (
	DefaultZoomFactor = 1.2
	DefaultMinScale   = 0.2
	DefaultMaxScale   = 5.0
	FitMarginFactor   = 0.9
)

// Controller owns the viewport transform.
type Controller struct {
	transform Transform
	initial   Transform

	ZoomFactor float64
	MinScale   float64
	MaxScale   float64
}

// NewController creates a controller starting at the identity transform.
func NewController() *Controller {
	return NewControllerAt(Identity())
}

// NewControllerAt creates a controller with a custom initial transform, for
// layouts that center an oversized virtual canvas in the viewport.
func NewControllerAt(initial Transform) *Controller {
	return &Controller{
		transform:  initial,
		initial:    initial,
		ZoomFactor: DefaultZoomFactor,
		MinScale:   DefaultMinScale,
		MaxScale:   DefaultMaxScale,
	}
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	return c.transform
}

// Zoom multiplies the scale by the zoom factor (its inverse for zoom-out),
// clamped to [MinScale, MaxScale], and recomputes the translation so that the
// layout point under the cursor stays under the cursor.
func (c *Controller) Zoom(cursor Point, direction ZoomDirection) {
	factor := c.ZoomFactor
	if direction == ZoomOut {
		factor = 1 / factor
	}

	newScale := c.transform.Scale * factor
	if newScale < c.MinScale {
		newScale = c.MinScale
	}
	if newScale > c.MaxScale {
		newScale = c.MaxScale
	}
	if newScale == c.transform.Scale {
		return
	}

	// Anchor: the layout point currently under the cursor must project to
	// the cursor after rescaling.
	anchor := c.transform.ToLayout(cursor)
	c.transform.Scale = newScale
	c.transform.TranslateX = cursor.X - anchor.X*newScale
	c.transform.TranslateY = cursor.Y - anchor.Y*newScale
}

// Pan adds a screen-space delta to the translation. Panning is deliberately
// not scaled by the current zoom: dragging the canvas 10 pixels moves it 10
// pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.transform.TranslateX += dx
	c.transform.TranslateY += dy
}

// Reset returns the viewport to its initial transform.
func (c *Controller) Reset() {
	c.transform = c.initial
}

// FitToContent computes the scale that fits content inside the viewport
// preserving aspect ratio, shrunk by the fit margin factor, then centers the
// content. Degenerate content (empty or zero extent) resets instead.
func (c *Controller) FitToContent(content layout.Bounds, viewportW, viewportH float64) {
	cw := content.Width()
	ch := content.Height()
	if cw <= 0 || ch <= 0 || viewportW <= 0 || viewportH <= 0 {
		c.Reset()
		return
	}

	scale := viewportW / cw
	if s := viewportH / ch; s < scale {
		scale = s
	}
	scale *= FitMarginFactor
	if scale < c.MinScale {
		scale = c.MinScale
	}
	if scale > c.MaxScale {
		scale = c.MaxScale
	}

	centerX := content.MinX + cw/2
	centerY := content.MinY + ch/2
	c.transform = Transform{
		Scale:      scale,
		TranslateX: viewportW/2 - centerX*scale,
		TranslateY: viewportH/2 - centerY*scale,
	}
}
