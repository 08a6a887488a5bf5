package viz

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Renderer turns a textual graph description into a vector-graphics
// document. Implementations are external collaborators and may fail; callers
// must degrade to the deterministic grid fallback rather than propagate the
// failure.
type Renderer interface {
	Render(ctx context.Context, description string) ([]byte, error)
}

// ExecRenderer shells out to a Graphviz-compatible command (typically "dot")
// reading DOT on stdin and writing SVG on stdout.
type ExecRenderer struct {
	Command string
}

// NewExecRenderer creates a renderer for the given command; empty selects
// "dot".
func NewExecRenderer(command string) *ExecRenderer {
	if command == "" {
		command = "dot"
	}
	return &ExecRenderer{Command: command}
}

// Render runs the command over the description.
func (r *ExecRenderer) Render(ctx context.Context, description string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.Command, "-Tsvg")
	cmd.Stdin = strings.NewReader(description)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", r.Command, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", r.Command, err)
	}
	return out.Bytes(), nil
}

// RenderSVG renders the graph through the external renderer, substituting an
// internally generated SVG over grid-fallback positions when the renderer
// fails. The returned notice is empty on success and carries the soft error
// text otherwise.
func RenderSVG(ctx context.Context, g *GraphData, fallback *GraphData, r Renderer) (svg []byte, notice string) {
	out, err := r.Render(ctx, g.ToDOT())
	if err == nil {
		return out, ""
	}
	return fallbackSVG(fallback), "error generating graph: " + err.Error()
}

// fallbackSVG draws nodes and edges at their grid positions. Plain circles
// and lines: legible, deterministic, dependency-free.
func fallbackSVG(g *GraphData) []byte {
	var b bytes.Buffer

	width, height := 1600.0, 900.0
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f">`+"\n", width, height)

	byID := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	for _, e := range g.Edges {
		src, ok1 := byID[e.Source]
		dst, ok2 := byID[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&b, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#adb5bd"/>`+"\n",
			src.Position.X, src.Position.Y, dst.Position.X, dst.Position.Y)
	}

	nodes := append([]Node(nil), g.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		color, ok := domainColors[n.Domain]
		if !ok {
			color = defaultNodeColor
		}
		fmt.Fprintf(&b, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#495057"/>`+"\n",
			n.Position.X, n.Position.Y, n.Radius, color)
		fmt.Fprintf(&b, `  <text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`+"\n",
			n.Position.X, n.Position.Y+n.Radius+12, escapeXML(n.Label))
	}

	b.WriteString("</svg>\n")
	return b.Bytes()
}

// escapeXML escapes the characters meaningful in SVG text content.
func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
