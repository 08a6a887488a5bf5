package viz

import (
	"fmt"
	"sort"
	"strings"
)

// domainColors maps domains to Graphviz fill colors.
var domainColors = map[string]string{
	"computing":     "#6ea8fe",
	"electronics":   "#74c0fc",
	"energy":        "#ffd43b",
	"materials":     "#ced4da",
	"transport":     "#63e6be",
	"communication": "#b197fc",
	"biotech":       "#8ce99a",
	"ai":            "#ffa8a8",
}

const defaultNodeColor = "#e9ecef"

// ToDOT renders the graph as a Graphviz DOT document: the textual graph
// description handed to the external renderer. Nodes are emitted in sorted
// order so the output is deterministic.
func (g *GraphData) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph atlas {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle style=filled fontname=\"Helvetica\"];\n")

	nodes := append([]Node(nil), g.Nodes...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		color, ok := domainColors[n.Domain]
		if !ok {
			color = defaultNodeColor
		}
		fmt.Fprintf(&b, "  %s [label=%s fillcolor=%s tooltip=%s];\n",
			quoteDOT(n.ID),
			quoteDOT(fmt.Sprintf("%s\\n%d", n.Label, n.Year)),
			quoteDOT(color),
			quoteDOT(n.Description))
	}

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", quoteDOT(e.Source), quoteDOT(e.Target), quoteDOT(e.Label))
		} else {
			fmt.Fprintf(&b, "  %s -> %s;\n", quoteDOT(e.Source), quoteDOT(e.Target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// quoteDOT wraps a value in DOT double quotes, escaping embedded quotes.
// Newlines written as \n are left for Graphviz to interpret as line breaks.
func quoteDOT(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}
