package graph

import (
	"github.com/techatlas/atlas/internal/node"
)

// YearRange is a closed year interval.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullYearRange returns the interval covering all valid node years.
func FullYearRange() YearRange {
	return YearRange{Min: node.MinYear, Max: node.MaxYear}
}

// Contains reports whether year falls inside the closed interval.
func (r YearRange) Contains(year int) bool {
	return r.Min <= year && year <= r.Max
}

// FilterState is the active domain and time filter. An empty domain list
// means "all domains" (set semantics).
type FilterState struct {
	Domains   []node.Domain `json:"domains,omitempty"`
	YearRange YearRange     `json:"year_range"`
}

// DefaultFilter matches every valid node.
func DefaultFilter() FilterState {
	return FilterState{YearRange: FullYearRange()}
}

// Matches reports whether n passes the filter.
func (f FilterState) Matches(n node.Node) bool {
	if !f.YearRange.Contains(n.Year) {
		return false
	}
	if len(f.Domains) == 0 {
		return true
	}
	for _, d := range f.Domains {
		if n.Domain == d {
			return true
		}
	}
	return false
}

// FilterNodes keeps nodes matching the filter, preserving input order.
func FilterNodes(nodes []node.Node, f FilterState) []node.Node {
	var kept []node.Node
	for _, n := range nodes {
		if f.Matches(n) {
			kept = append(kept, n)
		}
	}
	return kept
}

// VisibleIDSet builds the ID set of a node slice, the shape FilterEdges
// expects.
func VisibleIDSet(nodes []node.Node) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids
}
