// Package graph holds the canonical node and edge collections and their
// derived, read-only views. Edges are never authored directly: every edge is
// materialized from some node's links field, oriented prerequisite → dependent.
package graph

import (
	"github.com/techatlas/atlas/internal/node"
)

// Edge represents a derived prerequisite relationship: SourceID is a
// prerequisite of TargetID.
type Edge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label,omitempty"`
}

// PairKey is the unordered endpoint pair of an edge. Link reconciliation in
// UpdateNode treats A→B and B→A as the same relationship, so identity for
// diffing purposes ignores direction.
type PairKey struct {
	Low, High string
}

// Pair returns the unordered endpoint pair for this edge.
func (e Edge) Pair() PairKey {
	return NewPairKey(e.SourceID, e.TargetID)
}

// NewPairKey builds a PairKey from two endpoint IDs in either order.
func NewPairKey(a, b string) PairKey {
	if a < b {
		return PairKey{Low: a, High: b}
	}
	return PairKey{Low: b, High: a}
}

// DeriveEdges materializes the edge set implied by the nodes' links: one edge
// per (link entry, owning node) pair, oriented link → owner. Pure function;
// no cycle detection is performed — a cycle renders as circular arrows, it is
// not an error.
func DeriveEdges(nodes []node.Node) []Edge {
	var edges []Edge
	for _, n := range nodes {
		for _, link := range n.Links {
			edges = append(edges, Edge{SourceID: link, TargetID: n.ID})
		}
	}
	return edges
}

// FilterEdges keeps only edges whose endpoints are both in the visible node
// set. An edge disappears the instant either endpoint is filtered out; edges
// have no independent visibility.
func FilterEdges(edges []Edge, visibleIDs map[string]bool) []Edge {
	var kept []Edge
	for _, e := range edges {
		if visibleIDs[e.SourceID] && visibleIDs[e.TargetID] {
			kept = append(kept, e)
		}
	}
	return kept
}

// ConnectionCounts returns the number of edges touching each node ID, counting
// both directions. Layout sizing uses this to render well-connected nodes
// larger.
func ConnectionCounts(edges []Edge) map[string]int {
	counts := make(map[string]int)
	for _, e := range edges {
		counts[e.SourceID]++
		counts[e.TargetID]++
	}
	return counts
}

// DanglingLink describes a link entry that references a node ID not present
// in the node set. Links are not validated at write time, so the check
// command surfaces these for repair.
type DanglingLink struct {
	NodeID string `json:"node_id"` // Node that declares the link
	LinkID string `json:"link_id"` // Referenced ID that does not exist
}

// DetectDanglingLinks finds link entries referencing missing node IDs.
func DetectDanglingLinks(nodes []node.Node) []DanglingLink {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	var dangling []DanglingLink
	for _, n := range nodes {
		for _, link := range n.Links {
			if !ids[link] {
				dangling = append(dangling, DanglingLink{NodeID: n.ID, LinkID: link})
			}
		}
	}
	return dangling
}
