package graph

import (
	"fmt"

	"github.com/techatlas/atlas/internal/node"
)

// Model owns the canonical node collection and the edge set derived from it.
// It is a single-writer container: all mutation goes through the methods
// below, which keep the edge set consistent with the nodes' links.
type Model struct {
	nodes []node.Node
	edges []Edge
	index map[string]int // ID → position in nodes
}

// New builds a model from a node set, deriving the edge set. Edges implied by
// links to missing nodes are not materialized; the links stay recorded on the
// node and are reported by DetectDanglingLinks instead.
func New(nodes []node.Node) *Model {
	m := &Model{
		nodes: append([]node.Node(nil), nodes...),
		index: make(map[string]int, len(nodes)),
	}
	for i, n := range m.nodes {
		m.index[n.ID] = i
	}
	m.edges = FilterEdges(DeriveEdges(m.nodes), VisibleIDSet(m.nodes))
	return m
}

// Nodes returns the node collection in insertion order. Callers must not
// mutate the returned slice.
func (m *Model) Nodes() []node.Node {
	return m.nodes
}

// Edges returns the derived edge set. Callers must not mutate the returned
// slice.
func (m *Model) Edges() []Edge {
	return m.edges
}

// Len returns the number of nodes.
func (m *Model) Len() int {
	return len(m.nodes)
}

// Get returns the node with the given ID, or nil if absent.
func (m *Model) Get(id string) *node.Node {
	i, ok := m.index[id]
	if !ok {
		return nil
	}
	n := m.nodes[i]
	return &n
}

// NewNode carries the caller-supplied fields for AddNode; the ID is assigned
// by the model.
type NewNode struct {
	Label       string
	Description string
	Year        int
	Domain      node.Domain
	Status      node.Status
	Links       []string
}

// AddNode validates the input, assigns a fresh unique ID from the label,
// appends the node, and synthesizes one edge per declared link oriented
// link → new node. Returns the created node.
func (m *Model) AddNode(in NewNode) (node.Node, error) {
	n := node.Node{
		ID:          node.NewID(in.Label),
		Label:       in.Label,
		Description: in.Description,
		Year:        in.Year,
		Domain:      in.Domain,
		Status:      in.Status,
		Links:       append([]string(nil), in.Links...),
	}
	if err := n.ValidateForCreate(); err != nil {
		return node.Node{}, err
	}
	if _, exists := m.index[n.ID]; exists {
		return node.Node{}, node.ErrDuplicateID
	}

	m.index[n.ID] = len(m.nodes)
	m.nodes = append(m.nodes, n)

	for _, link := range n.Links {
		if _, ok := m.index[link]; ok {
			m.edges = append(m.edges, Edge{SourceID: link, TargetID: n.ID})
		}
	}
	return n, nil
}

// UpdateNode replaces the node with updated's ID and reconciles the edge set
// by diffing old vs new links. Edge identity for the diff is the unordered
// endpoint pair: an existing edge in either direction satisfies a declared
// link, so either-direction authoring is tolerated. Edges implied by other
// nodes' links are untouched. Idempotent: applying the same update twice
// leaves the same node and edge state as applying it once.
func (m *Model) UpdateNode(updated node.Node) error {
	if err := updated.ValidateForUpdate(); err != nil {
		return err
	}
	i, ok := m.index[updated.ID]
	if !ok {
		return fmt.Errorf("updating %s: %w", updated.ID, node.ErrNodeNotFound)
	}

	oldPairs := m.linkPairs(m.nodes[i])
	newPairs := m.linkPairs(updated)
	m.nodes[i] = updated

	// Drop edges whose pair was implied by the old links but no longer is.
	var kept []Edge
	for _, e := range m.edges {
		pair := e.Pair()
		if oldPairs[pair] && !newPairs[pair] {
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept

	// Add edges for newly implied pairs not already present in either
	// direction.
	existing := make(map[PairKey]bool, len(m.edges))
	for _, e := range m.edges {
		existing[e.Pair()] = true
	}
	for _, link := range updated.Links {
		if _, ok := m.index[link]; !ok {
			continue
		}
		pair := NewPairKey(link, updated.ID)
		if !existing[pair] {
			m.edges = append(m.edges, Edge{SourceID: link, TargetID: updated.ID})
			existing[pair] = true
		}
	}
	return nil
}

// linkPairs is the set of unordered pairs implied by a node's links.
func (m *Model) linkPairs(n node.Node) map[PairKey]bool {
	pairs := make(map[PairKey]bool, len(n.Links))
	for _, link := range n.Links {
		pairs[NewPairKey(link, n.ID)] = true
	}
	return pairs
}

// DeleteNode removes the node and every edge touching it. Links on other
// nodes that referenced the deleted ID are left in place; they derive no
// edges and show up in DetectDanglingLinks.
func (m *Model) DeleteNode(id string) error {
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("deleting %s: %w", id, node.ErrNodeNotFound)
	}

	m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.nodes); j++ {
		m.index[m.nodes[j].ID] = j
	}

	var kept []Edge
	for _, e := range m.edges {
		if e.SourceID == id || e.TargetID == id {
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return nil
}

// RelatedNodes returns the nodes connected to selectedID by exactly one edge
// in either direction (undirected adjacency over directed storage). The
// result is symmetric: if B is related to A then A is related to B.
func (m *Model) RelatedNodes(selectedID string) []node.Node {
	seen := make(map[string]bool)
	var related []node.Node
	add := func(id string) {
		if id == selectedID || seen[id] {
			return
		}
		if i, ok := m.index[id]; ok {
			seen[id] = true
			related = append(related, m.nodes[i])
		}
	}
	for _, e := range m.edges {
		if e.SourceID == selectedID {
			add(e.TargetID)
		}
		if e.TargetID == selectedID {
			add(e.SourceID)
		}
	}
	return related
}

// Visible applies the filter and returns the visible nodes plus the edges
// whose endpoints are both visible, in one step so callers cannot observe a
// node set and edge set from different filter states.
func (m *Model) Visible(f FilterState) ([]node.Node, []Edge) {
	nodes := FilterNodes(m.nodes, f)
	edges := FilterEdges(m.edges, VisibleIDSet(nodes))
	return nodes, edges
}
