package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/session"
	"github.com/techatlas/atlas/internal/storage"
)

// newTestServer builds a server over a throwaway repository with two nodes.
func newTestServer(t *testing.T, requireAuth bool) *server {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		t.Fatalf("creating repo dirs: %v", err)
	}

	nodes := []node.Node{
		{
			ID: "steam-engine", Label: "Steam Engine", Description: "High-pressure steam power",
			Year: 1804, Domain: node.DomainEnergy, Status: node.StatusHistorical,
		},
		{
			ID: "railway", Label: "Railway", Description: "Steam locomotion on rails",
			Year: 1830, Domain: node.DomainTransport, Status: node.StatusHistorical,
			Links: []string{"steam-engine"},
		},
	}
	if err := storage.WriteAllNodes(config.NodesPath(root), nodes); err != nil {
		t.Fatalf("writing nodes: %v", err)
	}
	return &server{
		repoRoot: root,
		cfg:      &config.Config{RequireAuth: requireAuth},
		session:  session.New(nodes, layout.DefaultConfig()),
	}
}

func TestHandleGraph(t *testing.T) {
	s := newTestServer(t, false)

	r := httptest.NewRequest("GET", "/api/graph", nil)
	w := httptest.NewRecorder()
	s.handleGraph(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp GraphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Nodes) != 2 || len(resp.Edges) != 1 {
		t.Errorf("got %d nodes, %d edges; want 2, 1", len(resp.Nodes), len(resp.Edges))
	}
	if len(resp.Positions) != 2 {
		t.Errorf("Positions = %d entries, want 2", len(resp.Positions))
	}
}

func TestHandleGraphFilter(t *testing.T) {
	s := newTestServer(t, false)

	r := httptest.NewRequest("GET", "/api/graph?domain=energy", nil)
	w := httptest.NewRecorder()
	s.handleGraph(w, r)

	var resp GraphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Nodes) != 1 || resp.Nodes[0].ID != "steam-engine" {
		t.Fatalf("nodes = %+v, want only steam-engine", resp.Nodes)
	}
	if len(resp.Edges) != 0 {
		t.Errorf("Edges = %d, want 0", len(resp.Edges))
	}
	// Positions must cover exactly the visible set.
	if len(resp.Positions) != 1 {
		t.Errorf("Positions = %d entries, want 1", len(resp.Positions))
	}
}

func TestHandleGraphBadFilter(t *testing.T) {
	s := newTestServer(t, false)

	r := httptest.NewRequest("GET", "/api/graph?domain=alchemy", nil)
	w := httptest.NewRecorder()
	s.handleGraph(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	s := newTestServer(t, true)

	body := strings.NewReader(`{"label":"Transistor","description":"Switching element","year":1947,"domain":"electronics","status":"historical"}`)
	r := httptest.NewRequest("POST", "/api/nodes", body)
	w := httptest.NewRecorder()
	s.handleCreateNode(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHandleCreateNode(t *testing.T) {
	s := newTestServer(t, false)

	body := strings.NewReader(`{"label":"Transistor","description":"Switching element","year":1947,"domain":"electronics","status":"historical","links":["steam-engine"]}`)
	r := httptest.NewRequest("POST", "/api/nodes", body)
	w := httptest.NewRecorder()
	s.handleCreateNode(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var resp NodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Node.ID == "" || !strings.HasPrefix(resp.Node.ID, "transistor") {
		t.Errorf("Node.ID = %q, want transistor-prefixed", resp.Node.ID)
	}

	// Persisted to JSONL.
	nodes, err := storage.ReadAllNodes(config.NodesPath(s.repoRoot))
	if err != nil {
		t.Fatalf("reading nodes: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("persisted %d nodes, want 3", len(nodes))
	}
}

func TestHandleCreateNodeInvalid(t *testing.T) {
	s := newTestServer(t, false)

	body := strings.NewReader(`{"label":"","description":"x","year":1947,"domain":"electronics","status":"historical"}`)
	r := httptest.NewRequest("POST", "/api/nodes", body)
	w := httptest.NewRecorder()
	s.handleCreateNode(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleDeleteNode(t *testing.T) {
	s := newTestServer(t, false)

	r := httptest.NewRequest("DELETE", "/api/nodes/railway", nil)
	r.SetPathValue("id", "railway")
	w := httptest.NewRecorder()
	s.handleDeleteNode(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if s.session.Model().Get("railway") != nil {
		t.Error("railway still present after delete")
	}
	if len(s.session.VisibleEdges()) != 0 {
		t.Errorf("edges = %d after delete, want 0", len(s.session.VisibleEdges()))
	}
}

func TestHandleEvents(t *testing.T) {
	s := newTestServer(t, false)

	// Pan then release: the viewport moves and nothing is selected.
	body := strings.NewReader(`[
		{"type":"down","x":1000,"y":700},
		{"type":"move","x":1040,"y":725},
		{"type":"up","x":1040,"y":725}
	]`)
	r := httptest.NewRequest("POST", "/api/events", body)
	w := httptest.NewRecorder()
	s.handleEvents(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp EventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.State != "idle" {
		t.Errorf("State = %q, want idle", resp.State)
	}
	if resp.Selected != "" {
		t.Errorf("Selected = %q, want empty", resp.Selected)
	}
}

func TestHandleEventsUnknownType(t *testing.T) {
	s := newTestServer(t, false)

	r := httptest.NewRequest("POST", "/api/events", strings.NewReader(`[{"type":"wiggle"}]`))
	w := httptest.NewRecorder()
	s.handleEvents(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
