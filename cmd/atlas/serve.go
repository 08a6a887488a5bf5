package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/auth"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/session"
	"github.com/techatlas/atlas/internal/storage"
	"github.com/techatlas/atlas/internal/view"
	"github.com/techatlas/atlas/internal/viz"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8321", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph over HTTP",
	Long: `Serve the interactive graph viewer and a JSON API over HTTP.

Endpoints:
  GET    /                 Interactive viewer page
  GET    /api/graph        Visible nodes, edges, positions and transform;
                           accepts domain, from and to query parameters
  POST   /api/nodes        Create a node
  PUT    /api/nodes/{id}   Update a node
  DELETE /api/nodes/{id}   Delete a node
  POST   /api/events       Pointer and zoom events driving the shared view

Mutations require a bearer token matching the cached login session when the
repository sets require_auth.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// server owns the shared browsing session behind a lock. The HTTP handlers
// are the only writers.
type server struct {
	mu       sync.Mutex
	repoRoot string
	cfg      *config.Config
	session  *session.Session
}

func runServe(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	s := &server{
		repoRoot: repoRoot,
		cfg:      cfg,
		session:  session.New(mustReadNodes(repoRoot), layout.DefaultConfig()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("POST /api/nodes", s.handleCreateNode)
	mux.HandleFunc("PUT /api/nodes/{id}", s.handleUpdateNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", s.handleDeleteNode)
	mux.HandleFunc("POST /api/events", s.handleEvents)

	fmt.Fprintf(cmd.OutOrStdout(), "Serving atlas on http://%s\n", serveAddr)
	return http.ListenAndServe(serveAddr, mux)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	writeJSON(w, status, ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

// authorize checks the bearer token against the cached login session when
// the repository requires auth.
func (s *server) authorize(r *http.Request) error {
	if !s.cfg.RequireAuth {
		return nil
	}
	cached, err := auth.CurrentSession(config.GlobalStateDir())
	if err != nil || cached == nil {
		return auth.ErrNoSession
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token != cached.Token {
		return auth.ErrInvalidCredentials
	}
	return nil
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	g := viz.Build(s.session.Model(), s.session.Filter(), layout.DefaultConfig())
	s.mu.Unlock()

	html, err := viz.GenerateHTML(g, viz.DefaultOptions())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generating page: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// GraphResponse is the payload for GET /api/graph.
type GraphResponse struct {
	Nodes     []node.Node                `json:"nodes"`
	Edges     []graph.Edge               `json:"edges"`
	Positions map[string]layout.Position `json:"positions"`
	Transform view.Transform             `json:"transform"`
	Selected  string                     `json:"selected,omitempty"`
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if f != nil {
		s.session.SetFilter(*f)
	}
	writeJSON(w, http.StatusOK, GraphResponse{
		Nodes:     s.session.VisibleNodes(),
		Edges:     s.session.VisibleEdges(),
		Positions: s.session.Positions(),
		Transform: s.session.Viewport().Transform(),
		Selected:  s.session.Router().SelectedID(),
	})
}

// filterFromQuery parses the optional domain/from/to query parameters.
// Returns nil when none are present, leaving the session filter untouched.
func filterFromQuery(r *http.Request) (*graph.FilterState, error) {
	q := r.URL.Query()
	if len(q["domain"]) == 0 && q.Get("from") == "" && q.Get("to") == "" {
		return nil, nil
	}

	f := graph.DefaultFilter()
	for _, s := range q["domain"] {
		d := node.Domain(s)
		if !d.Valid() {
			return nil, fmt.Errorf("unknown domain %q", s)
		}
		f.Domains = append(f.Domains, d)
	}
	if v := q.Get("from"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid from year %q", v)
		}
		f.YearRange.Min = year
	}
	if v := q.Get("to"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid to year %q", v)
		}
		f.YearRange.Max = year
	}
	if f.YearRange.Min > f.YearRange.Max {
		return nil, fmt.Errorf("year range %d..%d is empty", f.YearRange.Min, f.YearRange.Max)
	}
	return &f, nil
}

// nodeRequest is the JSON body for create and update.
type nodeRequest struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Year        int      `json:"year"`
	Domain      string   `json:"domain"`
	Status      string   `json:"status"`
	Links       []string `json:"links"`
}

func (s *server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeError(w, http.StatusUnauthorized, "%v", err)
		return
	}

	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding body: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.session.AddNode(graph.NewNode{
		Label:       req.Label,
		Description: req.Description,
		Year:        req.Year,
		Domain:      node.Domain(req.Domain),
		Status:      node.Status(req.Status),
		Links:       req.Links,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid node: %v", err)
		return
	}

	if err := s.persist(); err != nil {
		writeError(w, http.StatusInternalServerError, "writing nodes: %v", err)
		return
	}
	writeJSON(w, http.StatusCreated, NodeResponse{Status: "created", Node: created})
}

func (s *server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeError(w, http.StatusUnauthorized, "%v", err)
		return
	}

	var req nodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decoding body: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	existing := s.session.Model().Get(id)
	if existing == nil {
		writeError(w, http.StatusNotFound, "node %q not found", id)
		return
	}

	updated := *existing
	updated.Label = req.Label
	updated.Description = req.Description
	updated.Year = req.Year
	updated.Domain = node.Domain(req.Domain)
	updated.Status = node.Status(req.Status)
	updated.Links = req.Links

	if err := s.session.UpdateNode(updated); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid node: %v", err)
		return
	}

	if err := s.persist(); err != nil {
		writeError(w, http.StatusInternalServerError, "writing nodes: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, NodeResponse{Status: "updated", Node: updated})
}

func (s *server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeError(w, http.StatusUnauthorized, "%v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.PathValue("id")
	if err := s.session.DeleteNode(id); err != nil {
		writeError(w, http.StatusNotFound, "node %q not found", id)
		return
	}

	if err := s.persist(); err != nil {
		writeError(w, http.StatusInternalServerError, "writing nodes: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResult{Status: "deleted", ID: id})
}

// persist writes the model back to JSONL and refreshes the SQLite cache.
// Callers hold s.mu.
func (s *server) persist() error {
	if err := storage.WriteAllNodes(config.NodesPath(s.repoRoot), s.session.Model().Nodes()); err != nil {
		return err
	}
	rebuildCache(s.repoRoot)
	return nil
}

// pointerEvent is one entry in the POST /api/events body.
type pointerEvent struct {
	Type   string  `json:"type"` // down, move, up, zoom, reset, fit
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	ZoomIn bool    `json:"zoom_in"`
}

// EventsResponse reports the interaction state after applying the events.
type EventsResponse struct {
	State     string                     `json:"state"`
	Selected  string                     `json:"selected,omitempty"`
	Hovered   string                     `json:"hovered,omitempty"`
	Transform view.Transform             `json:"transform"`
	Positions map[string]layout.Position `json:"positions"`
}

func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var events []pointerEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, "decoding body: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	router := s.session.Router()
	for _, ev := range events {
		switch ev.Type {
		case "down":
			router.PointerDown(ev.X, ev.Y)
		case "move":
			router.PointerMove(ev.X, ev.Y)
		case "up":
			router.PointerUp(ev.X, ev.Y)
		case "zoom":
			dir := view.ZoomOut
			if ev.ZoomIn {
				dir = view.ZoomIn
			}
			s.session.Viewport().Zoom(view.Point{X: ev.X, Y: ev.Y}, dir)
		case "reset":
			s.session.Viewport().Reset()
		case "fit":
			s.session.FitToContent(viz.DefaultViewportWidth, viz.DefaultViewportHeight)
		default:
			writeError(w, http.StatusBadRequest, "unknown event type %q", ev.Type)
			return
		}
	}

	writeJSON(w, http.StatusOK, EventsResponse{
		State:     router.State().String(),
		Selected:  router.SelectedID(),
		Hovered:   router.HoveredID(),
		Transform: s.session.Viewport().Transform(),
		Positions: s.session.Positions(),
	})
}
