package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/techatlas/atlas/internal/node"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite cache. The cache is ephemeral: it is rebuilt from the
// JSONL file and can be deleted at any time.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			description TEXT NOT NULL,
			year INTEGER NOT NULL,
			domain TEXT NOT NULL,
			status TEXT NOT NULL,
			links_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_year ON nodes(year);
		CREATE INDEX IF NOT EXISTS idx_nodes_domain ON nodes(domain);

		CREATE VIRTUAL TABLE IF NOT EXISTS nodes_fts USING fts5(
			id,
			label,
			description
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// RebuildFromJSONL clears the node tables and rebuilds them from a JSONL
// file. Returns the number of nodes loaded.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	nodes, err := ReadAllNodes(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading nodes JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM nodes"); err != nil {
		return 0, fmt.Errorf("clearing nodes table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM nodes_fts"); err != nil {
		return 0, fmt.Errorf("clearing nodes_fts table: %w", err)
	}

	nodesStmt, err := d.db.Prepare(`
		INSERT INTO nodes (id, label, description, year, domain, status, links_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing nodes insert: %w", err)
	}
	defer nodesStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO nodes_fts (id, label, description)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing nodes_fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, n := range nodes {
		var linksJSON string
		if len(n.Links) > 0 {
			linksBytes, err := json.Marshal(n.Links)
			if err != nil {
				return 0, fmt.Errorf("marshaling links for %s: %w", n.ID, err)
			}
			linksJSON = string(linksBytes)
		}

		if _, err := nodesStmt.Exec(n.ID, n.Label, n.Description, n.Year, string(n.Domain), string(n.Status), nullableString(linksJSON)); err != nil {
			return 0, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
		if _, err := ftsStmt.Exec(n.ID, n.Label, n.Description); err != nil {
			return 0, fmt.Errorf("inserting nodes_fts for %s: %w", n.ID, err)
		}
	}

	return len(nodes), nil
}

// nullableString converts a Go string to sql.NullString.
func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// GetNodeByID retrieves a node by its ID. Returns nil if absent.
func (d *DB) GetNodeByID(id string) (*node.Node, error) {
	row := d.db.QueryRow(`
		SELECT id, label, description, year, domain, status, links_json
		FROM nodes
		WHERE id = ?
	`, id)

	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying node %s: %w", id, err)
	}
	return n, nil
}

// GetAllNodes returns all nodes ordered by year, then ID.
func (d *DB) GetAllNodes() ([]node.Node, error) {
	rows, err := d.db.Query(`
		SELECT id, label, description, year, domain, status, links_json
		FROM nodes
		ORDER BY year, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// SearchNodes performs a full-text search over label and description.
func (d *DB) SearchNodes(query string, limit int) ([]node.Node, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT n.id, n.label, n.description, n.year, n.domain, n.status, n.links_json
		FROM nodes n
		WHERE n.id IN (SELECT id FROM nodes_fts WHERE nodes_fts MATCH ?)
		ORDER BY n.year, n.id
		LIMIT ?
	`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching nodes: %w", err)
	}
	defer rows.Close()

	return scanNodes(rows)
}

// CountNodes returns the number of nodes in the cache.
func (d *DB) CountNodes() (int, error) {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return count, nil
}

// scanTarget abstracts sql.Row and sql.Rows for scanning.
type scanTarget interface {
	Scan(dest ...interface{}) error
}

// scanNode scans a single node row.
func scanNode(row scanTarget) (*node.Node, error) {
	var n node.Node
	var domain, status string
	var linksJSON sql.NullString

	err := row.Scan(&n.ID, &n.Label, &n.Description, &n.Year, &domain, &status, &linksJSON)
	if err != nil {
		return nil, err
	}

	n.Domain = node.Domain(domain)
	n.Status = node.Status(status)
	if linksJSON.Valid && linksJSON.String != "" {
		if err := json.Unmarshal([]byte(linksJSON.String), &n.Links); err != nil {
			return nil, fmt.Errorf("parsing links for %s: %w", n.ID, err)
		}
	}
	return &n, nil
}

// scanNodes scans all node rows.
func scanNodes(rows *sql.Rows) ([]node.Node, error) {
	var nodes []node.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		nodes = append(nodes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}

// prepareFTSQuery sanitizes a user query for FTS5. Queries containing FTS
// operators are quoted so they match literally.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
