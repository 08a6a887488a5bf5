package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/techatlas/atlas/internal/node"
)

func sampleNodes() []node.Node {
	return []node.Node{
		{
			ID: "steam-engine", Label: "Steam Engine",
			Description: "High-pressure external combustion engine.",
			Year:        1804, Domain: node.DomainEnergy, Status: node.StatusHistorical,
		},
		{
			ID: "transistor", Label: "Transistor",
			Description: "Semiconductor device to amplify or switch signals.",
			Year:        1947, Domain: node.DomainElectronics, Status: node.StatusHistorical,
		},
		{
			ID: "microprocessor", Label: "Microprocessor",
			Description: "A complete CPU on a single integrated chip.",
			Year:        1971, Domain: node.DomainComputing, Status: node.StatusCurrent,
			Links: []string{"transistor"},
		},
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.jsonl")
	nodes := sampleNodes()

	if err := WriteAllNodes(path, nodes); err != nil {
		t.Fatalf("WriteAllNodes: %v", err)
	}

	got, err := ReadAllNodes(path)
	if err != nil {
		t.Fatalf("ReadAllNodes: %v", err)
	}
	if !reflect.DeepEqual(got, nodes) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, nodes)
	}
}

func TestReadAllNodesMissingFile(t *testing.T) {
	got, err := ReadAllNodes(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err != nil {
		t.Fatalf("ReadAllNodes on missing file: %v", err)
	}
	if got != nil {
		t.Errorf("missing file returned %v, want nil", got)
	}
}

func TestAppendNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.jsonl")
	nodes := sampleNodes()

	for _, n := range nodes {
		if err := AppendNode(path, n); err != nil {
			t.Fatalf("AppendNode(%s): %v", n.ID, err)
		}
	}

	got, err := ReadAllNodes(path)
	if err != nil {
		t.Fatalf("ReadAllNodes: %v", err)
	}
	if len(got) != len(nodes) {
		t.Errorf("read %d nodes, want %d", len(got), len(nodes))
	}
}

func TestReadAllNodesFailFast(t *testing.T) {
	dir := t.TempDir()

	t.Run("invalid node", func(t *testing.T) {
		path := filepath.Join(dir, "bad.jsonl")
		// Year out of range.
		line := `{"id":"x","label":"X","description":"d","year":1700,"domain":"energy","status":"historical"}` + "\n"
		if err := os.WriteFile(path, []byte(line), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadAllNodes(path); !errors.Is(err, node.ErrYearOutOfRange) {
			t.Errorf("err = %v, want ErrYearOutOfRange", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		path := filepath.Join(dir, "dup.jsonl")
		line := `{"id":"x","label":"X","description":"d","year":1900,"domain":"energy","status":"historical"}` + "\n"
		if err := os.WriteFile(path, []byte(line+line), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadAllNodes(path); !errors.Is(err, node.ErrDuplicateID) {
			t.Errorf("err = %v, want ErrDuplicateID", err)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "garbled.jsonl")
		if err := os.WriteFile(path, []byte("{not json}\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadAllNodes(path); err == nil {
			t.Error("malformed JSONL read without error")
		}
	})
}

func TestSQLiteRebuildAndQuery(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "nodes.jsonl")
	if err := WriteAllNodes(jsonlPath, sampleNodes()); err != nil {
		t.Fatalf("WriteAllNodes: %v", err)
	}

	db, err := OpenDB(filepath.Join(dir, "atlas.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	count, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL: %v", err)
	}
	if count != 3 {
		t.Errorf("rebuilt %d nodes, want 3", count)
	}

	got, err := db.CountNodes()
	if err != nil {
		t.Fatalf("CountNodes: %v", err)
	}
	if got != 3 {
		t.Errorf("CountNodes = %d, want 3", got)
	}

	n, err := db.GetNodeByID("microprocessor")
	if err != nil {
		t.Fatalf("GetNodeByID: %v", err)
	}
	if n == nil {
		t.Fatal("GetNodeByID returned nil for existing node")
	}
	if n.Year != 1971 || n.Domain != node.DomainComputing {
		t.Errorf("node = %+v, want year 1971 domain computing", n)
	}
	if !reflect.DeepEqual(n.Links, []string{"transistor"}) {
		t.Errorf("links = %v, want [transistor]", n.Links)
	}

	if n, err := db.GetNodeByID("ghost"); err != nil || n != nil {
		t.Errorf("GetNodeByID(ghost) = %v, %v; want nil, nil", n, err)
	}

	all, err := db.GetAllNodes()
	if err != nil {
		t.Fatalf("GetAllNodes: %v", err)
	}
	var ids []string
	for _, n := range all {
		ids = append(ids, n.ID)
	}
	// Ordered by year.
	if !reflect.DeepEqual(ids, []string{"steam-engine", "transistor", "microprocessor"}) {
		t.Errorf("GetAllNodes order = %v", ids)
	}
}

func TestSearchNodes(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "nodes.jsonl")
	if err := WriteAllNodes(jsonlPath, sampleNodes()); err != nil {
		t.Fatalf("WriteAllNodes: %v", err)
	}

	db, err := OpenDB(filepath.Join(dir, "atlas.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
		t.Fatalf("RebuildFromJSONL: %v", err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"semiconductor", []string{"transistor"}},
		{"engine", []string{"steam-engine"}},
		{"chip", []string{"microprocessor"}},
		{"nonexistent", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got, err := db.SearchNodes(tt.query, 50)
		if err != nil {
			t.Fatalf("SearchNodes(%q): %v", tt.query, err)
		}
		var ids []string
		for _, n := range got {
			ids = append(ids, n.ID)
		}
		if !reflect.DeepEqual(ids, tt.want) {
			t.Errorf("SearchNodes(%q) = %v, want %v", tt.query, ids, tt.want)
		}
	}
}

func TestLoadNodeIDSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.jsonl")
	if err := WriteAllNodes(path, sampleNodes()); err != nil {
		t.Fatalf("WriteAllNodes: %v", err)
	}

	ids, err := LoadNodeIDSet(path)
	if err != nil {
		t.Fatalf("LoadNodeIDSet: %v", err)
	}
	if len(ids) != 3 || !ids["transistor"] {
		t.Errorf("ids = %v", ids)
	}
}
