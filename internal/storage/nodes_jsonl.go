// Package storage handles node persistence: git-versionable JSONL as the
// source of truth, with an ephemeral SQLite cache for queries and search.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/techatlas/atlas/internal/node"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadAllNodes reads all nodes from a JSONL file.
// Returns an error if any node fails structural validation (fail-fast).
func ReadAllNodes(path string) ([]node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening nodes file: %w", err)
	}
	defer f.Close()

	var nodes []node.Node
	scanner := bufio.NewScanner(f)

	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	seen := make(map[string]bool)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var n node.Node
		if err := json.Unmarshal(line, &n); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}

		if err := n.ValidateForCreate(); err != nil {
			return nil, fmt.Errorf("invalid node at line %d: %w", lineNum, err)
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate node id %q at line %d: %w", n.ID, lineNum, node.ErrDuplicateID)
		}
		seen[n.ID] = true

		nodes = append(nodes, n)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes file: %w", err)
	}

	return nodes, nil
}

// writeNodeJSONL marshals a node to JSON and writes it as a JSONL line.
func writeNodeJSONL(w io.Writer, n node.Node) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding node: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing node: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// AppendNode adds a node to the end of a JSONL file.
func AppendNode(path string, n node.Node) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening nodes file for append: %w", err)
	}
	defer f.Close()

	return writeNodeJSONL(f, n)
}

// WriteAllNodes writes all nodes to a JSONL file, replacing existing content.
func WriteAllNodes(path string, nodes []node.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating nodes file: %w", err)
	}
	defer f.Close()

	for _, n := range nodes {
		if err := writeNodeJSONL(f, n); err != nil {
			return err
		}
	}

	return nil
}

// LoadNodeIDSet loads all node IDs as a set for O(1) lookup.
func LoadNodeIDSet(path string) (map[string]bool, error) {
	nodes, err := ReadAllNodes(path)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids, nil
}
