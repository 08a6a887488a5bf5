// Package dataset embeds the seed node set used to initialize a new
// repository.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	_ "embed"

	"github.com/techatlas/atlas/internal/node"
)

//go:embed seed.jsonl
var seedJSONL []byte

// Seed returns the embedded seed nodes. The data is validated on every call;
// a corrupt embedded dataset is a programming error.
func Seed() ([]node.Node, error) {
	var nodes []node.Node
	scanner := bufio.NewScanner(bytes.NewReader(seedJSONL))

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var n node.Node
		if err := json.Unmarshal(line, &n); err != nil {
			return nil, fmt.Errorf("parsing seed line %d: %w", lineNum, err)
		}
		if err := n.ValidateForCreate(); err != nil {
			return nil, fmt.Errorf("invalid seed node at line %d: %w", lineNum, err)
		}
		nodes = append(nodes, n)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading seed data: %w", err)
	}
	return nodes, nil
}
