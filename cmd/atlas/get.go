package main

import (
	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/node"
)

// GetResult is the response for the get command.
type GetResult struct {
	Node        node.Node `json:"node"`
	Connections int       `json:"connections"`
}

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a node",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	n, err := db.GetNodeByID(args[0])
	if err != nil {
		exitWithError(ExitError, "reading node: %v", err)
	}
	if n == nil {
		exitWithError(ExitNotFound, "node %q not found", args[0])
	}

	connections := len(mustLoadModel(repoRoot).RelatedNodes(n.ID))

	if humanOutput {
		printNodeHuman(*n)
		outputHuman("  Connections: %d\n", connections)
		return nil
	}
	return outputJSON(GetResult{Node: *n, Connections: connections})
}
