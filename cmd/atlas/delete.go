package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/storage"
)

// DeleteResult is the response for the delete command.
type DeleteResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a node",
	Long: `Delete a node and every edge touching it. Other nodes that list
the deleted node as a prerequisite keep the stale link; 'atlas check'
reports it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	mustAuthorize(cfg)

	m := mustLoadModel(repoRoot)
	if err := m.DeleteNode(args[0]); err != nil {
		if errors.Is(err, node.ErrNodeNotFound) {
			exitWithError(ExitNotFound, "node %q not found", args[0])
		}
		exitWithError(ExitError, "deleting node: %v", err)
	}

	if err := storage.WriteAllNodes(config.NodesPath(repoRoot), m.Nodes()); err != nil {
		exitWithError(ExitDataError, "writing nodes: %v", err)
	}
	rebuildCache(repoRoot)

	if humanOutput {
		outputHuman("Deleted %s\n", args[0])
		return nil
	}
	return outputJSON(DeleteResult{Status: "deleted", ID: args[0]})
}
