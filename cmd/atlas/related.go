package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(relatedCmd)
}

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "List nodes connected to a node",
	Long: `List the nodes one edge away from the given node, in either
direction: its prerequisites and the technologies that build on it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func runRelated(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	m := mustLoadModel(repoRoot)

	if m.Get(args[0]) == nil {
		exitWithError(ExitNotFound, "node %q not found", args[0])
	}
	nodes := m.RelatedNodes(args[0])

	if humanOutput {
		printNodeListHuman(nodes)
		return nil
	}
	return outputJSON(NodeListResponse{Count: len(nodes), Nodes: nodes})
}
