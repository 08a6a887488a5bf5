package main

import (
	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/graph"
)

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes",
	Long: `List nodes ordered by year. The --domain, --from and --to flags
apply the same visibility filter the viewer uses.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	f := filterFromFlags(cmd)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	nodes, err := db.GetAllNodes()
	if err != nil {
		exitWithError(ExitError, "reading nodes: %v", err)
	}
	nodes = graph.FilterNodes(nodes, f)

	if humanOutput {
		printNodeListHuman(nodes)
		return nil
	}
	return outputJSON(NodeListResponse{Count: len(nodes), Nodes: nodes})
}
