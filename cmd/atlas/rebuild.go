package main

import (
	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
)

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache from JSONL",
	Long: `Rebuild the ephemeral SQLite cache from the nodes.jsonl source of
truth. Run this after editing the JSONL by hand or pulling changes.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.NodesPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding cache: %v", err)
	}

	if humanOutput {
		styleGood.Printf("Rebuilt cache with %d nodes\n", count)
		return nil
	}
	return outputJSON(RebuildResult{Status: "rebuilt", Nodes: count})
}
