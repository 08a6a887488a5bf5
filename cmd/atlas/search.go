package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("limit", "n", DefaultSearchLimit, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Full-text search over labels and descriptions",
	Long: `Full-text search over node labels and descriptions using the
SQLite FTS index.

Example:
  atlas search steam power`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	limit, _ := cmd.Flags().GetInt("limit")

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	nodes, err := db.SearchNodes(strings.Join(args, " "), limit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		printNodeListHuman(nodes)
		return nil
	}
	return outputJSON(NodeListResponse{Count: len(nodes), Nodes: nodes})
}
