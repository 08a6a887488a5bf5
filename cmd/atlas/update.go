package main

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/storage"
)

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("label", "l", "", "New display label")
	updateCmd.Flags().StringP("description", "d", "", "New description")
	updateCmd.Flags().StringP("year", "y", "", "New year of introduction")
	updateCmd.Flags().String("domain", "", "New domain")
	updateCmd.Flags().String("status", "", "New status")
	updateCmd.Flags().String("links", "", "New comma-separated prerequisite IDs (replaces existing)")
	updateCmd.Flags().Bool("clear-links", false, "Remove all prerequisite links")
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an existing node",
	Long: `Update fields of an existing node. Only the given flags change;
omitted fields keep their current values. Changing links rewires the node's
derived edges: dropped links lose their edge, added links gain one.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	mustAuthorize(cfg)

	m := mustLoadModel(repoRoot)
	existing := m.Get(args[0])
	if existing == nil {
		exitWithError(ExitNotFound, "node %q not found", args[0])
	}

	updated := *existing
	if v, _ := cmd.Flags().GetString("label"); v != "" {
		updated.Label = v
	}
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		updated.Description = v
	}
	if v, _ := cmd.Flags().GetString("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			exitWithError(ExitError, "invalid year %q", v)
		}
		updated.Year = year
	}
	if v, _ := cmd.Flags().GetString("domain"); v != "" {
		updated.Domain = node.Domain(v)
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		updated.Status = node.Status(v)
	}
	if clear, _ := cmd.Flags().GetBool("clear-links"); clear {
		updated.Links = nil
	} else if v, _ := cmd.Flags().GetString("links"); v != "" {
		updated.Links = splitList(v)
	}

	if err := m.UpdateNode(updated); err != nil {
		if errors.Is(err, node.ErrNodeNotFound) {
			exitWithError(ExitNotFound, "node %q not found", args[0])
		}
		exitWithError(ExitDataError, "invalid node: %v", err)
	}

	if err := storage.WriteAllNodes(config.NodesPath(repoRoot), m.Nodes()); err != nil {
		exitWithError(ExitDataError, "writing nodes: %v", err)
	}
	rebuildCache(repoRoot)

	if humanOutput {
		styleGood.Println("Updated node:")
		printNodeHuman(updated)
		return nil
	}
	return outputJSON(NodeResponse{Status: "updated", Node: updated})
}
