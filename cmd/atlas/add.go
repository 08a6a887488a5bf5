package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/storage"
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("label", "l", "", "Display label (required)")
	addCmd.Flags().StringP("description", "d", "", "Description text (required)")
	addCmd.Flags().IntP("year", "y", 0, "Year of introduction (required)")
	addCmd.Flags().String("domain", "", "Domain: "+strings.Join(domainNames(), ", ")+" (required)")
	addCmd.Flags().String("status", string(node.StatusHistorical), "Status: historical, current, emerging, or theoretical")
	addCmd.Flags().String("links", "", "Comma-separated prerequisite node IDs")
	addCmd.MarkFlagRequired("label")
	addCmd.MarkFlagRequired("description")
	addCmd.MarkFlagRequired("year")
	addCmd.MarkFlagRequired("domain")
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new technology node",
	Long: `Add a new technology node to the graph.

The node ID is derived from the label plus a unique suffix. Links name
prerequisite nodes; each link produces a directed edge from the prerequisite
to the new node. Links to IDs not yet in the graph are stored and surface as
edges once the target exists (see 'atlas check').

Example:
  atlas add -l "Transistor" -d "Semiconductor switching element" -y 1947 \
    --domain electronics --links vacuum-tube,semiconductors`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	mustAuthorize(cfg)

	label, _ := cmd.Flags().GetString("label")
	description, _ := cmd.Flags().GetString("description")
	year, _ := cmd.Flags().GetInt("year")
	domain, _ := cmd.Flags().GetString("domain")
	status, _ := cmd.Flags().GetString("status")
	linksStr, _ := cmd.Flags().GetString("links")

	m := mustLoadModel(repoRoot)

	created, err := m.AddNode(graph.NewNode{
		Label:       label,
		Description: description,
		Year:        year,
		Domain:      node.Domain(domain),
		Status:      node.Status(status),
		Links:       splitList(linksStr),
	})
	if err != nil {
		exitWithError(ExitDataError, "invalid node: %v", err)
	}

	if err := storage.AppendNode(config.NodesPath(repoRoot), created); err != nil {
		exitWithError(ExitDataError, "writing node: %v", err)
	}
	rebuildCache(repoRoot)

	if humanOutput {
		styleGood.Println("Created node:")
		printNodeHuman(created)
		return nil
	}
	return outputJSON(NodeResponse{Status: "created", Node: created})
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// domainNames lists the valid domain values for help text.
func domainNames() []string {
	names := make([]string, len(node.Domains))
	for i, d := range node.Domains {
		names[i] = string(d)
	}
	return names
}
