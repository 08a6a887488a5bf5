package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/graph"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify repository integrity",
	Long: `Verify repository integrity. Reports links that reference node IDs
not present in the graph; these produce no edge until the target exists.

Exits non-zero when issues are found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status   string               `json:"status"`
	Nodes    int                  `json:"nodes"`
	Edges    int                  `json:"edges"`
	Dangling []graph.DanglingLink `json:"dangling_links"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	nodes := mustReadNodes(repoRoot)
	m := graph.New(nodes)
	dangling := graph.DetectDanglingLinks(nodes)

	status := "ok"
	if len(dangling) > 0 {
		status = "issues"
	}
	result := CheckResult{
		Status:   status,
		Nodes:    m.Len(),
		Edges:    len(m.Edges()),
		Dangling: dangling,
	}

	if humanOutput {
		outputHuman("%d nodes, %d edges\n", result.Nodes, result.Edges)
		if len(dangling) == 0 {
			styleGood.Println("No issues found")
		} else {
			for _, d := range dangling {
				styleWarn.Printf("dangling link: %s -> %s\n", d.NodeID, d.LinkID)
			}
		}
	} else {
		if err := outputJSON(result); err != nil {
			return err
		}
	}

	if len(dangling) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
