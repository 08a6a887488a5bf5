package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/layout"
	"github.com/techatlas/atlas/internal/viz"
)

var vizOutput string
var vizFormat string

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVarP(&vizFormat, "format", "f", "html", "Output format: html, svg, or dot")
	addFilterFlags(vizCmd)
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate a timeline visualization",
	Long: `Generate a visualization of the technology graph.

Nodes are placed on a horizontal timeline by year, stacked into one band per
domain, with overlapping nodes pushed apart. Node size grows with the number
of connections.

Formats:
  html  Interactive page with pan, zoom, drag and hover (default)
  svg   Static image rendered via Graphviz; falls back to a grid placement
        when the renderer is unavailable
  dot   Graphviz source

Examples:
  atlas viz --output graph.html
  atlas viz --format svg --domain computing --from 1940 -o computing.svg`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	f := filterFromFlags(cmd)

	m := mustLoadModel(repoRoot)
	graph := viz.Build(m, f, layout.DefaultConfig())

	var out []byte
	switch vizFormat {
	case "html":
		html, err := viz.GenerateHTML(graph, viz.DefaultOptions())
		if err != nil {
			return fmt.Errorf("generating HTML: %w", err)
		}
		out = []byte(html)
	case "dot":
		out = []byte(graph.ToDOT())
	case "svg":
		renderer := viz.NewExecRenderer(cfg.Renderer)
		fallback := viz.BuildFallback(m, f, layout.DefaultConfig(), "")
		svg, notice := viz.RenderSVG(context.Background(), graph, fallback, renderer)
		if notice != "" {
			fmt.Fprintf(os.Stderr, "warning: %s\n", notice)
		}
		out = svg
	default:
		exitWithError(ExitError, "invalid format %q: must be html, svg, or dot", vizFormat)
	}

	if vizOutput == "" {
		os.Stdout.Write(out)
		return nil
	}
	if err := os.WriteFile(vizOutput, out, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		fmt.Printf("Visualization written to %s\n", vizOutput)
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: vizOutput})
}
