package main

import (
	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/node"
)

// addFilterFlags registers the shared visibility filter flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("domain", nil, "Restrict to these domains (repeatable)")
	cmd.Flags().Int("from", node.MinYear, "Lower bound of the year range (inclusive)")
	cmd.Flags().Int("to", node.MaxYear, "Upper bound of the year range (inclusive)")
}

// filterFromFlags builds a FilterState from the shared flags, exiting on
// invalid domain names.
func filterFromFlags(cmd *cobra.Command) graph.FilterState {
	domainsStr, _ := cmd.Flags().GetStringSlice("domain")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")

	var domains []node.Domain
	for _, s := range domainsStr {
		d := node.Domain(s)
		if !d.Valid() {
			exitWithError(ExitError, "unknown domain %q", s)
		}
		domains = append(domains, d)
	}

	if from > to {
		exitWithError(ExitError, "year range %d..%d is empty", from, to)
	}

	return graph.FilterState{
		Domains:   domains,
		YearRange: graph.YearRange{Min: from, Max: to},
	}
}
