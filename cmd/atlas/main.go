// Package main provides the atlas CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/graph"
	"github.com/techatlas/atlas/internal/node"
	"github.com/techatlas/atlas/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Technology history graph CLI",
	Long: `atlas is a CLI for browsing and curating a directed graph of
technology history: nodes are technologies placed on a timeline by year and
grouped into domain bands, and edges are prerequisite relationships derived
from each node's declared links.

Core features:
  - Node management (add, update, delete) with derived prerequisite edges
  - Timeline layout with collision avoidance and per-domain bands
  - Full-text search over labels and descriptions
  - Interactive HTML export and SVG rendering via Graphviz
  - Local HTTP server exposing the graph and mutation API

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a
// repository. Checks global config atlas_path first, then current working
// directory.
func getStartingDirectory() (string, int) {
	if root := config.GetAtlasPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustLoadConfig loads repository configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustReadNodes reads the JSONL source of truth, exits on error.
func mustReadNodes(repoRoot string) []node.Node {
	nodes, err := storage.ReadAllNodes(config.NodesPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading nodes: %v", err)
	}
	return nodes
}

// mustLoadModel builds the in-memory graph from the JSONL source of truth.
func mustLoadModel(repoRoot string) *graph.Model {
	return graph.New(mustReadNodes(repoRoot))
}

// rebuildCache refreshes the SQLite cache from JSONL. Cache failures are
// non-fatal: the JSONL write already succeeded, and the cache can be rebuilt
// with 'atlas rebuild'.
func rebuildCache(repoRoot string) {
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening cache: %v (run 'atlas rebuild')\n", err)
		return
	}
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.NodesPath(repoRoot)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: rebuilding cache: %v (run 'atlas rebuild')\n", err)
	}
}
