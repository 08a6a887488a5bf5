package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
	"github.com/techatlas/atlas/internal/dataset"
	"github.com/techatlas/atlas/internal/storage"
)

var initSeed bool

// InitResult is the response for the init command.
type InitResult struct {
	Status    string `json:"status"`
	Path      string `json:"path"`
	NodeCount int    `json:"node_count"`
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initSeed, "seed", false, "Populate the repository with the bundled technology dataset")
}

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize an atlas repository",
	Long: `Initialize an atlas repository in the given directory (default:
current directory).

Creates the .atlas/ directory with a default config, an empty nodes.jsonl,
and the SQLite cache. With --seed, populates the repository with a curated
technology-history dataset.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving directory: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "repository already exists at %s", config.AtlasPath(root))
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.AtlasDir, err)
	}

	cfg := &config.Config{}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	count := 0
	nodesPath := config.NodesPath(root)
	if initSeed {
		nodes, err := dataset.Seed()
		if err != nil {
			exitWithError(ExitDataError, "loading seed dataset: %v", err)
		}
		if err := storage.WriteAllNodes(nodesPath, nodes); err != nil {
			exitWithError(ExitDataError, "writing nodes: %v", err)
		}
		count = len(nodes)
	} else {
		f, err := os.OpenFile(nodesPath, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", config.NodesFile, err)
		}
		f.Close()
	}

	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "creating database: %v", err)
	}
	defer db.Close()
	if _, err := db.RebuildFromJSONL(nodesPath); err != nil {
		exitWithError(ExitDataError, "building cache: %v", err)
	}

	if humanOutput {
		styleGood.Printf("Initialized atlas repository at %s\n", config.AtlasPath(root))
		if count > 0 {
			fmt.Printf("Seeded %d nodes\n", count)
		}
		return nil
	}
	return outputJSON(InitResult{Status: "initialized", Path: config.AtlasPath(root), NodeCount: count})
}
