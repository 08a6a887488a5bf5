// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .atlas/config.json.
type Config struct {
	RequireAuth bool   `json:"require_auth"`       // Gate mutating commands behind a session
	Renderer    string `json:"renderer,omitempty"` // External renderer command (e.g. "dot"); empty uses the builtin layout
}

const (
	AtlasDir   = ".atlas"
	ConfigFile = "config.json"
	NodesFile  = "nodes.jsonl"
	CacheDir   = "cache"
	DBFile     = "atlas.db"
)

// AtlasPath returns the path to the .atlas directory from a root path.
func AtlasPath(root string) string {
	return filepath.Join(root, AtlasDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, AtlasDir, ConfigFile)
}

// NodesPath returns the path to nodes.jsonl from a root path.
func NodesPath(root string) string {
	return filepath.Join(root, AtlasDir, NodesFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, AtlasDir, CacheDir)
}

// DBPath returns the path to atlas.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, AtlasDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains an atlas repository.
func IsRepository(root string) bool {
	info, err := os.Stat(AtlasPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find an atlas repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in an atlas repository (no .atlas directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
