// Package config handles repository and global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/atlas/config.yml.
type GlobalConfig struct {
	AtlasPath    string `yaml:"atlas_path,omitempty"`    // Default repository location
	AuthEndpoint string `yaml:"auth_endpoint,omitempty"` // Identity provider base URL; empty selects the local account store
	AuthAPIKey   string `yaml:"auth_api_key,omitempty"`  // Identity provider API key
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "atlas"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/atlas/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// GlobalStateDir returns the directory holding mutable per-user state such as
// the cached auth session and the local account store.
func GlobalStateDir() string {
	path := GlobalConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.AtlasPath != "" {
		cfg.AtlasPath = ExpandTilde(cfg.AtlasPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes the global configuration file, creating the
// directory if needed, and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine global config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetAtlasPath returns the configured default repository path from global
// config.
func GetAtlasPath() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.AtlasPath
}

// GetAuthEndpoint returns the identity provider base URL from global config.
func GetAuthEndpoint() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.AuthEndpoint
}

// GetAuthAPIKey returns the identity provider API key from global config.
func GetAuthAPIKey() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.AuthAPIKey
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// HelpfulConfigMessage returns a helpful message when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No atlas repository found.

Tip: run "atlas init" in a directory, or create %s to set a default:
  mkdir -p %s
  echo 'atlas_path: /path/to/your/atlas' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
