package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/techatlas/atlas/internal/config"
)

// ConfigResponse is the response for config with no arguments.
type ConfigResponse struct {
	RequireAuth  bool   `json:"require_auth"`
	Renderer     string `json:"renderer,omitempty"`
	AtlasPath    string `json:"atlas_path,omitempty"`
	AuthEndpoint string `json:"auth_endpoint,omitempty"`
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  atlas config                         # Show all config
  atlas config require-auth            # Get specific value
  atlas config require-auth true       # Set value

Repository keys (stored in .atlas/config.json):
  require-auth   Require a login session for add/update/delete
  renderer       Graphviz-compatible command for SVG output (default: dot)

Global keys (stored in ~/.config/atlas/config.yml):
  atlas-path     Default repository root when not inside one
  auth-endpoint  Remote identity provider base URL
  auth-api-key   API key for the identity provider`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return showAllConfig()
	}

	key := args[0]
	if len(args) == 1 {
		return getConfigValue(key)
	}
	return setConfigValue(key, args[1])
}

func showAllConfig() error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}

	if humanOutput {
		fmt.Printf("require-auth:  %t\n", cfg.RequireAuth)
		fmt.Printf("renderer:      %s\n", cfg.Renderer)
		fmt.Printf("atlas-path:    %s\n", global.AtlasPath)
		fmt.Printf("auth-endpoint: %s\n", global.AuthEndpoint)
		return nil
	}
	return outputJSON(ConfigResponse{
		RequireAuth:  cfg.RequireAuth,
		Renderer:     cfg.Renderer,
		AtlasPath:    global.AtlasPath,
		AuthEndpoint: global.AuthEndpoint,
	})
}

func getConfigValue(key string) error {
	var value string
	switch key {
	case "require-auth":
		cfg := mustLoadConfig(mustFindRepository())
		value = strconv.FormatBool(cfg.RequireAuth)
	case "renderer":
		cfg := mustLoadConfig(mustFindRepository())
		value = cfg.Renderer
	case "atlas-path":
		value = config.GetAtlasPath()
	case "auth-endpoint":
		value = config.GetAuthEndpoint()
	case "auth-api-key":
		value = config.GetAuthAPIKey()
	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if humanOutput {
		fmt.Println(value)
		return nil
	}
	return outputJSON(map[string]string{key: value})
}

func setConfigValue(key, value string) error {
	switch key {
	case "require-auth", "renderer":
		repoRoot := mustFindRepository()
		cfg := mustLoadConfig(repoRoot)
		if key == "require-auth" {
			b, err := strconv.ParseBool(value)
			if err != nil {
				exitWithError(ExitError, "require-auth must be true or false")
			}
			cfg.RequireAuth = b
		} else {
			cfg.Renderer = value
		}
		if err := cfg.Save(repoRoot); err != nil {
			exitWithError(ExitConfigError, "saving config: %v", err)
		}

	case "atlas-path", "auth-endpoint", "auth-api-key":
		global, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "loading global config: %v", err)
		}
		switch key {
		case "atlas-path":
			global.AtlasPath = config.ExpandTilde(value)
		case "auth-endpoint":
			global.AuthEndpoint = value
		case "auth-api-key":
			global.AuthAPIKey = value
		}
		if err := config.SaveGlobalConfig(global); err != nil {
			exitWithError(ExitConfigError, "saving global config: %v", err)
		}

	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if humanOutput {
		styleGood.Printf("Set %s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}
