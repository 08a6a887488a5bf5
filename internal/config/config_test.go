package config

import (
	"os"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestPaths(t *testing.T) {
	root := "/some/root"

	if got := AtlasPath(root); got != filepath.Join(root, ".atlas") {
		t.Errorf("AtlasPath = %q", got)
	}
	if got := NodesPath(root); got != filepath.Join(root, ".atlas", "nodes.jsonl") {
		t.Errorf("NodesPath = %q", got)
	}
	if got := DBPath(root); got != filepath.Join(root, ".atlas", "cache", "atlas.db") {
		t.Errorf("DBPath = %q", got)
	}
}

func TestIsRepository(t *testing.T) {
	root := initRepo(t)
	if !IsRepository(root) {
		t.Error("IsRepository = false for initialized repo")
	}
	if IsRepository(t.TempDir()) {
		t.Error("IsRepository = true for empty dir")
	}
}

func TestFindRepository(t *testing.T) {
	root := initRepo(t)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository: %v", err)
	}
	// TempDir may sit behind a symlink; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(found)
	if gotResolved != wantResolved {
		t.Errorf("FindRepository = %q, want %q", found, root)
	}

	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("FindRepository found a repo where none exists")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	root := initRepo(t)

	cfg := &Config{RequireAuth: true, Renderer: "dot"}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load on missing config succeeded")
	}
}

func TestGlobalConfigRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	cfg := &GlobalConfig{
		AuthEndpoint: "https://identity.example.com/v1",
		AuthAPIKey:   "key-123",
	}
	if err := SaveGlobalConfig(cfg); err != nil {
		t.Fatalf("SaveGlobalConfig: %v", err)
	}

	ResetGlobalConfigCache()
	loaded, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig: %v", err)
	}
	if loaded.AuthEndpoint != cfg.AuthEndpoint || loaded.AuthAPIKey != cfg.AuthAPIKey {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}

	if got := GetAuthEndpoint(); got != cfg.AuthEndpoint {
		t.Errorf("GetAuthEndpoint = %q", got)
	}
}

func TestLoadGlobalConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig on missing file: %v", err)
	}
	if cfg.AuthEndpoint != "" || cfg.AtlasPath != "" {
		t.Errorf("missing file should yield empty config, got %+v", cfg)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	if got := ExpandTilde("~/atlas"); got != filepath.Join(home, "atlas") {
		t.Errorf("ExpandTilde(~/atlas) = %q", got)
	}
	if got := ExpandTilde("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandTilde(/absolute/path) = %q", got)
	}
	if got := ExpandTilde("~"); got != home {
		t.Errorf("ExpandTilde(~) = %q", got)
	}
}
