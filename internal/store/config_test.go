package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("PLANBOARD_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CurrentUserID != "" || cfg.DB != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig_AllowsCommentsAndTrailingCommas(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLANBOARD_CONFIG_DIR", dir)

	raw := `{
  // who am I
  "currentUserId": "usr-abc",
  /* default project for the TUI */
  "defaultProjectId": "proj-1",
  "tui": {"theme": "dark",},
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CurrentUserID != "usr-abc" {
		t.Fatalf("expected currentUserId=usr-abc, got %q", cfg.CurrentUserID)
	}
	if cfg.DefaultProjectID != "proj-1" {
		t.Fatalf("expected defaultProjectId=proj-1, got %q", cfg.DefaultProjectID)
	}
	if cfg.TUI == nil || cfg.TUI.Theme != "dark" {
		t.Fatalf("expected tui.theme=dark, got %+v", cfg.TUI)
	}
}

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("PLANBOARD_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&Config{CurrentUserID: "seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.CurrentUserID = fmt.Sprintf("usr-%d", i)
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted/unparseable: %v\nraw:\n%s", err, string(raw))
	}
	if !strings.HasPrefix(cfg.CurrentUserID, "usr-") {
		t.Fatalf("expected a writer's user id, got %q", cfg.CurrentUserID)
	}

	ents, err := os.ReadDir(cfgDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, "config.json.") && strings.HasSuffix(name, ".tmp") {
			t.Fatalf("leftover temp file: %s", name)
		}
	}
}
