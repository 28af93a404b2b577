package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	m := NewManager()
	if err := m.validateConfig(cfg); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoadConfigWithMissingFileFallsBackToDefaults(t *testing.T) {
	m := NewManager()
	cfg, err := m.LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing config file should fall back to defaults, got error: %v", err)
	}
	if cfg.App.Name != "sclsld" {
		t.Errorf("expected default app name, got %q", cfg.App.Name)
	}
}

func TestLoadConfigReadsYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "cluster:\n  bus_degree_threshold: 5\nfeeder:\n  max_depth: 8\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}

	m := NewManager()
	cfg, err := m.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cluster.BusDegreeThreshold != 5 {
		t.Errorf("expected overridden bus_degree_threshold 5, got %d", cfg.Cluster.BusDegreeThreshold)
	}
	if cfg.Feeder.MaxDepth != 8 {
		t.Errorf("expected overridden max_depth 8, got %d", cfg.Feeder.MaxDepth)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	os.Setenv("SCLSLD_CLUSTER_BUS_DEGREE_THRESHOLD", "7")
	defer os.Unsetenv("SCLSLD_CLUSTER_BUS_DEGREE_THRESHOLD")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cluster:\n  bus_degree_threshold: 5\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture config: %v", err)
	}

	m := NewManager()
	cfg, err := m.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Cluster.BusDegreeThreshold != 7 {
		t.Errorf("expected env override to win, got %d", cfg.Cluster.BusDegreeThreshold)
	}
}

func TestValidateConfigRejectsNonPositiveBusDegreeThreshold(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cluster.BusDegreeThreshold = 0

	m := NewManager()
	if err := m.validateConfig(cfg); err == nil {
		t.Error("expected validation to reject a zero bus_degree_threshold")
	}
}

func TestValidateConfigRejectsZeroPortWhenMetricsEnabled(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Port = 0

	m := NewManager()
	if err := m.validateConfig(cfg); err == nil {
		t.Error("expected validation to reject metrics enabled with port 0")
	}
}

func TestUpdateConfigNotifiesWatchers(t *testing.T) {
	m := NewManager()
	if _, err := m.LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	notified := false
	watcher := &recordingWatcher{onChanged: func(old, new *Config) error {
		notified = true
		return nil
	}}
	m.AddWatcher(watcher)

	next := m.GetConfig()
	next.App.Debug = true
	if err := m.UpdateConfig(next); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	if !notified {
		t.Error("expected watcher to be notified of the config change")
	}
}

func TestRemoveWatcherStopsNotifications(t *testing.T) {
	m := NewManager()
	if _, err := m.LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	calls := 0
	watcher := &recordingWatcher{onChanged: func(old, new *Config) error {
		calls++
		return nil
	}}
	m.AddWatcher(watcher)
	m.RemoveWatcher(watcher)

	if err := m.UpdateConfig(m.GetConfig()); err != nil {
		t.Fatalf("UpdateConfig failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 notifications after removal, got %d", calls)
	}
}

func TestGetConfigReturnsADeepCopy(t *testing.T) {
	m := NewManager()
	if _, err := m.LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	copy1 := m.GetConfig()
	copy1.Cluster.BusNameHints[0] = "MUTATED"

	copy2 := m.GetConfig()
	if copy2.Cluster.BusNameHints[0] == "MUTATED" {
		t.Error("GetConfig should return an independent copy, mutation leaked into the manager's state")
	}
}

func TestSaveConfigWritesReadableYAML(t *testing.T) {
	m := NewManager()
	if _, err := m.LoadConfig(""); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.yaml")
	if err := m.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	reloaded := NewManager()
	cfg, err := reloaded.LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if cfg.App.Name != "sclsld" {
		t.Errorf("reloaded config app name = %q, expected sclsld", cfg.App.Name)
	}
}

type recordingWatcher struct {
	onChanged func(old, new *Config) error
}

func (w *recordingWatcher) OnConfigChanged(oldConfig, newConfig *Config) error {
	return w.onChanged(oldConfig, newConfig)
}
