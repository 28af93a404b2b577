package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("cluster:\n  bus_degree_threshold: 3\n"), 0o644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	m := NewManager()
	if _, err := m.LoadConfig(path); err != nil {
		t.Fatalf("initial LoadConfig failed: %v", err)
	}

	fw, err := NewFileWatcher(m, path)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	fw.debounceDelay = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := fw.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer fw.Stop()

	if err := os.WriteFile(path, []byte("cluster:\n  bus_degree_threshold: 9\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.GetConfig().Cluster.BusDegreeThreshold == 9 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected the watcher to reload bus_degree_threshold=9, got %d", m.GetConfig().Cluster.BusDegreeThreshold)
}

func TestFileWatcherWithNoPathIsANoop(t *testing.T) {
	m := NewManager()
	fw, err := NewFileWatcher(m, "")
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := fw.Start(ctx); err != nil {
		t.Errorf("Start with empty path should be a no-op, got error: %v", err)
	}
}

func TestValidateChangeRejectsNonPositiveBusDegreeThreshold(t *testing.T) {
	cv := NewConfigValidator()
	old := GetDefaultConfig()
	next := GetDefaultConfig()
	next.Cluster.BusDegreeThreshold = 0

	if err := cv.ValidateChange(old, next); err == nil {
		t.Error("expected validation to reject a non-positive bus degree threshold")
	}
}

func TestValidateChangeRejectsNonPositiveFeederMaxDepth(t *testing.T) {
	cv := NewConfigValidator()
	old := GetDefaultConfig()
	next := GetDefaultConfig()
	next.Feeder.MaxDepth = -1

	if err := cv.ValidateChange(old, next); err == nil {
		t.Error("expected validation to reject a non-positive feeder max depth")
	}
}

func TestValidateChangeRejectsMetricsEnabledWithZeroPort(t *testing.T) {
	cv := NewConfigValidator()
	old := GetDefaultConfig()
	next := GetDefaultConfig()
	next.Metrics.Enabled = true
	next.Metrics.Port = 0

	if err := cv.ValidateChange(old, next); err == nil {
		t.Error("expected validation to reject metrics enabled with a zero port")
	}
}

func TestValidateChangeAllowsNilSnapshots(t *testing.T) {
	cv := NewConfigValidator()
	if err := cv.ValidateChange(nil, GetDefaultConfig()); err != nil {
		t.Errorf("expected a nil old config to be allowed, got: %v", err)
	}
}

func TestValidateChangeAcceptsValidChange(t *testing.T) {
	cv := NewConfigValidator()
	old := GetDefaultConfig()
	next := GetDefaultConfig()
	next.Cluster.BusDegreeThreshold = 5

	if err := cv.ValidateChange(old, next); err != nil {
		t.Errorf("expected a valid change to pass, got: %v", err)
	}
}
