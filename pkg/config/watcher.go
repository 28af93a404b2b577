// Package config provides configuration file watching and hot-reloading.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"sclsld/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches the configuration file for changes and triggers
// reloads, debounced so a burst of filesystem events only reloads once.
type FileWatcher struct {
	manager    *Manager
	watcher    *fsnotify.Watcher
	logger     *logging.Logger
	configPath string

	debounceDelay time.Duration
	lastEvent     time.Time
}

// NewFileWatcher creates a new configuration file watcher.
func NewFileWatcher(manager *Manager, configPath string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		manager:       manager,
		watcher:       watcher,
		logger:        logging.NewLogger("config-watcher", logging.INFO, false),
		configPath:    configPath,
		debounceDelay: 500 * time.Millisecond,
	}

	return fw, nil
}

// Start begins watching the configuration file for changes.
func (fw *FileWatcher) Start(ctx context.Context) error {
	if fw.configPath == "" {
		fw.logger.Info("no config file to watch", nil)
		return nil
	}

	configDir := filepath.Dir(fw.configPath)
	if err := fw.watcher.Add(configDir); err != nil {
		return err
	}

	fw.logger.Info("started watching config file", map[string]interface{}{
		"config_path": fw.configPath,
		"config_dir":  configDir,
	})

	go fw.watchLoop(ctx)

	return nil
}

// Stop stops watching the configuration file.
func (fw *FileWatcher) Stop() error {
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	defer fw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("config watcher stopped", nil)
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFileEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("config watcher error", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (fw *FileWatcher) handleFileEvent(event fsnotify.Event) {
	if event.Name != fw.configPath {
		return
	}

	now := time.Now()
	if now.Sub(fw.lastEvent) < fw.debounceDelay {
		return
	}
	fw.lastEvent = now

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		fw.logger.Info("config file modified, reloading", map[string]interface{}{"config_path": event.Name})
		fw.reloadConfig()

	case event.Op&fsnotify.Create == fsnotify.Create:
		fw.logger.Info("config file created, reloading", map[string]interface{}{"config_path": event.Name})
		fw.reloadConfig()

	case event.Op&fsnotify.Remove == fsnotify.Remove:
		fw.logger.Warn("config file removed", map[string]interface{}{"config_path": event.Name})

	case event.Op&fsnotify.Rename == fsnotify.Rename:
		fw.logger.Info("config file renamed", map[string]interface{}{"config_path": event.Name})
	}
}

func (fw *FileWatcher) reloadConfig() {
	newConfig, err := fw.manager.LoadConfig(fw.configPath)
	if err != nil {
		fw.logger.Error("failed to reload config", map[string]interface{}{
			"error":       err.Error(),
			"config_path": fw.configPath,
		})
		return
	}

	if err := fw.manager.UpdateConfig(newConfig); err != nil {
		fw.logger.Error("failed to update config", map[string]interface{}{"error": err.Error()})
		return
	}

	fw.logger.Info("configuration reloaded successfully", map[string]interface{}{"config_path": fw.configPath})
}

// ConfigValidator validates configuration changes between reloads: it rejects
// invalid cluster, feeder and metrics values in the new snapshot and logs
// which tunables changed.
type ConfigValidator struct {
	logger *logging.Logger
}

// NewConfigValidator creates a new configuration validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		logger: logging.NewLogger("config-validator", logging.INFO, false),
	}
}

// ValidateChange validates a configuration change between an old and new
// snapshot.
func (cv *ConfigValidator) ValidateChange(oldConfig, newConfig *Config) error {
	if oldConfig == nil || newConfig == nil {
		return nil
	}

	if err := cv.validateClusterChanges(oldConfig, newConfig); err != nil {
		return err
	}
	if err := cv.validateFeederChanges(oldConfig, newConfig); err != nil {
		return err
	}
	if err := cv.validateMetricsChanges(oldConfig, newConfig); err != nil {
		return err
	}

	cv.logger.Info("configuration change validation passed", nil)
	return nil
}

func (cv *ConfigValidator) validateClusterChanges(oldConfig, newConfig *Config) error {
	old := &oldConfig.Cluster
	next := &newConfig.Cluster

	if next.BusDegreeThreshold <= 0 {
		return fmt.Errorf("bus degree threshold must be positive, got %d", next.BusDegreeThreshold)
	}

	if old.BusDegreeThreshold != next.BusDegreeThreshold {
		cv.logger.Info("bus degree threshold changed, will apply on next plan build", map[string]interface{}{
			"old": old.BusDegreeThreshold,
			"new": next.BusDegreeThreshold,
		})
	}

	return nil
}

func (cv *ConfigValidator) validateFeederChanges(oldConfig, newConfig *Config) error {
	old := &oldConfig.Feeder
	next := &newConfig.Feeder

	if next.MaxDepth <= 0 {
		return fmt.Errorf("feeder max depth must be positive, got %d", next.MaxDepth)
	}

	if old.MaxDepth != next.MaxDepth {
		cv.logger.Info("feeder max depth changed, will apply on next plan build", map[string]interface{}{
			"old": old.MaxDepth,
			"new": next.MaxDepth,
		})
	}

	return nil
}

func (cv *ConfigValidator) validateMetricsChanges(oldConfig, newConfig *Config) error {
	old := &oldConfig.Metrics
	next := &newConfig.Metrics

	if next.Enabled && next.Port <= 0 {
		return fmt.Errorf("metrics port must be positive, got %d", next.Port)
	}

	if old.Enabled != next.Enabled {
		if next.Enabled {
			cv.logger.Info("metrics will be enabled", map[string]interface{}{
				"address": next.Address,
				"port":    next.Port,
			})
		} else {
			cv.logger.Info("metrics will be disabled", nil)
		}
	}

	return nil
}
