// Package config provides centralized configuration management for the SCL
// ingestion / SLD synthesis engine: layered defaults -> file -> environment,
// struct validation, and hot-reload notification for long-running servers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"sclsld/pkg/errs"
	"sclsld/pkg/logging"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Manager handles centralized configuration for the engine and its CLI/server
// front ends.
type Manager struct {
	config     *Config
	configPath string
	logger     *logging.Logger
	mutex      sync.RWMutex

	watchers   []ConfigWatcher
	watchMutex sync.RWMutex
}

// ConfigWatcher defines the interface for configuration change notifications.
type ConfigWatcher interface {
	OnConfigChanged(oldConfig, newConfig *Config) error
}

// Config is the unified engine configuration.
type Config struct {
	App     AppConfig     `yaml:"app" json:"app"`
	Cluster ClusterConfig `yaml:"cluster" json:"cluster"`
	Feeder  FeederConfig  `yaml:"feeder" json:"feeder"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Version     string `yaml:"version" json:"version"`
	Environment string `yaml:"environment" json:"environment"`
	Debug       bool   `yaml:"debug" json:"debug"`
}

// ClusterConfig governs the bus-likeness heuristic and union-find clusterer.
type ClusterConfig struct {
	BusDegreeThreshold int      `yaml:"bus_degree_threshold" json:"bus_degree_threshold" validate:"min=1"`
	BusNameHints       []string `yaml:"bus_name_hints" json:"bus_name_hints"`
}

// FeederConfig governs the feeder-walk plan detector.
type FeederConfig struct {
	MaxDepth        int      `yaml:"max_depth" json:"max_depth" validate:"min=1"`
	EndpointKinds   []string `yaml:"endpoint_kinds" json:"endpoint_kinds"`
	SeriesPassKinds []string `yaml:"series_pass_kinds" json:"series_pass_kinds"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Structured bool   `yaml:"structured" json:"structured"`
}

// MetricsConfig contains Prometheus metrics server settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
	Port    int    `yaml:"port" json:"port" validate:"min=0,max=65535"`
}

var (
	validatorOnce sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New()
	})
	return structValidator
}

// NewManager creates a new configuration manager.
func NewManager() *Manager {
	return &Manager{
		logger:   logging.NewLogger("config-manager", logging.INFO, false),
		watchers: make([]ConfigWatcher, 0),
	}
}

// LoadConfig loads configuration with precedence: environment variables
// override file values, which override built-in defaults.
func (m *Manager) LoadConfig(configPath string) (*Config, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.configPath = configPath

	config := GetDefaultConfig()

	if configPath != "" {
		if err := m.loadFromFile(config, configPath); err != nil {
			return nil, errs.Wrap(err, errs.FileNotFound, "failed to load config file").WithContext("config_path", configPath)
		}
	}

	if err := m.loadFromEnv(config); err != nil {
		return nil, errs.Wrap(err, errs.LogicError, "failed to load environment variables")
	}

	if err := m.validateConfig(config); err != nil {
		return nil, errs.Wrap(err, errs.LogicError, "configuration validation failed")
	}

	m.config = config

	m.logger.Info("configuration loaded", map[string]interface{}{
		"config_path": configPath,
		"environment": config.App.Environment,
	})

	return config, nil
}

// GetConfig returns the current configuration (thread-safe, deep-copied).
func (m *Manager) GetConfig() *Config {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.config == nil {
		return GetDefaultConfig()
	}
	return m.copyConfig(m.config)
}

// UpdateConfig replaces the current configuration and notifies watchers.
func (m *Manager) UpdateConfig(newConfig *Config) error {
	if err := m.validateConfig(newConfig); err != nil {
		return errs.Wrap(err, errs.LogicError, "new configuration validation failed")
	}

	m.mutex.Lock()
	oldConfig := m.copyConfig(m.config)
	m.config = newConfig
	m.mutex.Unlock()

	m.notifyWatchers(oldConfig, newConfig)

	m.logger.Info("configuration updated", map[string]interface{}{
		"watchers_notified": len(m.watchers),
	})

	return nil
}

// SaveConfig writes the current configuration to a YAML file.
func (m *Manager) SaveConfig(configPath string) error {
	m.mutex.RLock()
	config := m.copyConfig(m.config)
	m.mutex.RUnlock()

	if config == nil {
		return errs.New(errs.MissingMandatoryField, "no configuration to save")
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errs.Wrap(err, errs.LogicError, "failed to create config directory").WithContext("directory", dir)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errs.Wrap(err, errs.LogicError, "failed to marshal configuration")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errs.Wrap(err, errs.FileNotFound, "failed to write config file").WithContext("config_path", configPath)
	}

	m.logger.Info("configuration saved", map[string]interface{}{"config_path": configPath})
	return nil
}

// AddWatcher registers a configuration change watcher.
func (m *Manager) AddWatcher(watcher ConfigWatcher) {
	m.watchMutex.Lock()
	defer m.watchMutex.Unlock()
	m.watchers = append(m.watchers, watcher)
}

// RemoveWatcher removes a previously registered watcher.
func (m *Manager) RemoveWatcher(watcher ConfigWatcher) {
	m.watchMutex.Lock()
	defer m.watchMutex.Unlock()
	for i, w := range m.watchers {
		if w == watcher {
			m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
			break
		}
	}
}

func (m *Manager) loadFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("config file not found, using defaults", map[string]interface{}{"config_path": configPath})
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

func (m *Manager) loadFromEnv(config *Config) error {
	return m.setFromEnv(reflect.ValueOf(config).Elem(), "SCLSLD")
}

func (m *Manager) setFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		envKey := prefix + "_" + strings.ToUpper(yamlTag)

		if field.Kind() == reflect.Struct {
			if err := m.setFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		if envValue := os.Getenv(envKey); envValue != "" {
			if err := m.setFieldFromString(field, envValue); err != nil {
				return fmt.Errorf("failed to set field %s from env %s: %w", fieldType.Name, envKey, err)
			}
		}
	}

	return nil
}

func (m *Manager) setFieldFromString(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		field.SetBool(strings.ToLower(value) == "true" || value == "1")
	case reflect.Int, reflect.Int32, reflect.Int64:
		var intVal int64
		if _, err := fmt.Sscanf(value, "%d", &intVal); err != nil {
			return err
		}
		field.SetInt(intVal)
	case reflect.Float32, reflect.Float64:
		var floatVal float64
		if _, err := fmt.Sscanf(value, "%f", &floatVal); err != nil {
			return err
		}
		field.SetFloat(floatVal)
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			values := strings.Split(value, ",")
			slice := reflect.MakeSlice(field.Type(), len(values), len(values))
			for i, v := range values {
				slice.Index(i).SetString(strings.TrimSpace(v))
			}
			field.Set(slice)
		}
	}
	return nil
}

func (m *Manager) validateConfig(config *Config) error {
	if config == nil {
		return errs.New(errs.MissingMandatoryField, "configuration is nil")
	}
	if err := getValidator().Struct(config); err != nil {
		return errs.Wrap(err, errs.LogicError, "configuration struct validation failed")
	}
	if config.Cluster.BusDegreeThreshold < 1 {
		return errs.New(errs.LogicError, "cluster.bus_degree_threshold must be >= 1")
	}
	if config.Feeder.MaxDepth < 1 {
		return errs.New(errs.LogicError, "feeder.max_depth must be >= 1")
	}
	if config.Metrics.Enabled && config.Metrics.Port <= 0 {
		return errs.New(errs.LogicError, "metrics.port must be positive when metrics are enabled")
	}
	return nil
}

func (m *Manager) copyConfig(config *Config) *Config {
	if config == nil {
		return nil
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		m.logger.Error("failed to marshal config for copying", map[string]interface{}{"error": err.Error()})
		return config
	}

	var dup Config
	if err := yaml.Unmarshal(data, &dup); err != nil {
		m.logger.Error("failed to unmarshal config for copying", map[string]interface{}{"error": err.Error()})
		return config
	}
	return &dup
}

func (m *Manager) notifyWatchers(oldConfig, newConfig *Config) {
	m.watchMutex.RLock()
	watchers := make([]ConfigWatcher, len(m.watchers))
	copy(watchers, m.watchers)
	m.watchMutex.RUnlock()

	for _, watcher := range watchers {
		if err := watcher.OnConfigChanged(oldConfig, newConfig); err != nil {
			m.logger.Error("config watcher failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// GetDefaultConfig returns the engine's built-in defaults.
func GetDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "sclsld",
			Version:     "1.0.0",
			Environment: "development",
			Debug:       false,
		},
		Cluster: ClusterConfig{
			BusDegreeThreshold: 3,
			BusNameHints:       []string{"BUS", "BUSBAR", "BB", "BARRE", "BAR"},
		},
		Feeder: FeederConfig{
			MaxDepth:        16,
			EndpointKinds:   []string{"Line", "Cable", "Transformer"},
			SeriesPassKinds: []string{"DS", "CB", "CT", "VT"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Structured: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "localhost",
			Port:    9090,
		},
	}
}
