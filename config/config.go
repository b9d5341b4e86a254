// Package config provides configuration loading and management for aspectrdf.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config represents the complete aspectrdf configuration
type Config struct {
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Output     OutputConfig     `yaml:"output"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Model      ModelConfig      `yaml:"model"`
}

// VocabularyConfig selects the SAMM meta model release
type VocabularyConfig struct {
	// Version is the SAMM version (e.g., "2.1.0")
	Version string `yaml:"version"`
}

// OutputConfig configures serialization
type OutputConfig struct {
	// Format is the output format: turtle, ntriples, nquads, jsonld or rdfxml
	Format string `yaml:"format"`
	// Indent is the Turtle indentation string
	Indent string `yaml:"indent"`
}

// StoreConfig configures the triple store that holds encoded statements
type StoreConfig struct {
	// Backend is "memory" or "sqlite"
	Backend string `yaml:"backend"`
	// Path is the SQLite database file (required for the sqlite backend)
	Path string `yaml:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics (empty = disabled)
	Addr string `yaml:"addr"`
}

// ModelConfig holds defaults for model documents
type ModelConfig struct {
	// Namespace is used by documents that do not declare one
	Namespace string `yaml:"namespace"`
	// External lists glob patterns of documents loaded beside the edited one
	External []string `yaml:"external"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Vocabulary: VocabularyConfig{
			Version: vocab.DefaultVersion,
		},
		Output: OutputConfig{
			Format: string(rdf.FormatTurtle),
			Indent: "    ",
		},
		Store: StoreConfig{
			Backend: BackendMemory,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := vocab.New(c.Vocabulary.Version); err != nil {
		return fmt.Errorf("vocabulary.version: %w", err)
	}
	if _, ok := rdf.ParseFormat(c.Output.Format); !ok {
		return fmt.Errorf("output.format %q is not supported", c.Output.Format)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q", BackendMemory, BackendSQLite)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Model.Namespace != "" && !strings.HasSuffix(c.Model.Namespace, "#") {
		return fmt.Errorf("model.namespace must end with '#'")
	}
	return nil
}

// Format returns the parsed output format.
func (c *Config) Format() rdf.Format {
	format, _ := rdf.ParseFormat(c.Output.Format)
	return format
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Vocabulary.Version != "" {
		c.Vocabulary.Version = other.Vocabulary.Version
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Indent != "" {
		c.Output.Indent = other.Output.Indent
	}

	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	if other.Model.Namespace != "" {
		c.Model.Namespace = other.Model.Namespace
	}
	if len(other.Model.External) > 0 {
		c.Model.External = other.Model.External
	}
}
