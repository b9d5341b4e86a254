package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "2.1.0", cfg.Vocabulary.Version)
	assert.Equal(t, rdf.FormatTurtle, cfg.Format())
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid default config", modify: func(c *Config) {}},
		{name: "unknown vocabulary version", modify: func(c *Config) { c.Vocabulary.Version = "9.9.9" }, wantErr: true},
		{name: "unknown format", modify: func(c *Config) { c.Output.Format = "trig" }, wantErr: true},
		{name: "format alias", modify: func(c *Config) { c.Output.Format = "ttl" }},
		{name: "sqlite without path", modify: func(c *Config) { c.Store.Backend = BackendSQLite }, wantErr: true},
		{name: "sqlite with path", modify: func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.Path = "model.db" }},
		{name: "unknown backend", modify: func(c *Config) { c.Store.Backend = "postgres" }, wantErr: true},
		{name: "bad log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "namespace without hash", modify: func(c *Config) { c.Model.Namespace = "urn:samm:org.example:1.0.0" }, wantErr: true},
		{name: "namespace", modify: func(c *Config) { c.Model.Namespace = "urn:samm:org.example:1.0.0#" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
vocabulary:
  version: "2.0.0"
output:
  format: jsonld
store:
  backend: sqlite
  path: /tmp/model.db
log:
  level: debug
metrics:
  addr: ":9090"
model:
  namespace: "urn:samm:org.example:1.0.0#"
  external:
    - "shared/**/*.aspect.yaml"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", cfg.Vocabulary.Version)
	assert.Equal(t, rdf.FormatJSONLD, cfg.Format())
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/model.db", cfg.Store.Path)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, []string{"shared/**/*.aspect.yaml"}, cfg.Model.External)
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("store: [unclosed"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Store: StoreConfig{Backend: BackendSQLite, Path: "x.db"},
		Model: ModelConfig{Namespace: "urn:samm:org.example:1.0.0#"},
	})

	assert.Equal(t, BackendSQLite, base.Store.Backend)
	assert.Equal(t, "x.db", base.Store.Path)
	assert.Equal(t, "urn:samm:org.example:1.0.0#", base.Model.Namespace)
	// Unset fields keep the base values.
	assert.Equal(t, "2.1.0", base.Vocabulary.Version)
	assert.Equal(t, "turtle", base.Output.Format)

	base.Merge(nil)
	assert.Equal(t, "x.db", base.Store.Path)
}

func TestConfigSaveToFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")
	cfg := DefaultConfig()
	cfg.Output.Format = "ntriples"

	require.NoError(t, cfg.SaveToFile(configPath))

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "ntriples", loaded.Output.Format)
	assert.Equal(t, cfg.Vocabulary.Version, loaded.Vocabulary.Version)
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "models", "movement")
	require.NoError(t, os.MkdirAll(work, 0755))

	userPath := filepath.Join(home, UserConfigDir, UserConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0755))
	require.NoError(t, os.WriteFile(userPath, []byte("output:\n  format: ntriples\nlog:\n  level: warn\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte("output:\n  format: jsonld\n"), 0644))

	l := &Loader{logger: slog.Default(), homeDir: home, workDir: work}

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, rdf.FormatJSONLD, cfg.Format(), "project config overrides user config")
	assert.Equal(t, "warn", cfg.Log.Level, "user config applies where the project is silent")

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("output:\n  format: nquads\n"), 0644))
	cfg, err = l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, rdf.FormatNQuads, cfg.Format())

	_, err = l.Load(filepath.Join(project, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderRejectsInvalidResult(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, ProjectConfigFile), []byte("store:\n  backend: sqlite\n"), 0644))

	l := &Loader{logger: slog.Default(), workDir: work}
	_, err := l.Load("")
	assert.Error(t, err)
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := &Loader{logger: slog.Default(), homeDir: home}

	require.NoError(t, l.EnsureUserConfig())
	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Vocabulary.Version, cfg.Vocabulary.Version)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0644))
	require.NoError(t, l.EnsureUserConfig())
	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level, "existing file is left alone")
}
