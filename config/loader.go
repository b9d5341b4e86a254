package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "aspectrdf.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/aspectrdf"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	homeDir string
	workDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	if cwd, err := os.Getwd(); err == nil {
		l.workDir = cwd
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/aspectrdf/config.yaml)
// 3. Project config (aspectrdf.yaml in current or parent directories)
// 4. Explicit file (path, when non-empty)
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	userConfigPath := l.userConfigPath()
	if userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	if path != "" {
		explicit, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		config.Merge(explicit)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return nil
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	if l.homeDir == "" {
		return ""
	}
	return filepath.Join(l.homeDir, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for aspectrdf.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	if l.workDir == "" {
		return ""
	}

	dir := l.workDir
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
