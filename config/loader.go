package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "dossier.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/dossier"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger  *slog.Logger
	dir     string
	userDir string
}

// NewLoader creates a new configuration loader. Project config is searched
// from dir upwards; an empty dir means the current directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{logger: logger, dir: dir}
	if home, err := os.UserHomeDir(); err == nil {
		l.userDir = filepath.Join(home, UserConfigDir)
	}
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/dossier/config.yaml)
// 3. Project config (dossier.yaml in dir or parent directories)
// 4. Explicit config file (if path is non-empty)
//
// Each layer only overrides the keys it sets. Relative paths set by a file
// are resolved against that file's directory; the remaining defaults are
// resolved against the directory the run operates in.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	// Load user config
	if l.userDir != "" {
		userConfigPath := filepath.Join(l.userDir, UserConfigFile)
		if err := config.ApplyFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config
	if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if err := config.ApplyFile(projectConfigPath); err != nil {
			return nil, fmt.Errorf("project config %s: %w", projectConfigPath, err)
		}
		l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
	} else {
		l.logger.Debug("No project config found")
	}

	// Explicit config file must exist
	if path != "" {
		if err := config.ApplyFile(path); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
	}

	config.ResolvePaths(l.dir)

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// findProjectConfig searches for dossier.yaml in the start and parent directories
func (l *Loader) findProjectConfig() string {
	dir := l.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = cwd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}
