package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	// ACTIONREF_SCAN_WORKERS -> scan.workers
	v.SetEnvPrefix("ACTIONREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"paths.definitions",
		"paths.usages",
		"paths.exclude_usages",
		"extract.factories",
		"scan.workers",
		"watch.debounce_ms",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.definitions", defaults.Paths.Definitions)
	v.SetDefault("paths.usages", defaults.Paths.Usages)
	v.SetDefault("paths.exclude_usages", defaults.Paths.ExcludeUsages)
	v.SetDefault("extract.factories", defaults.Extract.Factories)
	v.SetDefault("scan.workers", defaults.Scan.Workers)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
}

// LoadConfigFromDir loads configuration rooted at rootDir.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

// ConfigPath returns the config file location under rootDir.
func ConfigPath(rootDir string) string {
	return filepath.Join(rootDir, DirName, "config.yml")
}

// WriteDefault writes the default configuration to ConfigPath(rootDir). An
// existing file is left alone and created is false.
func WriteDefault(rootDir string) (path string, created bool, err error) {
	path = ConfigPath(rootDir)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", false, fmt.Errorf("failed to create %s: %w", DirName, err)
	}

	v := viper.New()
	setDefaults(v)
	if err := v.WriteConfigAs(path); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}
