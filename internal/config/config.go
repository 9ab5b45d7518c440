package config

import "time"

// DirName is the per-project directory holding config and index artifacts.
const DirName = ".actionref"

// Config represents the complete actionref configuration.
// It can be loaded from .actionref/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig selects definition and usage files.
type PathsConfig struct {
	Definitions   []string `yaml:"definitions" mapstructure:"definitions"`       // globs for action-creator files
	Usages        []string `yaml:"usages" mapstructure:"usages"`                 // globs for consumer files
	ExcludeUsages []string `yaml:"exclude_usages" mapstructure:"exclude_usages"` // usage files that re-declare rather than consume
}

// ExtractConfig tunes definition recognition.
type ExtractConfig struct {
	Factories []string `yaml:"factories" mapstructure:"factories"` // e.g. createAction(TYPE, ...)
}

type ScanConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Definitions: []string{"**/action-creators.js"},
			Usages:      []string{"**/store/**/*.js"},
			ExcludeUsages: []string{
				"**/action-creators.js",
				"**/action-creators/**",
				"**/*-tests.js",
				"**/types.js",
				"**/types/**",
			},
		},
		Extract: ExtractConfig{
			Factories: []string{"createAction", "makeActionCreator"},
		},
		Scan: ScanConfig{
			Workers: 8,
		},
		Watch: WatchConfig{
			DebounceMS: 300,
		},
	}
}

// Debounce returns the watch quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}
