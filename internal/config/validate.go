package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks the configuration and reports every problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error
	if len(cfg.Paths.Definitions) == 0 {
		errs = append(errs, errors.New("paths.definitions must list at least one glob"))
	}
	if len(cfg.Paths.Usages) == 0 {
		errs = append(errs, errors.New("paths.usages must list at least one glob"))
	}
	for _, group := range []struct {
		key      string
		patterns []string
	}{
		{"paths.definitions", cfg.Paths.Definitions},
		{"paths.usages", cfg.Paths.Usages},
		{"paths.exclude_usages", cfg.Paths.ExcludeUsages},
	} {
		for _, pattern := range group.patterns {
			if strings.TrimSpace(pattern) == "" || !doublestar.ValidatePattern(pattern) {
				errs = append(errs, fmt.Errorf("%s: invalid glob %q", group.key, pattern))
			}
		}
	}
	for _, name := range cfg.Extract.Factories {
		if !identifierPattern.MatchString(name) {
			errs = append(errs, fmt.Errorf("extract.factories: %q is not an identifier", name))
		}
	}
	if cfg.Scan.Workers < 1 {
		errs = append(errs, fmt.Errorf("scan.workers must be >= 1, got %d", cfg.Scan.Workers))
	}
	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce_ms must be >= 0, got %d", cfg.Watch.DebounceMS))
	}
	return errors.Join(errs...)
}
