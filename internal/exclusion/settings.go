// Package exclusion decides which library entries are kept out of duplicate
// detection: entries outside the configured library roots, entries in
// excluded libraries, and entries matching excluded path prefixes or globs.
package exclusion

import (
	"errors"

	"github.com/Nomadcxx/findedupe/internal/media"
)

// ErrInvalidInput marks rule input that cannot be used (blank or unparsable
// glob patterns, unresolvable paths). It corresponds to media.ErrorInvalidInput.
var ErrInvalidInput = errors.New(string(media.ErrorInvalidInput))

// Settings holds the user-configured exclusion rules. The three sets are
// independent and ORed: any single matching rule excludes an entry.
type Settings struct {
	LibraryIDs   []string `mapstructure:"library_ids" toml:"library_ids" json:"library_ids"`
	PathPrefixes []string `mapstructure:"path_prefixes" toml:"path_prefixes" json:"path_prefixes"`
	GlobPatterns []string `mapstructure:"glob_patterns" toml:"glob_patterns" json:"glob_patterns"`
}

// ValidationResult is the outcome of pre-flighting one configured prefix or glob.
type ValidationResult struct {
	Value   string `json:"value"`
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}
