package exclusion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// Validator pre-flights user-entered rules for the configuration tooling.
// It is never consulted while evaluating fingerprints.
type Validator struct {
	Fs afero.Fs
}

// NewValidator returns a Validator over fs, or the OS filesystem when fs is nil.
func NewValidator(fs afero.Fs) *Validator {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Validator{Fs: fs}
}

// ValidatePathPrefixes checks each prefix with the OS filesystem.
func ValidatePathPrefixes(prefixes, roots []string) []ValidationResult {
	return NewValidator(nil).ValidatePathPrefixes(prefixes, roots)
}

// ValidatePathPrefixes marks a prefix valid when it resolves to a location
// under one of roots. Whether the location exists only changes the message:
// rules may target folders that have not been created yet.
func (v *Validator) ValidatePathPrefixes(prefixes, roots []string) []ValidationResult {
	results := make([]ValidationResult, 0, len(prefixes))

	for _, prefix := range prefixes {
		resolved, err := resolvePath(prefix)
		if err != nil {
			msg := fmt.Sprintf("Invalid path: %v", err)
			if errors.Is(err, ErrInvalidInput) && isBlank(prefix) {
				msg = "Path prefix cannot be empty"
			}
			results = append(results, ValidationResult{Value: prefix, Message: msg})
			continue
		}

		if !underAny(resolved, roots) {
			results = append(results, ValidationResult{
				Value:   prefix,
				Message: "Path prefix must be under a configured library root",
			})
			continue
		}

		msg := "Valid"
		if exists, err := afero.Exists(v.Fs, resolved); err != nil || !exists {
			msg = "Path does not exist but will be accepted"
		}
		results = append(results, ValidationResult{Value: prefix, IsValid: true, Message: msg})
	}

	return results
}

// ValidateGlobPatterns reports whether each pattern compiles.
func ValidateGlobPatterns(patterns []string) []ValidationResult {
	results := make([]ValidationResult, 0, len(patterns))

	for _, pattern := range patterns {
		if isBlank(pattern) {
			results = append(results, ValidationResult{Value: pattern, Message: "Glob pattern cannot be empty"})
			continue
		}
		if _, err := ConvertGlobToRegex(pattern); err != nil {
			results = append(results, ValidationResult{
				Value:   pattern,
				Message: fmt.Sprintf("Invalid glob pattern: %v", err),
			})
			continue
		}
		results = append(results, ValidationResult{Value: pattern, IsValid: true, Message: "Valid glob pattern"})
	}

	return results
}

// AllValid reports whether every result is valid.
func AllValid(results []ValidationResult) bool {
	for _, r := range results {
		if !r.IsValid {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
