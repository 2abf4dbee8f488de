package exclusion

import (
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/Nomadcxx/findedupe/internal/logging"
	"github.com/Nomadcxx/findedupe/internal/media"
)

const component = "exclusion"

// Reason explains an exclusion decision.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingFingerprint
	ReasonOutsideRoots
	ReasonLibrary
	ReasonPathPrefix
	ReasonGlob
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingFingerprint:
		return "missing fingerprint"
	case ReasonOutsideRoots:
		return "outside library roots"
	case ReasonLibrary:
		return "excluded library"
	case ReasonPathPrefix:
		return "excluded path prefix"
	case ReasonGlob:
		return "excluded glob pattern"
	default:
		return "included"
	}
}

// Decision is the outcome of evaluating one fingerprint. Rule names the
// library ID, prefix or glob that matched, when there is one.
type Decision struct {
	Excluded bool
	Reason   Reason
	Rule     string
}

type compiledGlob struct {
	pattern string
	re      *regexp.Regexp
}

// ruleSet is never mutated after it is published.
type ruleSet struct {
	globs []compiledGlob
}

// Engine evaluates fingerprints against exclusion rules.
//
// Compiled glob patterns live in an immutable snapshot that
// UpdateExclusionRules replaces with a single pointer swap, so IsExcluded may
// run concurrently with a rule update and sees either the old or the new set.
type Engine struct {
	logger *logging.Logger
	rules  atomic.Pointer[ruleSet]
}

// NewEngine returns an engine with no compiled glob patterns.
func NewEngine(logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	e := &Engine{logger: logger}
	e.rules.Store(&ruleSet{})
	return e
}

// UpdateExclusionRules recompiles the glob patterns from settings and
// publishes them. Patterns that fail to compile are logged and skipped; the
// remaining patterns still take effect. Nil settings clear all patterns.
func (e *Engine) UpdateExclusionRules(settings *Settings) {
	next := &ruleSet{}
	if settings != nil {
		for _, pattern := range settings.GlobPatterns {
			re, err := ConvertGlobToRegex(pattern)
			if err != nil {
				e.logger.Warn(component, "Invalid glob pattern ignored",
					logging.F("pattern", pattern), logging.F("error", err.Error()))
				continue
			}
			next.globs = append(next.globs, compiledGlob{pattern: pattern, re: re})
			e.logger.Debug(component, "Compiled glob pattern",
				logging.F("pattern", pattern), logging.F("regex", re.String()))
		}
	}
	e.rules.Store(next)
}

// PatternCount returns the number of glob patterns currently in effect.
func (e *Engine) PatternCount() int {
	return len(e.rules.Load().globs)
}

// IsExcluded reports whether fp must be kept out of duplicate detection.
func (e *Engine) IsExcluded(fp *media.Fingerprint, libraryID string, settings *Settings, roots []string) bool {
	return e.Decide(fp, libraryID, settings, roots).Excluded
}

// Decide evaluates the rules in order and returns the first that excludes:
//  1. missing fingerprint (fail closed)
//  2. path not under any library root; applies even without settings
//  3. no settings: included
//  4. library ID listed (case-insensitive)
//  5. path under an excluded prefix
//  6. path matches a compiled glob
func (e *Engine) Decide(fp *media.Fingerprint, libraryID string, settings *Settings, roots []string) Decision {
	if fp == nil {
		return Decision{Excluded: true, Reason: ReasonMissingFingerprint}
	}

	resolved, err := resolvePath(fp.Path)
	if err != nil || !underAny(resolved, roots) {
		e.logger.Warn(component, "Path outside library roots excluded for security",
			logging.F("path", fp.Path), logging.F("item", fp.Key.String()))
		return Decision{Excluded: true, Reason: ReasonOutsideRoots}
	}

	if settings == nil {
		return Decision{Reason: ReasonNone}
	}

	if id, ok := matchLibrary(libraryID, settings.LibraryIDs); ok {
		e.logger.Debug(component, "Item excluded by library ID", logging.F("library_id", libraryID))
		return Decision{Excluded: true, Reason: ReasonLibrary, Rule: id}
	}

	if prefix, ok := matchPrefix(resolved, settings.PathPrefixes); ok {
		e.logger.Debug(component, "Item excluded by path prefix",
			logging.F("path", fp.Path), logging.F("prefix", prefix))
		return Decision{Excluded: true, Reason: ReasonPathPrefix, Rule: prefix}
	}

	if pattern, ok := e.matchGlob(resolved); ok {
		e.logger.Debug(component, "Item excluded by glob pattern",
			logging.F("path", fp.Path), logging.F("pattern", pattern))
		return Decision{Excluded: true, Reason: ReasonGlob, Rule: pattern}
	}

	return Decision{Reason: ReasonNone}
}

func matchLibrary(libraryID string, excluded []string) (string, bool) {
	libraryID = strings.TrimSpace(libraryID)
	if libraryID == "" {
		return "", false
	}
	for _, id := range excluded {
		if strings.EqualFold(strings.TrimSpace(id), libraryID) {
			return id, true
		}
	}
	return "", false
}

func matchPrefix(resolved string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		rp, err := resolvePath(prefix)
		if err != nil {
			continue
		}
		if hasPathPrefix(resolved, rp) {
			return prefix, true
		}
	}
	return "", false
}

func (e *Engine) matchGlob(resolved string) (string, bool) {
	rules := e.rules.Load()
	if len(rules.globs) == 0 {
		return "", false
	}
	candidate := slashPath(resolved)
	for _, g := range rules.globs {
		if g.re.MatchString(candidate) {
			return g.pattern, true
		}
	}
	return "", false
}
