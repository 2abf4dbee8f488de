package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nomadcxx/findedupe/internal/media"
)

const (
	DefaultExactThreshold       = 90
	DefaultConditionalThreshold = 85

	// yearTolerance absorbs release-date differences between providers.
	yearTolerance = 1
)

var ErrInvalidThresholds = errors.New("invalid match thresholds")

// Thresholds is the two-tier similarity gate. A score at or above Exact is a
// match on text alone; a score at or above Conditional needs corroboration
// from the release year or a shared provider.
type Thresholds struct {
	Exact       int `mapstructure:"exact" toml:"exact"`
	Conditional int `mapstructure:"conditional" toml:"conditional"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Exact: DefaultExactThreshold, Conditional: DefaultConditionalThreshold}
}

func (t Thresholds) Validate() error {
	if t.Exact < 0 || t.Exact > 100 {
		return fmt.Errorf("%w: exact threshold %d outside 0..100", ErrInvalidThresholds, t.Exact)
	}
	if t.Conditional < 0 || t.Conditional > 100 {
		return fmt.Errorf("%w: conditional threshold %d outside 0..100", ErrInvalidThresholds, t.Conditional)
	}
	if t.Conditional > t.Exact {
		return fmt.Errorf("%w: conditional threshold %d above exact threshold %d",
			ErrInvalidThresholds, t.Conditional, t.Exact)
	}
	return nil
}

// Reason records which rule produced a verdict.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmptyTitle
	ReasonProviderID
	ReasonExactScore
	ReasonConditionalYear
	ReasonConditionalProvider
)

func (r Reason) String() string {
	switch r {
	case ReasonEmptyTitle:
		return "empty title"
	case ReasonProviderID:
		return "provider id match"
	case ReasonExactScore:
		return "similarity above exact threshold"
	case ReasonConditionalYear:
		return "similarity above conditional threshold, year within tolerance"
	case ReasonConditionalProvider:
		return "similarity above conditional threshold, shared provider"
	default:
		return "no match"
	}
}

// Verdict is the outcome of comparing two titles. Score is -1 when the
// decision was made before similarity was computed.
type Verdict struct {
	Same   bool
	Score  int
	Reason Reason
}

// IsSameTitle applies the default thresholds (90/85).
func IsSameTitle(title1, title2 string, year1, year2 *int, ids1, ids2 *media.ProviderIDs) bool {
	return DefaultThresholds().IsSameTitle(title1, title2, year1, year2, ids1, ids2)
}

// IsSameTitle reports whether two normalized titles name the same item.
func (t Thresholds) IsSameTitle(title1, title2 string, year1, year2 *int, ids1, ids2 *media.ProviderIDs) bool {
	return t.Evaluate(title1, title2, year1, year2, ids1, ids2).Same
}

// Evaluate runs the decision policy in order, stopping at the first rule that
// decides:
//  1. either title blank: different
//  2. a provider present on both sides with equal identifiers: same
//  3. score >= Exact: same
//  4. score >= Conditional: same when years differ by at most one, or when
//     both sides carry any common provider key (values are not compared)
//  5. otherwise different
func (t Thresholds) Evaluate(title1, title2 string, year1, year2 *int, ids1, ids2 *media.ProviderIDs) Verdict {
	if strings.TrimSpace(title1) == "" || strings.TrimSpace(title2) == "" {
		return Verdict{Score: -1, Reason: ReasonEmptyTitle}
	}

	if ids1.SharesValue(ids2) {
		return Verdict{Same: true, Score: -1, Reason: ReasonProviderID}
	}

	score := CalculateSimilarity(title1, title2)
	if score >= t.Exact {
		return Verdict{Same: true, Score: score, Reason: ReasonExactScore}
	}

	if score >= t.Conditional {
		if yearsWithinTolerance(year1, year2) {
			return Verdict{Same: true, Score: score, Reason: ReasonConditionalYear}
		}
		// A shared key with disagreeing identifiers still counts here.
		if ids1.SharesKey(ids2) {
			return Verdict{Same: true, Score: score, Reason: ReasonConditionalProvider}
		}
	}

	return Verdict{Score: score, Reason: ReasonNone}
}

func yearsWithinTolerance(year1, year2 *int) bool {
	if year1 == nil || year2 == nil {
		return false
	}
	diff := *year1 - *year2
	if diff < 0 {
		diff = -diff
	}
	return diff <= yearTolerance
}

// Matcher compares fingerprints using their normalized titles.
type Matcher struct {
	Thresholds Thresholds
}

func NewMatcher(t Thresholds) *Matcher {
	return &Matcher{Thresholds: t}
}

// Match compares two fingerprints. Nil fingerprints never match.
func (m *Matcher) Match(a, b *media.Fingerprint) Verdict {
	if a == nil || b == nil {
		return Verdict{Score: -1, Reason: ReasonEmptyTitle}
	}
	return m.Thresholds.Evaluate(a.Normalized(), b.Normalized(), a.Year, b.Year, a.ProviderIDs, b.ProviderIDs)
}
