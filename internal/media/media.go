// Package media holds the value types shared by the duplicate detection core:
// media keys, fingerprints, provider identifiers, duplicate groups and delete plans.
package media

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the library item type a fingerprint belongs to.
type Kind int

const (
	KindSeries Kind = iota
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindSeries:
		return "series"
	case KindMovie:
		return "movie"
	default:
		return "unknown"
	}
}

// ParseKind accepts "series"/"tv"/"show" and "movie"/"film", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "series", "tv", "show":
		return KindSeries, nil
	case "movie", "film":
		return KindMovie, nil
	default:
		return 0, fmt.Errorf("unknown media kind %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Key identifies one library item. It is comparable and safe to use as a map key.
type Key struct {
	ItemID uuid.UUID `json:"item_id"`
	Kind   Kind      `json:"kind"`
}

// NewKey builds a Key for the given item.
func NewKey(itemID uuid.UUID, kind Kind) Key {
	return Key{ItemID: itemID, Kind: kind}
}

func (k Key) String() string {
	return k.Kind.String() + ":" + k.ItemID.String()
}

// OperationMode controls whether a delete plan is only previewed or carried out.
type OperationMode int

const (
	DryRun OperationMode = iota
	Execute
)

func (m OperationMode) String() string {
	if m == Execute {
		return "execute"
	}
	return "dry-run"
}

// ParseOperationMode parses "dry-run" (also "dryrun", "preview") or "execute".
func ParseOperationMode(s string) (OperationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dry-run", "dryrun", "dry_run", "preview":
		return DryRun, nil
	case "execute":
		return Execute, nil
	default:
		return DryRun, fmt.Errorf("unknown operation mode %q", s)
	}
}

func (m OperationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *OperationMode) UnmarshalText(b []byte) error {
	parsed, err := ParseOperationMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ErrorCode classifies failures reported to callers of the dedupe tooling.
type ErrorCode string

const (
	ErrorNotFound             ErrorCode = "NotFound"
	ErrorPermissionDenied     ErrorCode = "PermissionDenied"
	ErrorExcluded             ErrorCode = "Excluded"
	ErrorConflict             ErrorCode = "Conflict"
	ErrorInvalidInput         ErrorCode = "InvalidInput"
	ErrorPathValidationFailed ErrorCode = "PathValidationFailed"
	ErrorCancelled            ErrorCode = "Cancelled"
	ErrorInternal             ErrorCode = "InternalError"
)
