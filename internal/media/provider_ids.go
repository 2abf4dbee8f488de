package media

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

type providerEntry struct {
	name  string
	value string
}

// ProviderIDs maps external provider names (imdb, tmdb, tvdb, ...) to identifiers.
//
// Keys are compared case-insensitively on every operation. The spelling used on
// first insert is kept for display and iteration follows insertion order.
// A nil *ProviderIDs behaves as an empty mapping.
type ProviderIDs struct {
	order   []string
	entries map[string]providerEntry
}

func foldKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// NewProviderIDs copies m into a ProviderIDs. Keys are inserted in sorted order
// so the result is deterministic; blank keys are dropped.
func NewProviderIDs(m map[string]string) *ProviderIDs {
	p := &ProviderIDs{}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set stores value under name. A second Set with a key that folds to the same
// form replaces the value and keeps the first spelling.
func (p *ProviderIDs) Set(name, value string) {
	folded := foldKey(name)
	if folded == "" {
		return
	}
	if p.entries == nil {
		p.entries = make(map[string]providerEntry)
	}
	if e, ok := p.entries[folded]; ok {
		e.value = value
		p.entries[folded] = e
		return
	}
	p.entries[folded] = providerEntry{name: strings.TrimSpace(name), value: value}
	p.order = append(p.order, folded)
}

// Get looks up name case-insensitively.
func (p *ProviderIDs) Get(name string) (string, bool) {
	if p == nil || p.entries == nil {
		return "", false
	}
	e, ok := p.entries[foldKey(name)]
	return e.value, ok
}

func (p *ProviderIDs) Len() int {
	if p == nil {
		return 0
	}
	return len(p.order)
}

// Keys returns provider names in insertion order, as first spelled.
func (p *ProviderIDs) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.order))
	for _, k := range p.order {
		keys = append(keys, p.entries[k].name)
	}
	return keys
}

// Each calls fn for every entry in insertion order until fn returns false.
func (p *ProviderIDs) Each(fn func(name, value string) bool) {
	if p == nil {
		return
	}
	for _, k := range p.order {
		e := p.entries[k]
		if !fn(e.name, e.value) {
			return
		}
	}
}

// SharesValue reports whether some provider is present in both mappings with
// case-insensitively equal identifiers.
func (p *ProviderIDs) SharesValue(other *ProviderIDs) bool {
	if p.Len() == 0 || other.Len() == 0 {
		return false
	}
	for _, k := range p.order {
		theirs, ok := other.entries[k]
		if ok && strings.EqualFold(p.entries[k].value, theirs.value) {
			return true
		}
	}
	return false
}

// SharesKey reports whether some provider is present in both mappings,
// regardless of the identifiers stored.
func (p *ProviderIDs) SharesKey(other *ProviderIDs) bool {
	if p.Len() == 0 || other.Len() == 0 {
		return false
	}
	for _, k := range p.order {
		if _, ok := other.entries[k]; ok {
			return true
		}
	}
	return false
}

// Map returns a plain copy keyed by the display spelling.
func (p *ProviderIDs) Map() map[string]string {
	m := make(map[string]string, p.Len())
	p.Each(func(name, value string) bool {
		m[name] = value
		return true
	})
	return m
}

func (p *ProviderIDs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	p.Each(func(name, value string) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var kb, vb []byte
		if kb, err = json.Marshal(name); err != nil {
			return false
		}
		if vb, err = json.Marshal(value); err != nil {
			return false
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *ProviderIDs) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*p = *NewProviderIDs(m)
	return nil
}
