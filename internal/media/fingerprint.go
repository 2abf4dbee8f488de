package media

import "github.com/Nomadcxx/findedupe/internal/naming"

// Fingerprint is a read-only snapshot of one library item used for matching.
// It is produced by the library scan and never modified by the core.
type Fingerprint struct {
	Key         Key          `json:"key"`
	TitleRaw    string       `json:"title"`
	TitleNorm   string       `json:"title_normalized"`
	Year        *int         `json:"year,omitempty"`
	ProviderIDs *ProviderIDs `json:"provider_ids,omitempty"`
	Path        string       `json:"path"`
	RootFolder  string       `json:"root_folder"`
	Bytes       *int64       `json:"bytes,omitempty"`
}

// NewFingerprint builds a fingerprint and fills TitleNorm from the raw title.
func NewFingerprint(key Key, title string, year *int, ids *ProviderIDs, path, root string, size *int64) *Fingerprint {
	if ids == nil {
		ids = &ProviderIDs{}
	}
	return &Fingerprint{
		Key:         key,
		TitleRaw:    title,
		TitleNorm:   naming.Normalize(title).NormalizedTitle,
		Year:        year,
		ProviderIDs: ids,
		Path:        path,
		RootFolder:  root,
		Bytes:       size,
	}
}

// Size returns the byte size, or 0 when unknown.
func (f *Fingerprint) Size() int64 {
	if f == nil || f.Bytes == nil {
		return 0
	}
	return *f.Bytes
}

// Normalized returns TitleNorm, deriving it from TitleRaw when the scan left it empty.
func (f *Fingerprint) Normalized() string {
	if f.TitleNorm != "" {
		return f.TitleNorm
	}
	return naming.Normalize(f.TitleRaw).NormalizedTitle
}
