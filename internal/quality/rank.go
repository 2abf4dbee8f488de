package quality

import "strings"

// Rank orders duplicate candidates when choosing which one to keep.
type Rank struct {
	Info  Info
	Bytes int64
	Path  string
}

// RankOf parses the quality of path and pairs it with the known size.
// A nil size ranks as zero bytes.
func RankOf(path string, bytes *int64) Rank {
	r := Rank{Info: Parse(path), Path: path}
	if bytes != nil {
		r.Bytes = *bytes
	}
	return r
}

// Better reports whether a should be kept over b: higher quality score first,
// then larger file, then the lexically smaller path so the choice is stable.
func Better(a, b Rank) bool {
	if a.Info.Score != b.Info.Score {
		return a.Info.Score > b.Info.Score
	}
	if a.Bytes != b.Bytes {
		return a.Bytes > b.Bytes
	}
	return strings.ToLower(a.Path) < strings.ToLower(b.Path) ||
		(strings.EqualFold(a.Path, b.Path) && a.Path < b.Path)
}
