// Package naming reduces human-authored media titles to a canonical form that
// can be compared across library entries.
package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizationResult is the canonical title plus what was stripped on the way.
// The flags are diagnostic only; matching never looks at them.
type NormalizationResult struct {
	NormalizedTitle     string
	HadEditionTag       bool
	HadBracketedContent bool
}

// editionTags are removed as whole words after lower-casing. Multi-word and
// punctuated entries match any run of separators between their words, so
// "web-dl", "web.dl" and "web dl" are all the same tag.
var editionTags = []string{
	// editions and cuts
	"director's cut", "directors cut", "extended edition", "extended cut", "special edition",
	"ultimate edition", "collector's edition", "anniversary edition", "remastered", "extended",
	"uncut", "unrated", "theatrical", "restored", "criterion", "imax",
	// resolution and dynamic range
	"2160p", "1080p", "720p", "4k", "uhd", "hdr10", "hdr", "dolby vision", "10bit",
	// codecs
	"x264", "x265", "hevc", "h264", "h265",
	// source and container
	"blu-ray", "bluray", "remux", "brrip", "hdrip", "webrip", "web-dl", "dvdscr", "dvd", "hdtv",
	"pdtv", "cam", "ts", "tc",
	// audio
	"truehd", "atmos", "dts", "ddp", "eac3", "ac3", "aac", "flac", "mp3", "5.1", "7.1",
}

const wordClass = `\p{L}\p{M}\p{N}`

var (
	bracketedRegex   = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
	punctuationRegex = regexp.MustCompile(`[^` + wordClass + `\s]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	tagWordSplit     = regexp.MustCompile(`[^` + wordClass + `]+`)

	// The lazy prefix lets "part" land in its own group instead of the title.
	sequelRegex = regexp.MustCompile(`(?i)^(.*?\S)\s+(part\s+)?(\d+|xii|xi|x|ix|viii|vii|vi|v|iv|iii|ii|i|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)$`)

	editionTagRegexes = compileEditionTags(editionTags)
)

var sequelDigits = map[string]string{
	"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5", "vi": "6",
	"vii": "7", "viii": "8", "ix": "9", "x": "10", "xi": "11", "xii": "12",
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5", "six": "6",
	"seven": "7", "eight": "8", "nine": "9", "ten": "10", "eleven": "11", "twelve": "12",
}

func compileEditionTags(tags []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		words := tagWordSplit.Split(strings.ToLower(tag), -1)
		quoted := make([]string, 0, len(words))
		for _, w := range words {
			if w != "" {
				quoted = append(quoted, regexp.QuoteMeta(w))
			}
		}
		body := strings.Join(quoted, `[^`+wordClass+`]+`)
		// Boundaries are captured rather than asserted (RE2 has no lookaround)
		// and written back around the replacement space.
		out = append(out, regexp.MustCompile(`(?i)(^|[^`+wordClass+`])(?:`+body+`)($|[^`+wordClass+`])`))
	}
	return out
}

// Normalize reduces title to its canonical comparable form. Empty or
// whitespace-only input yields an empty title with both flags false.
//
// Normalizing an already normalized title returns it unchanged.
func Normalize(title string) NormalizationResult {
	title = strings.TrimSpace(title)
	if title == "" {
		return NormalizationResult{}
	}

	title = norm.NFC.String(title)

	var result NormalizationResult
	stripped := bracketedRegex.ReplaceAllString(title, " ")
	if stripped != title {
		result.HadBracketedContent = true
	}

	current := stripped
	for i := 0; i < 8; i++ {
		next, hadTag := canonicalize(current)
		result.HadEditionTag = result.HadEditionTag || hadTag
		if next == current {
			break
		}
		current = next
	}

	result.NormalizedTitle = current
	return result
}

// canonicalize runs the tag, punctuation, whitespace and sequel steps once.
// A rewritten sequel number can occasionally complete a tag ("5 one" -> "5 1"),
// which is why Normalize repeats this until nothing changes.
func canonicalize(s string) (string, bool) {
	s = strings.ToLower(s)
	s, hadTag := stripEditionTags(s)
	s = punctuationRegex.ReplaceAllString(s, " ")
	s = collapseWhitespace(s)
	s = NormalizeSequelNumber(s)
	return strings.ToLower(s), hadTag
}

func stripEditionTags(s string) (string, bool) {
	removed := false
	for {
		changed := false
		for _, re := range editionTagRegexes {
			for {
				next := re.ReplaceAllString(s, "${1} ${2}")
				if next == s {
					break
				}
				s = next
				changed = true
			}
		}
		if !changed {
			return s, removed
		}
		removed = true
	}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NormalizeSequelNumber rewrites a trailing sequel marker (Arabic digits,
// Roman numerals i..xii or English words one..twelve, optionally preceded by
// "part ") to Arabic digits. Titles without a trailing marker are returned as is.
func NormalizeSequelNumber(title string) string {
	m := sequelRegex.FindStringSubmatch(title)
	if m == nil {
		return title
	}

	marker := strings.ToLower(m[3])
	digits, ok := sequelDigits[marker]
	if !ok {
		digits = strings.TrimLeft(marker, "0")
		if digits == "" {
			digits = "0"
		}
	}

	var b strings.Builder
	b.WriteString(m[1])
	b.WriteByte(' ')
	if m[2] != "" {
		b.WriteString(strings.TrimSpace(m[2]))
		b.WriteByte(' ')
	}
	b.WriteString(digits)
	return b.String()
}

// StripSequelNumber removes a trailing sequel marker, including an optional
// "part" prefix, and returns the remaining base title.
func StripSequelNumber(title string) string {
	m := sequelRegex.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	return strings.TrimSpace(m[1])
}

// AreFromSameSeries reports whether two titles share a base title once their
// trailing sequel markers are removed ("Die Hard" and "Die Hard 2").
func AreFromSameSeries(title1, title2 string) bool {
	title1 = strings.TrimSpace(title1)
	title2 = strings.TrimSpace(title2)
	if title1 == "" || title2 == "" {
		return false
	}
	return strings.EqualFold(StripSequelNumber(title1), StripSequelNumber(title2))
}
