package exclusion

import (
	"fmt"
	"regexp"
	"strings"
)

// ConvertGlobToRegex compiles a filesystem glob into a case-insensitive
// regular expression that must match the whole '/'-separated path.
//
//	**      any characters, including '/'
//	*       any characters except '/'
//	?       exactly one character
//	[...]   character class, [!...] negated
//	{a,b}   alternation
//
// Backslashes in the pattern are treated as path separators. A pattern with no
// separator applies to the last path element, so "*.sample.*" matches
// "/media/movies/test.sample.mkv".
func ConvertGlobToRegex(pattern string) (*regexp.Regexp, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("%w: glob pattern cannot be empty", ErrInvalidInput)
	}

	pattern = strings.ReplaceAll(pattern, `\`, "/")
	body, err := translateGlob(pattern)
	if err != nil {
		return nil, err
	}

	anchor := "^"
	if !strings.Contains(pattern, "/") {
		anchor = "^(?:.*/)?"
	}

	re, err := regexp.Compile("(?i)" + anchor + body + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return re, nil
}

func translateGlob(pattern string) (string, error) {
	runes := []rune(pattern)
	var b strings.Builder
	braces := 0

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch c {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				for i+1 < len(runes) && runes[i+1] == '*' {
					i++
				}
				b.WriteString(".*")
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString(".")
		case '[':
			class, next, err := translateClass(runes, i)
			if err != nil {
				return "", err
			}
			b.WriteString(class)
			i = next
		case '{':
			braces++
			b.WriteString("(?:")
		case '}':
			if braces == 0 {
				b.WriteString(`\}`)
				continue
			}
			braces--
			b.WriteString(")")
		case ',':
			if braces > 0 {
				b.WriteString("|")
			} else {
				b.WriteString(",")
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if braces > 0 {
		return "", fmt.Errorf("%w: unterminated '{' in %q", ErrInvalidInput, pattern)
	}
	return b.String(), nil
}

// translateClass converts the class opening at runes[start] and returns the
// index of its closing ']'.
func translateClass(runes []rune, start int) (string, int, error) {
	var b strings.Builder
	b.WriteByte('[')

	i := start + 1
	if i < len(runes) && (runes[i] == '!' || runes[i] == '^') {
		b.WriteByte('^')
		i++
	}
	// A ']' right after the opening bracket is a literal member.
	if i < len(runes) && runes[i] == ']' {
		b.WriteString(`\]`)
		i++
	}

	for ; i < len(runes); i++ {
		switch runes[i] {
		case ']':
			b.WriteByte(']')
			return b.String(), i, nil
		case '[', '\\':
			b.WriteByte('\\')
			b.WriteRune(runes[i])
		default:
			b.WriteRune(runes[i])
		}
	}

	return "", 0, fmt.Errorf("%w: unterminated character class in %q", ErrInvalidInput, string(runes))
}
