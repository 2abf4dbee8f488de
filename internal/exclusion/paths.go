package exclusion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolvePath returns the absolute, cleaned form of p.
func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: path contains NUL byte", ErrInvalidInput)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return abs, nil
}

// hasPathPrefix reports whether path is prefix itself or lies beneath it,
// comparing case-insensitively on whole path elements: "/media2" is not
// under "/media". Both arguments must already be resolved.
func hasPathPrefix(path, prefix string) bool {
	p := strings.ToLower(path)
	r := strings.ToLower(prefix)
	if p == r {
		return true
	}
	if !strings.HasSuffix(r, string(filepath.Separator)) {
		r += string(filepath.Separator)
	}
	return strings.HasPrefix(p, r)
}

// underAny reports whether the resolved path lies under any entry of
// prefixes. Entries that cannot be resolved never match.
func underAny(resolved string, prefixes []string) bool {
	for _, prefix := range prefixes {
		rp, err := resolvePath(prefix)
		if err != nil {
			continue
		}
		if hasPathPrefix(resolved, rp) {
			return true
		}
	}
	return false
}

// IsPathUnderLibraryRoots reports whether path resolves to a location under
// one of roots. Unresolvable paths are never under a root.
func IsPathUnderLibraryRoots(path string, roots []string) bool {
	if len(roots) == 0 {
		return false
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return false
	}
	return underAny(resolved, roots)
}

func slashPath(resolved string) string {
	return strings.ReplaceAll(resolved, `\`, "/")
}
