package diagfmt

import (
	"path/filepath"
	"strings"

	"syster/internal/source"
)

// formatPath renders a file's path per the configured mode. Interned
// paths are kept verbatim when a mode's transformation is impossible,
// so output never silently drops a file.
func formatPath(st *source.Store, f source.FileID, mode PathMode) string {
	path := st.PathOf(f)
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeRelative:
		if rel, ok := relativeTo(st.BaseDir(), path); ok {
			return rel
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if rel, ok := relativeTo(st.BaseDir(), path); ok && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return path
	}
}

func relativeTo(base, path string) (string, bool) {
	if base == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", false
	}
	return rel, true
}
