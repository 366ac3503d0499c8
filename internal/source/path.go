package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AbsolutePath returns p as an absolute slash-normalized path.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", p, err)
	}
	return normalizePath(abs), nil
}

// RelativePath returns target relative to baseDir when target lives inside
// it, otherwise the absolute path. Output is slash-normalized either way.
func RelativePath(target, baseDir string) (string, error) {
	absTarget, err := AbsolutePath(target)
	if err != nil {
		return "", err
	}
	absBase, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(filepath.FromSlash(absBase), filepath.FromSlash(absTarget))
	if err != nil || strings.HasPrefix(rel, "..") {
		return absTarget, nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the final path element.
func BaseName(p string) string {
	return filepath.Base(filepath.FromSlash(p))
}

// FormatPath renders a file path for display.
// mode: "absolute", "relative", "basename", "auto".
func FormatPath(path, mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(path); err == nil {
			return abs
		}
		return path

	case "relative":
		if rel, err := RelativePath(path, baseDir); err == nil {
			return rel
		}
		return path

	case "basename":
		return BaseName(path)

	case "auto":
		// Short or relative paths read fine as-is; long absolute ones get
		// trimmed to the basename.
		if len(path) < 40 || !filepath.IsAbs(filepath.FromSlash(path)) {
			return path
		}
		return BaseName(path)

	default:
		return path
	}
}
