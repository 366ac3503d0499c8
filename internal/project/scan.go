package project

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan walks root and returns the absolute paths of the files the
// config includes, sorted so workspace loads are deterministic.
// Dot-directories are never entered.
func Scan(root string, cfg Config) ([]string, error) {
	include := cfg.Workspace.Include
	if len(include) == 0 {
		include = Default().Workspace.Include
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchAny(include, rel) || matchAny(cfg.Workspace.Exclude, rel) {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	slices.Sort(out)
	return out, nil
}

// Patterns are validated at load time, so a match error here can only
// come from a config that bypassed Load; treat it as a miss.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
