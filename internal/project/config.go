// Package project locates and loads the workspace manifest and scans
// the tree for analyzable files. It is a collaborator of the analysis
// host: the host never touches the filesystem layout, the CLI feeds it
// the file set this package produces.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"syster/internal/diag"
	"syster/internal/source"
)

// ManifestName is the file that marks a workspace root.
const ManifestName = "syster.toml"

var (
	// ErrInvalidManifest reports a manifest that parsed but cannot be used.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrBadPattern reports an include or exclude glob that does not compile.
	ErrBadPattern = errors.New("bad glob pattern")
)

// Config is the parsed syster.toml.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Analysis  AnalysisConfig  `toml:"analysis"`
}

// WorkspaceConfig selects the files that belong to the workspace.
// Patterns are doublestar globs matched against slash-separated paths
// relative to the manifest's directory.
type WorkspaceConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// AnalysisConfig tunes the checker. The warning toggles are tri-state:
// absent means on.
type AnalysisConfig struct {
	MaxDiagnostics int   `toml:"max_diagnostics"`
	Unused         *bool `toml:"unused"`
	Deprecated     *bool `toml:"deprecated"`
	Naming         *bool `toml:"naming"`
}

// Default returns the configuration an unconfigured workspace gets.
func Default() Config {
	return Config{
		Workspace: WorkspaceConfig{
			Include: []string{"**/*.sysml", "**/*.kerml"},
		},
	}
}

// Suppressed lists the diagnostic codes the manifest turned off.
func (c Config) Suppressed() []diag.Code {
	var out []diag.Code
	if off(c.Analysis.Unused) {
		out = append(out, diag.SemaUnusedSymbol)
	}
	if off(c.Analysis.Deprecated) {
		out = append(out, diag.SemaDeprecated)
	}
	if off(c.Analysis.Naming) {
		out = append(out, diag.SemaNamingConvention)
	}
	return out
}

func off(v *bool) bool { return v != nil && !*v }

func (c Config) validate() error {
	for _, p := range c.Workspace.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("include pattern %q: %w", p, ErrBadPattern)
		}
	}
	for _, p := range c.Workspace.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exclude pattern %q: %w", p, ErrBadPattern)
		}
	}
	if c.Analysis.MaxDiagnostics < 0 {
		return fmt.Errorf("max_diagnostics must not be negative: %w", ErrInvalidManifest)
	}
	return nil
}

// Load parses and validates the manifest at path. Keys the schema does
// not know are errors; a silently ignored typo would quietly analyze
// the wrong file set.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w: %v", path, ErrInvalidManifest, err)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q: %w", path, und[0].String(), ErrInvalidManifest)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find walks up from startDir to locate the manifest.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolving start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Locate finds and loads the manifest governing startDir. Without a
// manifest the defaults apply, rooted at startDir itself.
func Locate(startDir string) (cfg Config, root string, err error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		abs, err := filepath.Abs(startDir)
		if err != nil {
			return Config{}, "", fmt.Errorf("resolving start directory: %w", err)
		}
		return Default(), abs, nil
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, filepath.Dir(path), nil
}

// Diagnose converts a manifest or scan error into a reportable
// diagnostic for uniform rendering beside analysis findings.
func Diagnose(err error) diag.Diagnostic {
	code := diag.ProjInvalidManifest
	if errors.Is(err, ErrBadPattern) {
		code = diag.ProjBadPattern
	}
	return diag.NewError(code, source.Span{}, err.Error())
}
