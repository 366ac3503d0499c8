package project

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"syster/internal/diag"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[workspace]
include = ["models/**/*.sysml"]
exclude = ["models/legacy/**"]

[analysis]
max_diagnostics = 50
unused = false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(cfg.Workspace.Include, []string{"models/**/*.sysml"}) {
		t.Errorf("Include = %v", cfg.Workspace.Include)
	}
	if !slices.Equal(cfg.Workspace.Exclude, []string{"models/legacy/**"}) {
		t.Errorf("Exclude = %v", cfg.Workspace.Exclude)
	}
	if cfg.Analysis.MaxDiagnostics != 50 {
		t.Errorf("MaxDiagnostics = %d, want 50", cfg.Analysis.MaxDiagnostics)
	}
	if got := cfg.Suppressed(); !slices.Equal(got, []diag.Code{diag.SemaUnusedSymbol}) {
		t.Errorf("Suppressed = %v, want just the unused warning", got)
	}
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[analysis]\nmax_diagnostics = 10\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(cfg.Workspace.Include, Default().Workspace.Include) {
		t.Errorf("Include = %v, want the defaults", cfg.Workspace.Include)
	}
	if len(cfg.Suppressed()) != 0 {
		t.Errorf("Suppressed = %v, want none when toggles are absent", cfg.Suppressed())
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
	}{
		{
			name:     "unknown key",
			content:  "[workspase]\ninclude = [\"**/*.sysml\"]\n",
			sentinel: ErrInvalidManifest,
		},
		{
			name:     "syntax error",
			content:  "[workspace\n",
			sentinel: ErrInvalidManifest,
		},
		{
			name:     "bad include pattern",
			content:  "[workspace]\ninclude = [\"[0-9\"]\n",
			sentinel: ErrBadPattern,
		},
		{
			name:     "bad exclude pattern",
			content:  "[workspace]\nexclude = [\"{a,\"]\n",
			sentinel: ErrBadPattern,
		},
		{
			name:     "negative cap",
			content:  "[analysis]\nmax_diagnostics = -1\n",
			sentinel: ErrInvalidManifest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			if _, err := Load(path); !errors.Is(err, tt.sentinel) {
				t.Errorf("Load = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[workspace]\n")
	deep := filepath.Join(root, "models", "sub")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(deep)
	if err != nil || !ok {
		t.Fatalf("Find = %q, %v, %v; want the root manifest", path, ok, err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("manifest found at %s, want %s", filepath.Dir(path), root)
	}
}

func TestLocateWithoutManifest(t *testing.T) {
	start := t.TempDir()
	cfg, root, err := Locate(start)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !slices.Equal(cfg.Workspace.Include, Default().Workspace.Include) {
		t.Errorf("Include = %v, want the defaults", cfg.Workspace.Include)
	}
	abs, _ := filepath.Abs(start)
	if root != abs {
		t.Errorf("root = %s, want %s", root, abs)
	}
}

func TestDiagnose(t *testing.T) {
	d := Diagnose(ErrBadPattern)
	if d.Code != diag.ProjBadPattern {
		t.Errorf("code = %v, want ProjBadPattern", d.Code)
	}
	d = Diagnose(ErrInvalidManifest)
	if d.Code != diag.ProjInvalidManifest {
		t.Errorf("code = %v, want ProjInvalidManifest", d.Code)
	}
}
