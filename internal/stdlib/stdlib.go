// Package stdlib carries the bundled standard-library sources. The
// bundle ships as embedded SysML text plus a yaml manifest; the host
// loads it once at construction and installs each file as a builtin,
// permanently live pseudo-file.
package stdlib

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assets
var assets embed.FS

const (
	manifestPath = "assets/manifest.yaml"
	assetDir     = "assets"

	// PathPrefix namespaces builtin file paths away from workspace files.
	PathPrefix = "stdlib/"
)

// Manifest describes the bundle: identity plus the ordered file list.
type Manifest struct {
	Name     string      `yaml:"name"`
	Language string      `yaml:"language"`
	Version  string      `yaml:"version"`
	Files    []FileEntry `yaml:"files"`
}

// FileEntry is one manifest row.
type FileEntry struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
}

// File is a loaded bundle source, ready to intern.
type File struct {
	// Path is the virtual path ("stdlib/Base.sysml").
	Path        string
	Description string
	Content     []byte
}

// Load parses the manifest and reads every listed source, in manifest
// order. It fails when the manifest and the embedded assets disagree in
// either direction; the bundle ships as one unit.
func Load() (Manifest, []File, error) {
	raw, err := assets.ReadFile(manifestPath)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("reading bundle manifest: %w", err)
	}

	var man Manifest
	if err := yaml.Unmarshal(raw, &man); err != nil {
		return Manifest{}, nil, fmt.Errorf("parsing bundle manifest: %w", err)
	}
	if len(man.Files) == 0 {
		return Manifest{}, nil, fmt.Errorf("bundle manifest lists no files")
	}

	listed := make(map[string]bool, len(man.Files))
	files := make([]File, 0, len(man.Files))
	for _, entry := range man.Files {
		if listed[entry.Path] {
			return Manifest{}, nil, fmt.Errorf("bundle manifest lists %s twice", entry.Path)
		}
		listed[entry.Path] = true

		content, err := assets.ReadFile(path.Join(assetDir, entry.Path))
		if err != nil {
			return Manifest{}, nil, fmt.Errorf("reading bundle source %s: %w", entry.Path, err)
		}
		files = append(files, File{
			Path:        PathPrefix + entry.Path,
			Description: entry.Description,
			Content:     content,
		})
	}

	entries, err := assets.ReadDir(assetDir)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("listing bundle assets: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sysml") {
			continue
		}
		if !listed[e.Name()] {
			return Manifest{}, nil, fmt.Errorf("bundle source %s missing from manifest", e.Name())
		}
	}

	return man, files, nil
}
