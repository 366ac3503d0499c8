package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"syster/internal/diag"
	"syster/internal/host"
	"syster/internal/observ"
	"syster/internal/project"
	"syster/internal/source"
)

// session is one loaded workspace behind a CLI invocation.
type session struct {
	host      *host.Host
	cfg       project.Config
	root      string
	files     []string // workspace-relative, scan order
	loadDiags []diag.Diagnostic
}

// openSession locates the manifest upward from startDir, scans the
// workspace and loads every matched file into a fresh host. Unreadable
// files surface in loadDiags, not as an error.
func openSession(cmd *cobra.Command, startDir string, tm *observ.Timer) (*session, error) {
	stop := phase(tm, "scan")
	cfg, root, err := project.Locate(startDir)
	if err != nil {
		return nil, err
	}
	files, err := project.Scan(root, cfg)
	if err != nil {
		return nil, err
	}
	stop(fmt.Sprintf("%d files", len(files)))

	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	stop = phase(tm, "load")
	h, err := host.New(host.Options{
		BaseDir:        root,
		MaxDiagnostics: maxDiags,
		Suppress:       cfg.Suppressed(),
	})
	if err != nil {
		return nil, err
	}
	abs := make([]string, len(files))
	for i, rel := range files {
		abs[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	load := h.LoadWorkspace(abs)
	stop(fmt.Sprintf("%d files", len(load.Files)))

	return &session{
		host:      h,
		cfg:       cfg,
		root:      root,
		files:     files,
		loadDiags: load.Diags,
	}, nil
}

// findFile maps a user-supplied path onto a loaded workspace file.
func (s *session) findFile(path string) (source.FileID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return source.NoFileID, err
	}
	if id, ok := s.host.Store().LookupPath(abs); ok && s.host.Store().IsLive(id) {
		return id, nil
	}
	return source.NoFileID, fmt.Errorf("%s is not part of the workspace (check the includes in %s)", path, project.ManifestName)
}

// display renders a store path the way the scan listed it.
func (s *session) display(path string) string {
	if rel, err := filepath.Rel(s.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func (s *session) locString(loc host.Location) string {
	return fmt.Sprintf("%s:%d:%d", s.display(loc.Path), loc.Start.Line, loc.Start.Col)
}

// parsePosition splits "<file>:<line>:<col>" with 1-based coordinates.
func parsePosition(arg string) (string, source.LineCol, error) {
	rest, colStr, ok := cutLast(arg, ':')
	if !ok {
		return "", source.LineCol{}, fmt.Errorf("position %q must be <file>:<line>:<col>", arg)
	}
	path, lineStr, ok := cutLast(rest, ':')
	if !ok || path == "" {
		return "", source.LineCol{}, fmt.Errorf("position %q must be <file>:<line>:<col>", arg)
	}
	line, err := strconv.ParseUint(lineStr, 10, 32)
	if err != nil || line == 0 {
		return "", source.LineCol{}, fmt.Errorf("bad line in position %q", arg)
	}
	col, err := strconv.ParseUint(colStr, 10, 32)
	if err != nil || col == 0 {
		return "", source.LineCol{}, fmt.Errorf("bad column in position %q", arg)
	}
	return path, source.LineCol{Line: uint32(line), Col: uint32(col)}, nil
}

func cutLast(s string, sep byte) (before, after string, ok bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// phase starts a timer phase, or a no-op when no timer is attached.
func phase(tm *observ.Timer, name string) func(note string) {
	if tm == nil {
		return func(string) {}
	}
	return tm.Phase(name)
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)), nil
}

func quietEnabled(cmd *cobra.Command) (bool, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return false, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return quiet, nil
}
