package host

import (
	"context"
	"errors"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"syster/internal/diag"
	"syster/internal/source"
)

const (
	defaultFileDiags      = 256
	defaultWorkspaceDiags = 4096
)

// Stage names the analysis phases the workspace walk reports.
type Stage uint8

const (
	StageParse Stage = iota
	StageSymbols
	StageResolve
	StageCheck
)

var stageNames = [...]string{
	StageParse:   "parse",
	StageSymbols: "symbols",
	StageResolve: "resolve",
	StageCheck:   "check",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "stage(?)"
}

// Progress is one per-file stage completion event. The walk runs on
// several workers, so callbacks arrive concurrently and out of index
// order; a file that retries after losing a race with a write reports
// its stages again.
type Progress struct {
	File  source.FileID
	Path  string
	Stage Stage
	Index int // zero-based position in the walk order
	Total int
}

// Diagnostics returns one file's syntax and semantic diagnostics
// merged, ordered by position, and capped.
func (h *Host) Diagnostics(f source.FileID) ([]diag.Diagnostic, error) {
	return h.fileDiagnostics(f, nil)
}

func (h *Host) fileDiagnostics(f source.FileID, report func(Stage)) ([]diag.Diagnostic, error) {
	stage := func(s Stage) {
		if report != nil {
			report(s)
		}
	}
	var out []diag.Diagnostic
	err := h.stable(func() error {
		pv, err := h.parseOf(f)
		if err != nil {
			return err
		}
		stage(StageParse)
		if _, err := h.symbolsOf(f); err != nil {
			return err
		}
		stage(StageSymbols)
		if _, err := h.fileRefsOf(f); err != nil {
			return err
		}
		stage(StageResolve)
		cr, err := h.checkOf(f)
		if err != nil {
			return err
		}
		stage(StageCheck)

		bag := diag.NewBag(h.fileDiagCap())
		for _, d := range pv.diags {
			if !h.suppress[d.Code] {
				bag.Add(d)
			}
		}
		for _, d := range cr.diags {
			if !h.suppress[d.Code] {
				bag.Add(d)
			}
		}
		bag.Sort()
		out = slices.Clone(bag.Items())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WorkspaceDiagnostics checks every workspace file on up to GOMAXPROCS
// workers and returns the merged diagnostics ordered by file and
// position. A non-nil progress receives stage events as they happen.
// The standard library is excluded: it is analyzed for resolution but
// never reported on.
func (h *Host) WorkspaceDiagnostics(ctx context.Context, progress func(Progress)) ([]diag.Diagnostic, error) {
	files := h.workspaceFiles()
	results := make([][]diag.Diagnostic, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ds, err := h.fileDiagnostics(f, func(s Stage) {
				if progress != nil {
					progress(Progress{File: f, Path: h.store.PathOf(f), Stage: s, Index: i, Total: len(files)})
				}
			})
			if err != nil {
				if retired(err) {
					return nil
				}
				return err
			}
			results[i] = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(h.workspaceDiagCap())
	for _, ds := range results {
		for _, d := range ds {
			bag.Add(d)
		}
	}
	bag.Sort()
	return slices.Clone(bag.Items()), nil
}

// retired reports errors that mean a file left the workspace while the
// walk ran. The walk skips such files instead of failing.
func retired(err error) bool {
	return errors.Is(err, source.ErrNotLive) ||
		errors.Is(err, source.ErrUnknownFile) ||
		errors.Is(err, source.ErrNoContent)
}

func (h *Host) fileDiagCap() int {
	if h.opts.MaxDiagnostics > 0 {
		return h.opts.MaxDiagnostics
	}
	return defaultFileDiags
}

func (h *Host) workspaceDiagCap() int {
	if h.opts.MaxDiagnostics > 0 {
		return h.opts.MaxDiagnostics
	}
	return defaultWorkspaceDiags
}
