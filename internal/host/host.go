package host

import (
	"errors"
	"fmt"
	"slices"

	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/memo"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/stdlib"
	"syster/internal/symbols"
)

// Query kinds of the analysis graph. Keys use File and Arg as each kind
// needs: per-file kinds set File, name-keyed kinds put the interned
// name in Arg, per-site kinds put the ref or local ID there.
const (
	qParse memo.QueryKind = iota
	qSymbols
	qContribution
	qIndex
	qLookup
	qMembers
	qResolveRef
	qFileRefs
	qRefsTo
	qCheck
)

// ErrNoSymbol reports a position or identity that names no symbol.
var ErrNoSymbol = errors.New("no symbol at position")

// Options configures a Host.
type Options struct {
	// BaseDir anchors relative path rendering in results.
	BaseDir string
	// MaxDiagnostics caps per-file diagnostics; 0 keeps the default.
	MaxDiagnostics int
	// NoStdlib skips installing the bundled standard library.
	NoStdlib bool
	// Suppress drops diagnostics with the listed codes from results.
	Suppress []diag.Code
}

// Host is one analysis session over one workspace.
type Host struct {
	store  *source.Store
	engine *memo.Engine
	opts   Options

	suppress map[diag.Code]bool
	bundle   stdlib.Manifest
	builtins []source.FileID
}

// New creates a Host and installs the bundled standard library unless
// opts.NoStdlib is set. The bundle ships with the binary, so a load
// failure is a build defect and surfaces as an error here rather than
// as diagnostics later.
func New(opts Options) (*Host, error) {
	h := &Host{
		store:    source.NewStore(),
		opts:     opts,
		suppress: make(map[diag.Code]bool, len(opts.Suppress)),
	}
	for _, code := range opts.Suppress {
		h.suppress[code] = true
	}
	if opts.BaseDir != "" {
		h.store.SetBaseDir(opts.BaseDir)
	}

	if !opts.NoStdlib {
		man, files, err := stdlib.Load()
		if err != nil {
			return nil, fmt.Errorf("loading standard library bundle: %w", err)
		}
		h.bundle = man
		for _, f := range files {
			id := h.store.Intern(f.Path)
			if _, err := h.store.SetBuiltin(id, f.Content); err != nil {
				return nil, fmt.Errorf("installing %s: %w", f.Path, err)
			}
			h.builtins = append(h.builtins, id)
		}
	}

	// The engine starts at revision zero over the fully prepared store,
	// so builtin content never invalidates anything.
	h.engine = memo.New(h.store)
	h.register()
	return h, nil
}

func (h *Host) register() {
	h.engine.Register(qParse, "parse", h.parseQuery)
	h.engine.Register(qSymbols, "symbols", h.symbolsQuery)
	h.engine.Register(qContribution, "contribution", h.contributionQuery)
	h.engine.Register(qIndex, "index", h.indexQuery)
	h.engine.Register(qLookup, "lookup", h.lookupQuery)
	h.engine.Register(qMembers, "members", h.membersQuery)
	h.engine.Register(qResolveRef, "resolve", h.resolveQuery)
	h.engine.Register(qFileRefs, "filerefs", h.fileRefsQuery)
	h.engine.Register(qRefsTo, "refsto", h.refsToQuery)
	h.engine.Register(qCheck, "check", h.checkQuery)
}

// Store exposes the text store for path and position plumbing.
func (h *Host) Store() *source.Store { return h.store }

// Names returns the session-wide identifier interner.
func (h *Host) Names() *source.Interner { return h.store.Names() }

// Stats snapshots the engine's per-query counters.
func (h *Host) Stats() []memo.KindStats { return h.engine.Stats() }

// Bundle describes the installed standard library.
func (h *Host) Bundle() stdlib.Manifest { return h.bundle }

// BuiltinFiles lists the standard library's FileIDs in bundle order.
func (h *Host) BuiltinFiles() []source.FileID { return slices.Clone(h.builtins) }

// maxAttempts bounds how often a point query retries after losing a
// race with a write.
const maxAttempts = 8

// stable runs fn until it observes one unmoved revision across all of
// its reads. Point queries assemble their answer from several engine
// reads; rerunning on ErrSuperseded or a moved revision keeps the
// pieces from mixing two workspace states.
func (h *Host) stable(fn func() error) error {
	for attempt := 0; ; attempt++ {
		rev := h.engine.Revision()
		err := fn()
		if err == nil && h.engine.Revision() == rev {
			return nil
		}
		if err != nil && !errors.Is(err, memo.ErrSuperseded) {
			return err
		}
		if attempt+1 >= maxAttempts {
			if err == nil {
				err = memo.ErrSuperseded
			}
			return fmt.Errorf("query kept racing writes: %w", err)
		}
	}
}

// Typed accessors over the engine's untyped Get.

func (h *Host) parseOf(f source.FileID) (*parseValue, error) {
	v, err := h.engine.Get(memo.Key{Query: qParse, File: f})
	if err != nil {
		return nil, err
	}
	return v.(*parseValue), nil
}

func (h *Host) symbolsOf(f source.FileID) (*symbols.FileSymbols, error) {
	v, err := h.engine.Get(memo.Key{Query: qSymbols, File: f})
	if err != nil {
		return nil, err
	}
	return v.(*symbols.FileSymbols), nil
}

func (h *Host) snapshot() (*index.Snapshot, error) {
	v, err := h.engine.Get(memo.Key{Query: qIndex})
	if err != nil {
		return nil, err
	}
	return v.(*index.Snapshot), nil
}

func (h *Host) outcomeOf(f source.FileID, ref uint32) (resolve.Outcome, error) {
	v, err := h.engine.Get(memo.Key{Query: qResolveRef, File: f, Arg: ref})
	if err != nil {
		return resolve.Outcome{}, err
	}
	return v.(resolve.Outcome), nil
}

func (h *Host) fileRefsOf(f source.FileID) (*fileRefs, error) {
	v, err := h.engine.Get(memo.Key{Query: qFileRefs, File: f})
	if err != nil {
		return nil, err
	}
	return v.(*fileRefs), nil
}

func (h *Host) refsToDef(def index.DefRef) (*refList, error) {
	v, err := h.engine.Get(memo.Key{Query: qRefsTo, File: def.File, Arg: uint32(def.Local)})
	if err != nil {
		return nil, err
	}
	return v.(*refList), nil
}

func (h *Host) checkOf(f source.FileID) (*checkResult, error) {
	v, err := h.engine.Get(memo.Key{Query: qCheck, File: f})
	if err != nil {
		return nil, err
	}
	return v.(*checkResult), nil
}

// Location is a resolved source range with its human rendering.
type Location struct {
	File  source.FileID
	Path  string
	Span  source.Span
	Start source.LineCol
	End   source.LineCol
}

func (h *Host) locationOf(span source.Span) Location {
	start, end := h.store.Resolve(span)
	return Location{
		File:  span.File,
		Path:  h.store.PathOf(span.File),
		Span:  span,
		Start: start,
		End:   end,
	}
}

// OffsetAt converts a 1-based line/column into a byte offset in the
// file's current content.
func (h *Host) OffsetAt(f source.FileID, pos source.LineCol) (uint32, error) {
	txt, err := h.store.Text(f)
	if err != nil {
		return 0, err
	}
	return txt.Offset(pos)
}

// PositionAt converts a byte offset into a 1-based line/column.
func (h *Host) PositionAt(f source.FileID, off uint32) (source.LineCol, error) {
	txt, err := h.store.Text(f)
	if err != nil {
		return source.LineCol{}, err
	}
	return txt.Position(off), nil
}

// workspaceFiles lists the live files that belong to the user's
// workspace, excluding the bundled standard library.
func (h *Host) workspaceFiles() []source.FileID {
	var out []source.FileID
	for _, f := range h.store.Live() {
		if !h.store.IsBuiltin(f) {
			out = append(out, f)
		}
	}
	return out
}
