package sema

import (
	"slices"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
)

// Refs answers workspace-wide reference questions for the unused-symbol
// pass. The host backs it with the reverse-reference query; a nil Refs
// disables the pass.
type Refs interface {
	// Referenced reports whether any reference site in the workspace
	// resolves to the definition.
	Referenced(def index.DefRef) bool
}

// Options carries the workspace context one file check runs against.
type Options struct {
	Resolver *resolve.Resolver
	Snap     index.Reader
	Names    *source.Interner
	// Src locates declarations in other files for related notes.
	Src  resolve.Workspace
	Refs Refs
	// MaxDiags caps the output; 0 means the default of 256.
	MaxDiags int
}

const defaultMaxDiags = 256

// checker holds one file's check state.
type checker struct {
	fs    *symbols.FileSymbols
	tree  *ast.Tree
	res   *resolve.Resolver
	snap  index.Reader
	names *source.Interner
	src   resolve.Workspace
	refs  Refs
	bag   *diag.Bag

	// outcomes caches one resolution per reference site so the passes
	// agree on what every site means.
	outcomes map[ast.RefID]resolve.Outcome
}

// CheckFile runs every semantic pass over one file and returns the
// diagnostics ordered by position, severity, and code. The result is
// fully determined by the file's tree and symbols and the index
// snapshot behind the resolver.
func CheckFile(fs *symbols.FileSymbols, tree *ast.Tree, opts Options) []diag.Diagnostic {
	if fs == nil || tree == nil {
		return nil
	}
	maxDiags := opts.MaxDiags
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiags
	}
	c := &checker{
		fs:       fs,
		tree:     tree,
		res:      opts.Resolver,
		snap:     opts.Snap,
		names:    opts.Names,
		src:      opts.Src,
		refs:     opts.Refs,
		bag:      diag.NewBag(maxDiags),
		outcomes: make(map[ast.RefID]resolve.Outcome, len(fs.Refs)),
	}

	c.checkReferences()
	c.checkCompatibility()
	c.checkDuplicates()
	c.checkNaming()
	c.checkUnused()

	c.bag.Sort()
	return slices.Clone(c.bag.Items())
}

// outcomeOf resolves a reference site once and caches the verdict.
func (c *checker) outcomeOf(ref ast.RefID) resolve.Outcome {
	if out, ok := c.outcomes[ref]; ok {
		return out
	}
	out := c.res.Resolve(c.fs, c.tree, ref)
	c.outcomes[ref] = out
	return out
}

// declSpan locates a definition identity's name, falling back to an
// empty span when its file is no longer around.
func (c *checker) declSpan(def index.DefRef) (source.Span, bool) {
	if c.src == nil {
		return source.Span{}, false
	}
	fs := c.src.FileSymbols(def.File)
	if fs == nil {
		return source.Span{}, false
	}
	d := fs.Def(def.Local)
	if d == nil {
		return source.Span{}, false
	}
	return d.NameSpan, true
}

func (c *checker) lookup(id source.StringID) string {
	if s, ok := c.names.Lookup(id); ok {
		return s
	}
	return "?"
}
