package resolve

import (
	"cmp"
	"slices"
	"strings"

	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/source"
	"syster/internal/symbols"
)

// Workspace gives the resolver read access to per-file analysis results
// beyond the file it started from. Lookups may return nil for files
// that have left the workspace; the resolver treats those routes as
// dead ends rather than failing the whole resolution.
type Workspace interface {
	FileSymbols(f source.FileID) *symbols.FileSymbols
	Tree(f source.FileID) *ast.Tree
}

// Resolver answers name lookups against one view of the index. It is
// cheap to construct and not safe for concurrent use; callers create
// one per query evaluation.
type Resolver struct {
	snap  index.Reader
	names *source.Interner
	src   Workspace

	// Trails break cycles through aliases, import paths, and
	// specialization chains while a resolution is in progress.
	aliasTrail  map[aliasKey]bool
	importTrail map[importKey]bool
	chainTrail  map[index.DefRef]bool

	// chains caches completed walks for the resolver's lifetime.
	chains map[index.DefRef][]index.DefRef
}

type aliasKey struct {
	file  source.FileID
	alias symbols.AliasID
}

type importKey struct {
	file source.FileID
	imp  symbols.ImportID
}

// New builds a resolver over one view of the workspace index.
func New(snap index.Reader, names *source.Interner, src Workspace) *Resolver {
	return &Resolver{
		snap:        snap,
		names:       names,
		src:         src,
		aliasTrail:  make(map[aliasKey]bool),
		importTrail: make(map[importKey]bool),
		chainTrail:  make(map[index.DefRef]bool),
		chains:      make(map[index.DefRef][]index.DefRef),
	}
}

// Resolve resolves one reference site of a file.
func (r *Resolver) Resolve(fs *symbols.FileSymbols, tree *ast.Tree, refID ast.RefID) Outcome {
	if fs == nil || tree == nil {
		return unresolvedAt(0)
	}
	site, ok := fs.Site(refID)
	if !ok {
		return unresolvedAt(0)
	}
	ref := tree.Ref(refID)
	if ref == nil || len(ref.Segments) == 0 {
		return unresolvedAt(0)
	}
	segs := make([]source.StringID, len(ref.Segments))
	for i, s := range ref.Segments {
		segs[i] = s.Name
	}
	return r.ResolveSegments(fs, site.Scope, segs)
}

// ResolveName resolves a simple name through the scope chain starting
// at the given scope.
func (r *Resolver) ResolveName(fs *symbols.FileSymbols, scope symbols.ScopeID, name source.StringID) Outcome {
	return r.ResolveSegments(fs, scope, []source.StringID{name})
}

// ResolveSegments resolves a possibly-qualified name from a scope: the
// first segment walks the scope chain innermost to outermost, each
// later segment looks up a member of the previous result's namespace.
func (r *Resolver) ResolveSegments(fs *symbols.FileSymbols, scope symbols.ScopeID, segs []source.StringID) Outcome {
	if len(segs) == 0 || segs[0] == source.NoStringID {
		return unresolvedAt(0)
	}

	out := r.resolveHead(fs, scope, segs[0])
	if out.Status == Unresolved {
		return out
	}
	for i := 1; i < len(segs); i++ {
		if out.Status != Resolved {
			// A namespace that is itself ambiguous cannot anchor
			// further segments.
			return unresolvedAt(i - 1)
		}
		if segs[i] == source.NoStringID {
			return unresolvedAt(i)
		}
		var cands candidates
		st := newWalk()
		r.lookupMember(st, out.Candidates[0].Entry, segs[i], ProvDeclared, &cands)
		out = r.verdict(cands)
		if out.Status == Unresolved {
			return unresolvedAt(i)
		}
	}
	return out
}

// resolveHead resolves the first segment: scope levels innermost to
// outermost, then the workspace root namespace. The first level that
// produces a candidate wins.
func (r *Resolver) resolveHead(fs *symbols.FileSymbols, scope symbols.ScopeID, name source.StringID) Outcome {
	if fs != nil {
		for sc := scope; sc.IsValid(); {
			level := fs.Scope(sc)
			if level == nil {
				break
			}
			var cands candidates
			r.gatherLevel(fs, sc, level, name, &cands)
			if out := r.verdict(cands); out.Status != Unresolved {
				return out
			}
			sc = level.Parent
		}
	}

	var cands candidates
	st := newWalk()
	r.lookupRootName(st, name, ProvDeclared, &cands)
	return r.verdict(cands)
}

// verdict collapses gathered candidates into an outcome: identical
// identities merge, same-name packages merge across files, the lowest
// provenance rank present survives, and more than one survivor is an
// ambiguity.
func (r *Resolver) verdict(cands candidates) Outcome {
	if len(cands.list) == 0 {
		return unresolvedAt(0)
	}

	byDef := make(map[index.DefRef]int, len(cands.list))
	merged := make([]Candidate, 0, len(cands.list))
	for _, c := range cands.list {
		if i, ok := byDef[c.Entry.Def]; ok {
			if c.Rank < merged[i].Rank {
				merged[i].Rank = c.Rank
			}
			continue
		}
		byDef[c.Entry.Def] = len(merged)
		merged = append(merged, c)
	}

	// Package namespaces merge across files: every file contributing
	// 'package P' names the same namespace, so the copies collapse to
	// one representative instead of reading as an ambiguity.
	byPkg := make(map[source.StringID]int)
	packed := merged[:0]
	for _, c := range merged {
		if c.Entry.Kind == ast.DefPackage {
			if i, ok := byPkg[c.Entry.QName]; ok {
				keep := &packed[i]
				if c.Rank < keep.Rank {
					keep.Rank = c.Rank
				}
				if less(c.Entry.Def, keep.Entry.Def) {
					keep.Entry = c.Entry
				}
				continue
			}
			byPkg[c.Entry.QName] = len(packed)
		}
		packed = append(packed, c)
	}

	best := packed[0].Rank
	for _, c := range packed[1:] {
		if c.Rank < best {
			best = c.Rank
		}
	}
	survivors := packed[:0]
	for _, c := range packed {
		if c.Rank == best {
			survivors = append(survivors, c)
		}
	}

	slices.SortFunc(survivors, func(a, b Candidate) int {
		if c := cmp.Compare(a.Entry.Def.File, b.Entry.Def.File); c != 0 {
			return c
		}
		return cmp.Compare(a.Entry.Def.Local, b.Entry.Def.Local)
	})

	status := Resolved
	if len(survivors) > 1 {
		status = Ambiguous
	}
	return Outcome{Status: status, Candidates: slices.Clone(survivors)}
}

func less(a, b index.DefRef) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	return a.Local < b.Local
}

// splitPath turns a joined qualified name back into its segments.
func (r *Resolver) splitPath(path source.StringID) []source.StringID {
	raw, ok := r.names.Lookup(path)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, "::")
	segs := make([]source.StringID, len(parts))
	for i, p := range parts {
		segs[i] = r.names.Intern(p)
	}
	return segs
}

// candidates accumulates gathered declarations for one lookup.
type candidates struct {
	list []Candidate
}

func (c *candidates) add(e index.Entry, rank Provenance) {
	c.list = append(c.list, Candidate{Entry: e, Rank: rank})
}

func (c *candidates) empty() bool { return len(c.list) == 0 }

// walk guards one namespace-expansion walk against re-export cycles.
type walk struct {
	spaces map[source.StringID]bool
}

func newWalk() *walk { return &walk{spaces: make(map[source.StringID]bool)} }

func (w *walk) enter(ns source.StringID) bool {
	if w.spaces[ns] {
		return false
	}
	w.spaces[ns] = true
	return true
}
