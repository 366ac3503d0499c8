package resolve

import (
	"syster/internal/ast"
	"syster/internal/index"
)

// Resolver implements index.ChainResolver so chain walks can resolve
// specialization targets on demand.
var _ index.ChainResolver = (*Resolver)(nil)

// SpecializationTargets resolves a declaration's explicit ':>' targets
// plus a usage's typing and subsetting into definition identities.
// Re-entry on a declaration whose targets are already being resolved
// yields nothing, which terminates self-referential chains.
func (r *Resolver) SpecializationTargets(def index.DefRef) []index.DefRef {
	if r.chainTrail[def] {
		return nil
	}
	fs := r.src.FileSymbols(def.File)
	if fs == nil {
		return nil
	}
	d := fs.Def(def.Local)
	if d == nil {
		return nil
	}
	tree := r.src.Tree(def.File)
	if tree == nil {
		return nil
	}

	r.chainTrail[def] = true
	defer delete(r.chainTrail, def)

	refs := make([]ast.RefID, 0, len(d.Specializes)+len(d.Subsets)+1)
	refs = append(refs, d.Specializes...)
	if d.Type.IsValid() {
		refs = append(refs, d.Type)
	}
	refs = append(refs, d.Subsets...)

	var out []index.DefRef
	for _, rid := range refs {
		if target := r.Resolve(fs, tree, rid).Target(); target.IsValid() {
			out = append(out, target)
		}
	}
	return out
}

// KindOf returns a definition identity's kind.
func (r *Resolver) KindOf(def index.DefRef) (ast.DefKind, bool) {
	fs := r.src.FileSymbols(def.File)
	if fs == nil {
		return 0, false
	}
	d := fs.Def(def.Local)
	if d == nil {
		return 0, false
	}
	return d.Kind, true
}

// Chain returns the definition's specialization closure, implicit root
// included. Results computed outside any in-progress walk are reused
// for the resolver's lifetime.
func (r *Resolver) Chain(def index.DefRef) []index.DefRef {
	return r.chain(def)
}

func (r *Resolver) chain(def index.DefRef) []index.DefRef {
	if c, ok := r.chains[def]; ok {
		return c
	}
	clean := len(r.chainTrail) == 0
	out := index.Chain(r.snap, r.names, r, def)
	if clean {
		r.chains[def] = out
	}
	return out
}

// Reaches reports whether the definition's chain, itself included,
// contains the definition named by an absolute qualified name.
func (r *Resolver) Reaches(def index.DefRef, rootQName string) bool {
	root := r.snap.Name(r.names.Intern(rootQName))
	if len(root.Defs) == 0 {
		return false
	}
	want := root.Defs[0].Def
	if def == want {
		return true
	}
	for _, d := range r.chain(def) {
		if d == want {
			return true
		}
	}
	return false
}
