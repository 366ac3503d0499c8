package resolve

import (
	"strings"

	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/source"
	"syster/internal/symbols"
)

// gatherLevel collects every candidate one scope level offers for a
// name: own declarations, alias and import bindings, and names
// inherited through the owning declaration's specialization chain.
// A NoStringID name collects the level's whole surface instead.
func (r *Resolver) gatherLevel(fs *symbols.FileSymbols, id symbols.ScopeID, sc *symbols.Scope, name source.StringID, out *candidates) {
	if name != source.NoStringID {
		for _, lid := range sc.Decls[name] {
			if d := fs.Def(lid); d != nil {
				out.add(index.EntryOf(fs, d), ProvDeclared)
			}
		}
	} else {
		for _, lids := range sc.Decls {
			for _, lid := range lids {
				if d := fs.Def(lid); d != nil {
					out.add(index.EntryOf(fs, d), ProvDeclared)
				}
			}
		}
	}

	for _, aid := range sc.Aliases {
		a := fs.AliasAt(aid)
		if a == nil || !matches(a.Name, name) {
			continue
		}
		r.followAlias(fs, aid, ProvImported, out)
	}

	for _, iid := range sc.Imports {
		im := fs.ImportAt(iid)
		if im == nil {
			continue
		}
		if im.Wildcard {
			r.wildcardInto(fs, iid, im, name, out)
			continue
		}
		if !matches(r.lastSegment(im.Path), name) {
			continue
		}
		target := r.importTarget(fs, iid, im)
		for _, c := range target.Candidates {
			out.add(c.Entry, ProvImported)
		}
	}

	if sc.Owner.IsValid() {
		owner := fs.Def(sc.Owner)
		if owner != nil && owner.Body == id {
			self := index.DefRef{File: fs.File, Local: owner.LocalID}
			r.gatherInherited(self, name, out)
		}
	}
}

// lookupMember finds a name among what a namespace exposes: direct
// members and member aliases first, then re-exports, then members
// inherited through the namespace's specialization chain. Earlier
// tiers shadow later ones. A NoStringID name collects all tiers
// without shadowing.
func (r *Resolver) lookupMember(w *walk, ns index.Entry, name source.StringID, base Provenance, out *candidates) {
	if !w.enter(ns.QName) {
		return
	}
	before := len(out.list)

	members := r.snap.Members(ns.QName)
	for _, e := range members.Defs {
		if e.Public && matches(e.Name, name) {
			out.add(e, base)
		}
	}
	for _, a := range members.Aliases {
		if a.Public && matches(a.Name, name) {
			r.followAliasEntry(a, worse(base, ProvImported), out)
		}
	}
	if name != source.NoStringID && len(out.list) > before {
		return
	}

	for _, re := range members.ReExports {
		r.expandReExport(w, re, name, base, out)
	}
	if name != source.NoStringID && len(out.list) > before {
		return
	}

	r.gatherInheritedVia(w, ns.Def, name, out)
}

// lookupRootName looks a name up in the workspace root namespace:
// top-level declarations and aliases across all files, then top-level
// re-exports.
func (r *Resolver) lookupRootName(w *walk, name source.StringID, base Provenance, out *candidates) {
	before := len(out.list)

	if name != source.NoStringID {
		for _, e := range r.snap.Name(name).Defs {
			if e.Owner == source.NoStringID && e.Public {
				out.add(e, base)
			}
		}
		for _, a := range r.snap.Name(name).Aliases {
			if a.Owner == source.NoStringID && a.Public {
				r.followAliasEntry(a, worse(base, ProvImported), out)
			}
		}
	} else {
		root := r.snap.Members(source.NoStringID)
		for _, e := range root.Defs {
			if e.Public {
				out.add(e, base)
			}
		}
		for _, a := range root.Aliases {
			if a.Public {
				r.followAliasEntry(a, worse(base, ProvImported), out)
			}
		}
	}
	if name != source.NoStringID && len(out.list) > before {
		return
	}

	for _, re := range r.snap.Members(source.NoStringID).ReExports {
		r.expandReExport(w, re, name, base, out)
	}
}

// wildcardInto adds the matching part of a wildcard import's target
// surface at the wildcard rank.
func (r *Resolver) wildcardInto(fs *symbols.FileSymbols, iid symbols.ImportID, im *symbols.Import, name source.StringID, out *candidates) {
	target := r.importTarget(fs, iid, im)
	if target.Status != Resolved {
		return
	}
	w := newWalk()
	var got candidates
	r.lookupMember(w, target.Candidates[0].Entry, name, ProvWildcard, &got)
	for _, c := range got.list {
		out.add(c.Entry, worse(c.Rank, ProvWildcard))
	}
}

// importTarget resolves an import's target path in the scope the
// import is written in. The trail breaks self-referential imports.
func (r *Resolver) importTarget(fs *symbols.FileSymbols, iid symbols.ImportID, im *symbols.Import) Outcome {
	key := importKey{file: fs.File, imp: iid}
	if r.importTrail[key] {
		return unresolvedAt(0)
	}
	r.importTrail[key] = true
	defer delete(r.importTrail, key)

	return r.ResolveSegments(fs, im.Scope, r.splitPath(im.Path))
}

// followAlias resolves an alias's target in the alias's own scope and
// credits the results to the caller at the given rank.
func (r *Resolver) followAlias(fs *symbols.FileSymbols, aid symbols.AliasID, rank Provenance, out *candidates) {
	key := aliasKey{file: fs.File, alias: aid}
	if r.aliasTrail[key] {
		return
	}
	a := fs.AliasAt(aid)
	if a == nil {
		return
	}
	r.aliasTrail[key] = true
	defer delete(r.aliasTrail, key)

	res := r.ResolveSegments(fs, a.Scope, r.splitPath(a.TargetPath))
	for _, c := range res.Candidates {
		out.add(c.Entry, rank)
	}
}

// followAliasEntry is followAlias for an alias reached through the
// index rather than the current file.
func (r *Resolver) followAliasEntry(a index.AliasEntry, rank Provenance, out *candidates) {
	fs := r.src.FileSymbols(a.File)
	if fs == nil {
		return
	}
	r.followAlias(fs, a.Alias, rank, out)
}

// expandReExport resolves one public import found in a namespace and
// contributes whatever it brings in: the named target, or the matching
// part of a wildcard target's surface.
func (r *Resolver) expandReExport(w *walk, re index.ReExport, name source.StringID, base Provenance, out *candidates) {
	fs := r.src.FileSymbols(re.File)
	if fs == nil {
		return
	}
	im := fs.ImportAt(re.Import)
	if im == nil {
		return
	}

	if !re.Wildcard {
		if !matches(r.lastSegment(re.Target), name) {
			return
		}
		target := r.importTarget(fs, re.Import, im)
		for _, c := range target.Candidates {
			out.add(c.Entry, worse(base, ProvImported))
		}
		return
	}

	target := r.importTarget(fs, re.Import, im)
	if target.Status != Resolved {
		return
	}
	r.lookupMember(w, target.Candidates[0].Entry, name, worse(base, ProvWildcard), out)
}

// gatherInherited walks a declaration's specialization chain and
// collects matching public members of every ancestor.
func (r *Resolver) gatherInherited(self index.DefRef, name source.StringID, out *candidates) {
	r.gatherInheritedVia(newWalk(), self, name, out)
}

func (r *Resolver) gatherInheritedVia(w *walk, self index.DefRef, name source.StringID, out *candidates) {
	if !self.IsValid() {
		return
	}
	for _, anc := range r.chain(self) {
		entry, ok := r.entryFor(anc)
		if !ok || entry.Kind == ast.DefPackage {
			continue
		}
		if !w.enter(entry.QName) {
			continue
		}
		members := r.snap.Members(entry.QName)
		for _, e := range members.Defs {
			if e.Public && matches(e.Name, name) {
				out.add(e, ProvInherited)
			}
		}
		for _, a := range members.Aliases {
			if a.Public && matches(a.Name, name) {
				r.followAliasEntry(a, ProvInherited, out)
			}
		}
		for _, re := range members.ReExports {
			r.expandReExport(w, re, name, ProvInherited, out)
		}
	}
}

// entryFor projects a definition identity back into its index entry.
func (r *Resolver) entryFor(def index.DefRef) (index.Entry, bool) {
	fs := r.src.FileSymbols(def.File)
	if fs == nil {
		return index.Entry{}, false
	}
	d := fs.Def(def.Local)
	if d == nil {
		return index.Entry{}, false
	}
	return index.EntryOf(fs, d), true
}

// lastSegment returns the final segment of a joined qualified name.
func (r *Resolver) lastSegment(path source.StringID) source.StringID {
	raw, ok := r.names.Lookup(path)
	if !ok || raw == "" {
		return source.NoStringID
	}
	if i := strings.LastIndex(raw, "::"); i >= 0 {
		return r.names.Intern(raw[i+2:])
	}
	return path
}

// matches reports whether a candidate name satisfies the wanted name,
// where NoStringID wants everything.
func matches(got, want source.StringID) bool {
	return want == source.NoStringID || got == want
}

// worse returns the weaker of two provenance ranks.
func worse(a, b Provenance) Provenance {
	if a > b {
		return a
	}
	return b
}
