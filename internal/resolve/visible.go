package resolve

import (
	"cmp"
	"slices"

	"syster/internal/source"
	"syster/internal/symbols"
)

// Visible collects every name reachable from a scope: the scope
// chain's declarations, imported and inherited names, and the
// workspace root namespace. Nothing is shadowed away; one candidate
// survives per qualified name with its strongest provenance, ordered
// by rank then name. Completion builds on this.
func (r *Resolver) Visible(fs *symbols.FileSymbols, scope symbols.ScopeID) []Candidate {
	var cands candidates
	if fs != nil {
		for sc := scope; sc.IsValid(); {
			level := fs.Scope(sc)
			if level == nil {
				break
			}
			r.gatherLevel(fs, sc, level, source.NoStringID, &cands)
			sc = level.Parent
		}
	}
	r.lookupRootName(newWalk(), source.NoStringID, ProvDeclared, &cands)
	return r.dedupVisible(cands)
}

func (r *Resolver) dedupVisible(cands candidates) []Candidate {
	byQName := make(map[source.StringID]int, len(cands.list))
	out := make([]Candidate, 0, len(cands.list))
	for _, c := range cands.list {
		if i, ok := byQName[c.Entry.QName]; ok {
			if c.Rank < out[i].Rank {
				out[i] = c
			}
			continue
		}
		byQName[c.Entry.QName] = len(out)
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		an := r.names.MustLookup(a.Entry.Name)
		bn := r.names.MustLookup(b.Entry.Name)
		if c := cmp.Compare(an, bn); c != 0 {
			return c
		}
		return cmp.Compare(r.names.MustLookup(a.Entry.QName), r.names.MustLookup(b.Entry.QName))
	})
	return out
}
