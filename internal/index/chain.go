package index

import (
	"syster/internal/ast"
	"syster/internal/source"
)

// ChainResolver supplies the per-definition facts a chain walk needs.
// The resolver layer implements it; keeping it an interface here avoids
// a dependency cycle while the walk itself stays with the index.
type ChainResolver interface {
	// SpecializationTargets returns the resolved explicit ':>' targets
	// of a definition, in declaration order. Unresolved targets are
	// simply absent.
	SpecializationTargets(def DefRef) []DefRef
	// KindOf returns the definition's kind.
	KindOf(def DefRef) (ast.DefKind, bool)
}

// Chain returns the specialization closure of start, excluding start
// itself: explicit targets first in breadth-first declaration order,
// each followed transitively, with the kind's implicit root folded in.
// Cycles terminate through the visited set.
func Chain(snap Reader, names *source.Interner, res ChainResolver, start DefRef) []DefRef {
	visited := map[DefRef]bool{start: true}
	var out []DefRef
	queue := []DefRef{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		targets := res.SpecializationTargets(cur)
		if kind, ok := res.KindOf(cur); ok && kind != ast.DefPackage {
			if rootName, ok := ImplicitRoot(kind); ok {
				if root, found := lookupRoot(snap, names, rootName); found {
					targets = append(append([]DefRef{}, targets...), root)
				}
			}
		}
		for _, t := range targets {
			if !t.IsValid() || visited[t] {
				continue
			}
			visited[t] = true
			out = append(out, t)
			queue = append(queue, t)
		}
	}
	return out
}

// Reaches reports whether start's specialization chain, including start
// itself, contains a definition with the given qualified name.
func Reaches(snap Reader, names *source.Interner, res ChainResolver, start DefRef, rootQName string) bool {
	root, ok := lookupRoot(snap, names, rootQName)
	if !ok {
		return false
	}
	if start == root {
		return true
	}
	for _, d := range Chain(snap, names, res, start) {
		if d == root {
			return true
		}
	}
	return false
}

// lookupRoot resolves an absolute qualified name to its definition,
// preferring the first candidate in identity order.
func lookupRoot(snap Reader, names *source.Interner, qname string) (DefRef, bool) {
	info := snap.Name(names.Intern(qname))
	if len(info.Defs) == 0 {
		return NoDefRef, false
	}
	return info.Defs[0].Def, true
}
