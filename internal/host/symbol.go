package host

import (
	"fmt"

	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
)

// engineWorkspace reads per-file results through the engine's public
// Get, reusing the cache without recording dependencies. Point queries
// use it under stable(), which catches any write that lands mid-read.
type engineWorkspace struct {
	h *Host
}

func (w engineWorkspace) FileSymbols(f source.FileID) *symbols.FileSymbols {
	fs, err := w.h.symbolsOf(f)
	if err != nil {
		return nil
	}
	return fs
}

func (w engineWorkspace) Tree(f source.FileID) *ast.Tree {
	pv, err := w.h.parseOf(f)
	if err != nil {
		return nil
	}
	return pv.tree
}

// refAt finds the reference site whose span covers the offset, along
// with the index of the covered segment. The cursor between segments
// (on a '::') snaps to the last segment before it.
func refAt(fs *symbols.FileSymbols, tree *ast.Tree, off uint32) (*symbols.RefSite, *ast.Ref, int, bool) {
	for i := range fs.Refs {
		site := &fs.Refs[i]
		ref := tree.Ref(site.Ref)
		if ref == nil || !ref.Span.Contains(off) {
			continue
		}
		for seg := range ref.Segments {
			if ref.Segments[seg].Span.Contains(off) {
				return site, ref, seg, true
			}
		}
		last := 0
		for seg := range ref.Segments {
			if ref.Segments[seg].Span.End <= off {
				last = seg
			}
		}
		return site, ref, last, true
	}
	return nil, nil, 0, false
}

// resolvedAt resolves whatever sits under the offset to its index
// entry: the declaration itself when the offset is on a declared name,
// the covered segment's target when it is on a reference, the alias
// target when it is on an alias name.
func (h *Host) resolvedAt(f source.FileID, off uint32) (index.Entry, error) {
	fs, err := h.symbolsOf(f)
	if err != nil {
		return index.Entry{}, err
	}
	pv, err := h.parseOf(f)
	if err != nil {
		return index.Entry{}, err
	}

	if local := fs.DefAt(off); local.IsValid() {
		return h.entryFor(fs, local)
	}

	if site, ref, seg, ok := refAt(fs, pv.tree, off); ok {
		out, err := h.segmentOutcome(f, fs, site, ref, seg)
		if err != nil {
			return index.Entry{}, err
		}
		if out.Status != resolve.Resolved {
			return index.Entry{}, fmt.Errorf("reference is %s: %w", out.Status, ErrNoSymbol)
		}
		return out.Candidates[0].Entry, nil
	}

	if e, ok, err := h.aliasTargetAt(fs, off); err != nil {
		return index.Entry{}, err
	} else if ok {
		return e, nil
	}

	return index.Entry{}, fmt.Errorf("%s: offset %d: %w", h.store.PathOf(f), off, ErrNoSymbol)
}

// entryFor returns the index entry of a declaration in hand, preferring
// the indexed form so callers see the same candidate resolution would.
func (h *Host) entryFor(fs *symbols.FileSymbols, local symbols.LocalID) (index.Entry, error) {
	d := fs.Def(local)
	if d == nil {
		return index.Entry{}, fmt.Errorf("declaration %d: %w", local, ErrNoSymbol)
	}
	want := index.DefRef{File: fs.File, Local: local}
	snap, err := h.snapshot()
	if err != nil {
		return index.Entry{}, err
	}
	for _, e := range snap.Name(d.QName).Defs {
		if e.Def == want {
			return e, nil
		}
	}
	// Not indexed, which only happens transiently; synthesize the entry
	// from the declaration itself.
	owner := source.NoStringID
	if od := fs.Def(d.Owner); od != nil {
		owner = od.QName
	}
	return index.Entry{
		Def:    want,
		Name:   d.Name,
		QName:  d.QName,
		Owner:  owner,
		Kind:   d.Kind,
		Flags:  d.Flags,
		Public: d.Public(),
	}, nil
}

// segmentOutcome resolves one covered segment of a reference: the final
// segment through the memoized per-site query, a prefix ad hoc against
// the current snapshot.
func (h *Host) segmentOutcome(f source.FileID, fs *symbols.FileSymbols, site *symbols.RefSite, ref *ast.Ref, seg int) (resolve.Outcome, error) {
	if seg == len(ref.Segments)-1 {
		return h.outcomeOf(f, uint32(site.Ref))
	}
	snap, err := h.snapshot()
	if err != nil {
		return resolve.Outcome{}, err
	}
	segs := make([]source.StringID, seg+1)
	for i := range segs {
		segs[i] = ref.Segments[i].Name
	}
	r := resolve.New(snap, h.store.Names(), engineWorkspace{h: h})
	return r.ResolveSegments(fs, site.Scope, segs), nil
}

// aliasTargetAt resolves the target of the alias whose declared name
// covers the offset.
func (h *Host) aliasTargetAt(fs *symbols.FileSymbols, off uint32) (index.Entry, bool, error) {
	for i := range fs.Aliases {
		a := &fs.Aliases[i]
		if !a.NameSpan.Contains(off) {
			continue
		}
		out, err := h.outcomeOf(fs.File, uint32(a.Target))
		if err != nil {
			return index.Entry{}, false, err
		}
		if out.Status != resolve.Resolved {
			return index.Entry{}, false, fmt.Errorf("alias target is %s: %w", out.Status, ErrNoSymbol)
		}
		return out.Candidates[0].Entry, true, nil
	}
	return index.Entry{}, false, nil
}

// declSite fetches the declaring Def behind an entry, nil when the
// owning file is no longer reachable.
func (h *Host) declSite(e index.Entry) *symbols.Def {
	fs, err := h.symbolsOf(e.Def.File)
	if err != nil {
		return nil
	}
	return fs.Def(e.Def.Local)
}
