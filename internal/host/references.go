package host

import (
	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/source"
	"syster/internal/symbols"
)

// References lists every reference site that resolves to the
// definition, ordered by file then document position. With includeDecl
// the declaration's own name leads the list.
func (h *Host) References(def index.DefRef, includeDecl bool) ([]Location, error) {
	var locs []Location
	err := h.stable(func() error {
		locs = nil
		rl, err := h.refsToDef(def)
		if err != nil {
			return err
		}
		if includeDecl {
			fs, err := h.symbolsOf(def.File)
			if err != nil {
				if abortive(err) {
					return err
				}
			} else if d := fs.Def(def.Local); d != nil {
				locs = append(locs, h.locationOf(d.NameSpan))
			}
		}
		for _, s := range rl.sites {
			pv, err := h.parseOf(s.File)
			if err != nil {
				if abortive(err) {
					return err
				}
				continue
			}
			if ref := pv.tree.Ref(s.Ref); ref != nil {
				locs = append(locs, h.locationOf(ref.Span))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locs, nil
}

// ReferencesAt runs References for the symbol under the offset.
func (h *Host) ReferencesAt(f source.FileID, off uint32, includeDecl bool) ([]Location, error) {
	var def index.DefRef
	err := h.stable(func() error {
		e, err := h.resolvedAt(f, off)
		if err != nil {
			return err
		}
		def = e.Def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h.References(def, includeDecl)
}

// Lens is one reference-count annotation for a package-level
// declaration.
type Lens struct {
	Def   index.DefRef
	QName string
	Loc   Location
	Count int
}

// CodeLens returns reference counts for the file's packages and its
// declarations nested only inside packages.
func (h *Host) CodeLens(f source.FileID) ([]Lens, error) {
	var out []Lens
	err := h.stable(func() error {
		out = nil
		fs, err := h.symbolsOf(f)
		if err != nil {
			return err
		}
		names := h.store.Names()
		for i := range fs.Defs {
			d := &fs.Defs[i]
			if !packageLevel(fs, d) {
				continue
			}
			rl, err := h.refsToDef(index.DefRef{File: f, Local: d.LocalID})
			if err != nil {
				return err
			}
			out = append(out, Lens{
				Def:   index.DefRef{File: f, Local: d.LocalID},
				QName: names.MustLookup(d.QName),
				Loc:   h.locationOf(d.NameSpan),
				Count: len(rl.sites),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// packageLevel reports whether every enclosing declaration is a
// package.
func packageLevel(fs *symbols.FileSymbols, d *symbols.Def) bool {
	for owner := d.Owner; owner.IsValid(); {
		od := fs.Def(owner)
		if od == nil || od.Kind != ast.DefPackage {
			return false
		}
		owner = od.Owner
	}
	return true
}
