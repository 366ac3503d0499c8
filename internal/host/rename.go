package host

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"unicode"

	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
	"syster/internal/token"
)

var (
	// ErrInvalidName reports a rename target that is not an identifier.
	ErrInvalidName = errors.New("not a valid identifier")
	// ErrRenameBuiltin reports a rename that would edit the bundled
	// standard library.
	ErrRenameBuiltin = errors.New("cannot rename a standard library symbol")
	// ErrRenameCollision reports a rename the existing names make unsafe.
	ErrRenameCollision = errors.New("rename would collide")
)

// Edit is one text replacement. Spans address the workspace revision
// the rename was computed against.
type Edit struct {
	File    source.FileID
	Path    string
	Span    source.Span
	NewText string
}

// RenameResult is the full cross-file edit set for one rename: the
// declaration name plus the exact segment of every reference that
// resolves to it. Edits are ordered by file, then offset.
type RenameResult struct {
	Def     index.DefRef
	OldName string
	NewName string
	Edits   []Edit
}

// Rename computes the edits that give a declaration a new name. It
// refuses renames that would change meaning: the new qualified name
// must be free, and the new spelling must not already resolve at any
// edited reference site. Packages declared in several files are one
// namespace, so all of their declarations rename together.
func (h *Host) Rename(def index.DefRef, newName string) (RenameResult, error) {
	if !validIdentifier(newName) {
		return RenameResult{}, fmt.Errorf("rename to %q: %w", newName, ErrInvalidName)
	}
	if h.store.IsBuiltin(def.File) {
		return RenameResult{}, fmt.Errorf("rename: %w", ErrRenameBuiltin)
	}

	var res RenameResult
	err := h.stable(func() error {
		res = RenameResult{Def: def, NewName: newName}
		names := h.store.Names()
		newID := names.Intern(newName)

		fs, err := h.symbolsOf(def.File)
		if err != nil {
			return err
		}
		d := fs.Def(def.Local)
		if d == nil {
			return fmt.Errorf("rename: %w", ErrNoSymbol)
		}
		if d.Name == newID {
			return fmt.Errorf("'%s' is already the name: %w", newName, ErrRenameCollision)
		}
		res.OldName = names.MustLookup(d.Name)

		snap, err := h.snapshot()
		if err != nil {
			return err
		}
		ws := engineWorkspace{h: h}
		r := resolve.New(snap, names, ws)

		// The declaration's new qualified name must be unoccupied,
		// across files and counting aliases.
		newQ := newName
		if od := fs.Def(d.Owner); od != nil {
			newQ = names.MustLookup(od.QName) + "::" + newName
		}
		if !snap.Name(names.Intern(newQ)).Empty() {
			return fmt.Errorf("'%s' already exists: %w", newQ, ErrRenameCollision)
		}

		targets := map[index.DefRef]bool{def: true}
		edits := []Edit{h.edit(def.File, d.NameSpan, newName)}
		if d.Kind == ast.DefPackage {
			for _, e := range snap.Name(d.QName).Defs {
				if e.Def == def || e.Kind != ast.DefPackage {
					continue
				}
				if h.store.IsBuiltin(e.Def.File) {
					return fmt.Errorf("package '%s' merges with the standard library: %w",
						res.OldName, ErrRenameBuiltin)
				}
				ofs := ws.FileSymbols(e.Def.File)
				if ofs == nil {
					continue
				}
				od := ofs.Def(e.Def.Local)
				if od == nil {
					continue
				}
				targets[e.Def] = true
				edits = append(edits, h.edit(e.Def.File, od.NameSpan, newName))
			}
		}

		for _, f := range h.store.Live() {
			if h.store.IsBuiltin(f) {
				continue
			}
			ffs := ws.FileSymbols(f)
			ftree := ws.Tree(f)
			if ffs == nil || ftree == nil {
				continue
			}
			for i := range ffs.Refs {
				site := &ffs.Refs[i]
				ref := ftree.Ref(site.Ref)
				if ref == nil || len(ref.Segments) == 0 {
					continue
				}
				segs := make([]source.StringID, len(ref.Segments))
				for j, s := range ref.Segments {
					segs[j] = s.Name
				}
				// Walk prefix by prefix: the renamed declaration can
				// anchor any segment of a qualified name, not just the
				// last one.
				for k := 1; k <= len(segs); k++ {
					out := r.ResolveSegments(ffs, site.Scope, segs[:k])
					if out.Status != resolve.Resolved {
						break
					}
					if !targets[out.Target()] {
						continue
					}
					if ref.Segments[k-1].Name != d.Name {
						// Reached through an alias: the site keeps its
						// own spelling and stays valid, because the
						// alias's target path is itself a site below.
						break
					}
					if h.siteCollision(r, ffs, site.Scope, segs[:k-1], newID) {
						loc := h.locationOf(ref.Segments[k-1].Span)
						return fmt.Errorf("%s:%d:%d: '%s' already resolves here: %w",
							loc.Path, loc.Start.Line, loc.Start.Col, newName, ErrRenameCollision)
					}
					edits = append(edits, h.edit(f, ref.Segments[k-1].Span, newName))
					break
				}
			}
		}

		slices.SortFunc(edits, func(a, b Edit) int {
			if v := cmp.Compare(a.File, b.File); v != 0 {
				return v
			}
			return cmp.Compare(a.Span.Start, b.Span.Start)
		})
		res.Edits = edits
		return nil
	})
	if err != nil {
		return RenameResult{}, err
	}
	return res, nil
}

// RenameAt runs Rename for the symbol under the offset.
func (h *Host) RenameAt(f source.FileID, off uint32, newName string) (RenameResult, error) {
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
		return RenameResult{}, err
	}
	return h.Rename(def, newName)
}

// siteCollision reports whether the new spelling already resolves at an
// edited site's position, which would make the rewritten reference mean
// something else.
func (h *Host) siteCollision(r *resolve.Resolver, fs *symbols.FileSymbols, scope symbols.ScopeID, prefix []source.StringID, newID source.StringID) bool {
	segs := append(slices.Clone(prefix), newID)
	return r.ResolveSegments(fs, scope, segs).Status != resolve.Unresolved
}

func (h *Host) edit(f source.FileID, span source.Span, text string) Edit {
	return Edit{File: f, Path: h.store.PathOf(f), Span: span, NewText: text}
}

// ApplyEdits rewrites content with the edits addressed to one file.
// Spans index the content as given; overlapping edits are rejected.
func ApplyEdits(content []byte, file source.FileID, edits []Edit) ([]byte, error) {
	mine := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if e.File == file {
			mine = append(mine, e)
		}
	}
	slices.SortFunc(mine, func(a, b Edit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	out := make([]byte, 0, len(content))
	prev := uint32(0)
	for i, e := range mine {
		if e.Span.Start > e.Span.End || int(e.Span.End) > len(content) {
			return nil, fmt.Errorf("edit %s out of range", e.Span)
		}
		if i > 0 && e.Span.Start < mine[i-1].Span.End {
			return nil, fmt.Errorf("edits overlap at %s", e.Span)
		}
		out = append(out, content[prev:e.Span.Start]...)
		out = append(out, e.NewText...)
		prev = e.Span.End
	}
	out = append(out, content[prev:]...)
	return out, nil
}

// validIdentifier mirrors the lexer's identifier rules and excludes
// keywords.
func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, kw := token.LookupKeyword(s); kw {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
