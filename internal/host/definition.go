package host

import (
	"fmt"

	"syster/internal/resolve"
	"syster/internal/source"
)

// Definition returns the declaration site of the symbol under the
// offset. On a declared name it returns that declaration itself; on a
// qualified reference it follows the covered segment, so the cursor on
// 'B' in 'A::B::C' lands on B.
func (h *Host) Definition(f source.FileID, off uint32) (Location, error) {
	var loc Location
	err := h.stable(func() error {
		e, err := h.resolvedAt(f, off)
		if err != nil {
			return err
		}
		d := h.declSite(e)
		if d == nil {
			return fmt.Errorf("declaration of %s: %w", h.store.Names().MustLookup(e.QName), ErrNoSymbol)
		}
		loc = h.locationOf(d.NameSpan)
		return nil
	})
	if err != nil {
		return Location{}, err
	}
	return loc, nil
}

// TypeDefinition returns the declaration of the symbol's declared type:
// from 'part e : Engine' anywhere on e, the Engine definition.
func (h *Host) TypeDefinition(f source.FileID, off uint32) (Location, error) {
	var loc Location
	err := h.stable(func() error {
		e, err := h.resolvedAt(f, off)
		if err != nil {
			return err
		}
		d := h.declSite(e)
		if d == nil {
			return fmt.Errorf("declaration of %s: %w", h.store.Names().MustLookup(e.QName), ErrNoSymbol)
		}
		if !d.Type.IsValid() {
			return fmt.Errorf("%s has no declared type: %w", h.store.Names().MustLookup(e.QName), ErrNoSymbol)
		}
		out, err := h.outcomeOf(e.Def.File, uint32(d.Type))
		if err != nil {
			return err
		}
		if out.Status != resolve.Resolved {
			return fmt.Errorf("type of %s is %s: %w", h.store.Names().MustLookup(e.QName), out.Status, ErrNoSymbol)
		}
		td := h.declSite(out.Candidates[0].Entry)
		if td == nil {
			return fmt.Errorf("type declaration: %w", ErrNoSymbol)
		}
		loc = h.locationOf(td.NameSpan)
		return nil
	})
	if err != nil {
		return Location{}, err
	}
	return loc, nil
}
