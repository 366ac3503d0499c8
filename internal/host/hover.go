package host

import (
	"syster/internal/ast"
	"syster/internal/index"
	"syster/internal/source"
	"syster/internal/symbols"
)

// HoverInfo is what the editor shows for the symbol under the cursor.
type HoverInfo struct {
	Name       string
	QName      string
	Kind       ast.DefKind
	Usage      bool
	Deprecated bool
	// Builtin marks standard-library symbols.
	Builtin bool
	Doc     string
	// Target is the declaration's name location.
	Target Location
}

// Hover describes the symbol under the offset: a declared name, a
// reference segment, or an alias name. Unresolved and ambiguous
// references return ErrNoSymbol.
func (h *Host) Hover(f source.FileID, off uint32) (HoverInfo, error) {
	var info HoverInfo
	err := h.stable(func() error {
		info = HoverInfo{}
		e, err := h.resolvedAt(f, off)
		if err != nil {
			return err
		}
		info = h.infoFor(e)
		return nil
	})
	if err != nil {
		return HoverInfo{}, err
	}
	return info, nil
}

func (h *Host) infoFor(e index.Entry) HoverInfo {
	names := h.store.Names()
	info := HoverInfo{
		Name:       names.MustLookup(e.Name),
		QName:      names.MustLookup(e.QName),
		Kind:       e.Kind,
		Usage:      e.Flags&symbols.DefFlagUsage != 0,
		Deprecated: e.Flags&symbols.DefFlagDeprecated != 0,
		Builtin:    e.Flags&symbols.DefFlagBuiltin != 0,
	}
	if d := h.declSite(e); d != nil {
		info.Doc = d.Doc
		info.Target = h.locationOf(d.NameSpan)
	}
	return info
}
