package host

import (
	"syster/internal/ast"
	"syster/internal/source"
	"syster/internal/symbols"
)

// OutlineItem is one declaration in a file's structure tree.
type OutlineItem struct {
	Name       string
	Kind       ast.DefKind
	Usage      bool
	Deprecated bool
	// Loc is the declaration's full extent; NameLoc just its name.
	Loc      Location
	NameLoc  Location
	Children []*OutlineItem
}

// Outline returns the file's declarations nested by ownership, in
// document order at every level.
func (h *Host) Outline(f source.FileID) ([]*OutlineItem, error) {
	var roots []*OutlineItem
	err := h.stable(func() error {
		roots = nil
		fs, err := h.symbolsOf(f)
		if err != nil {
			return err
		}
		names := h.store.Names()
		// Owners precede their members in document order, so one pass
		// hangs every item under an already-built parent.
		items := make(map[symbols.LocalID]*OutlineItem, len(fs.Defs))
		for i := range fs.Defs {
			d := &fs.Defs[i]
			item := &OutlineItem{
				Name:       names.MustLookup(d.Name),
				Kind:       d.Kind,
				Usage:      d.IsUsage(),
				Deprecated: d.Deprecated(),
				Loc:        h.locationOf(d.Span),
				NameLoc:    h.locationOf(d.NameSpan),
			}
			items[d.LocalID] = item
			if parent, ok := items[d.Owner]; ok {
				parent.Children = append(parent.Children, item)
			} else {
				roots = append(roots, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}
