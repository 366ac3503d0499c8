package host

import (
	"cmp"
	"slices"

	"syster/internal/ast"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
)

// CompletionRank orders completion groups from nearest to farthest.
type CompletionRank uint8

const (
	// RankLocal covers declarations in the scope chain and workspace
	// root packages.
	RankLocal CompletionRank = iota
	// RankImported covers names brought in by imports and aliases.
	RankImported
	// RankInherited covers members reached through specialization.
	RankInherited
	// RankStdlib covers the bundled standard library.
	RankStdlib
)

var completionRankNames = [...]string{
	RankLocal:     "local",
	RankImported:  "imported",
	RankInherited: "inherited",
	RankStdlib:    "stdlib",
}

func (r CompletionRank) String() string {
	if int(r) < len(completionRankNames) {
		return completionRankNames[r]
	}
	return "rank(?)"
}

// CompletionItem is one name visible at a position.
type CompletionItem struct {
	Label      string
	QName      string
	Kind       ast.DefKind
	Usage      bool
	Deprecated bool
	Builtin    bool
	Rank       CompletionRank
}

// Completion lists every name visible at the offset, one item per
// qualified name, nearest group first and alphabetical within a group.
func (h *Host) Completion(f source.FileID, off uint32) ([]CompletionItem, error) {
	var items []CompletionItem
	err := h.stable(func() error {
		items = nil
		fs, err := h.symbolsOf(f)
		if err != nil {
			return err
		}
		snap, err := h.snapshot()
		if err != nil {
			return err
		}
		names := h.store.Names()
		r := resolve.New(snap, names, engineWorkspace{h: h})
		for _, c := range r.Visible(fs, fs.ScopeAt(off)) {
			items = append(items, CompletionItem{
				Label:      names.MustLookup(c.Entry.Name),
				QName:      names.MustLookup(c.Entry.QName),
				Kind:       c.Entry.Kind,
				Usage:      c.Entry.Flags&symbols.DefFlagUsage != 0,
				Deprecated: c.Entry.Flags&symbols.DefFlagDeprecated != 0,
				Builtin:    c.Entry.Flags&symbols.DefFlagBuiltin != 0,
				Rank:       completionRank(c),
			})
		}
		slices.SortStableFunc(items, func(a, b CompletionItem) int {
			if v := cmp.Compare(a.Rank, b.Rank); v != 0 {
				return v
			}
			if v := cmp.Compare(a.Label, b.Label); v != 0 {
				return v
			}
			return cmp.Compare(a.QName, b.QName)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// completionRank maps a candidate's provenance to its completion group.
// Standard-library symbols always sort last, whatever route made them
// visible.
func completionRank(c resolve.Candidate) CompletionRank {
	if c.Entry.Flags&symbols.DefFlagBuiltin != 0 {
		return RankStdlib
	}
	switch c.Rank {
	case resolve.ProvDeclared:
		return RankLocal
	case resolve.ProvImported, resolve.ProvWildcard:
		return RankImported
	default:
		return RankInherited
	}
}
