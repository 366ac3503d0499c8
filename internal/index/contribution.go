package index

import (
	"syster/internal/memo"
	"syster/internal/source"
	"syster/internal/symbols"
)

// Contribution is what one file donates to the index: its declarations,
// aliases, and re-exports. It is a pure function of the file's symbols
// and the unit of delta merging; its fingerprint deliberately excludes
// spans and docs so formatting edits leave the index untouched.
type Contribution struct {
	File      source.FileID
	Defs      []Entry
	Aliases   []AliasEntry
	ReExports []ReExport

	fp uint64
}

// BuildContribution projects a file's symbols into index entries.
func BuildContribution(fs *symbols.FileSymbols) *Contribution {
	c := &Contribution{File: fs.File}

	if n := len(fs.Defs); n > 0 {
		c.Defs = make([]Entry, 0, n)
	}
	for i := range fs.Defs {
		c.Defs = append(c.Defs, EntryOf(fs, &fs.Defs[i]))
	}

	for i := range fs.Aliases {
		a := &fs.Aliases[i]
		c.Aliases = append(c.Aliases, AliasEntry{
			File:   fs.File,
			Alias:  symbols.AliasID(i + 1), // #nosec G115 -- alias count bounded by file size
			Scope:  a.Scope,
			Name:   a.Name,
			QName:  a.QName,
			Owner:  a.Owner,
			Target: a.TargetPath,
			Public: a.Public(),
		})
	}

	for i := range fs.Imports {
		im := &fs.Imports[i]
		if !im.Public() {
			continue
		}
		c.ReExports = append(c.ReExports, ReExport{
			File:     fs.File,
			Import:   symbols.ImportID(i + 1), // #nosec G115 -- import count bounded by file size
			Scope:    im.Scope,
			Owner:    im.Owner,
			Target:   im.Path,
			Wildcard: im.Wildcard,
		})
	}

	c.fp = c.computeFingerprint()
	return c
}

// EntryOf projects one declaration into its index entry.
func EntryOf(fs *symbols.FileSymbols, d *symbols.Def) Entry {
	owner := source.NoStringID
	if parent := fs.Def(d.Owner); parent != nil {
		owner = parent.QName
	}
	return Entry{
		Def:    DefRef{File: fs.File, Local: d.LocalID},
		Name:   d.Name,
		QName:  d.QName,
		Owner:  owner,
		Kind:   d.Kind,
		Flags:  d.Flags,
		Public: d.Public(),
	}
}

// Fingerprint is computed once at build time.
func (c *Contribution) Fingerprint() uint64 { return c.fp }

func (c *Contribution) computeFingerprint() uint64 {
	d := memo.NewDigest()
	d.Uint32(uint32(c.File))
	hashEntries(d, c.Defs)
	hashAliases(d, c.Aliases)
	d.Uint64(uint64(len(c.ReExports)))
	for _, re := range c.ReExports {
		hashReExport(d, re)
	}
	return d.Sum()
}
