package index

import (
	"syster/internal/ast"
	"syster/internal/memo"
	"syster/internal/source"
	"syster/internal/symbols"
)

// DefRef is a global definition identity: the owning file plus the
// declaration's document-order LocalID. Identities retire with their
// file and survive edits that do not reorder declarations.
type DefRef struct {
	File  source.FileID
	Local symbols.LocalID
}

// NoDefRef is the null identity.
var NoDefRef = DefRef{}

func (r DefRef) IsValid() bool { return r.File.IsValid() && r.Local.IsValid() }

// Entry is one indexed declaration: what a qualified-name lookup
// returns. It carries enough for resolution and checking without
// touching the owning file's symbols.
type Entry struct {
	Def   DefRef
	Name  source.StringID // simple name
	QName source.StringID // fully qualified name
	Owner source.StringID // enclosing namespace's qualified name
	Kind  ast.DefKind
	Flags symbols.DefFlags
	// Public is the effective visibility at the declaration site.
	Public bool
}

// AliasEntry is one indexed alias. The target is a raw path resolved on
// demand in the alias's own scope.
type AliasEntry struct {
	File   source.FileID
	Alias  symbols.AliasID
	Scope  symbols.ScopeID
	Name   source.StringID
	QName  source.StringID
	Owner  source.StringID
	Target source.StringID
	Public bool
}

// ReExport is one 'public import' donated by a namespace: names from
// Target become visible through Owner.
type ReExport struct {
	File     source.FileID
	Import   symbols.ImportID
	Scope    symbols.ScopeID
	Owner    source.StringID
	Target   source.StringID
	Wildcard bool
}

// NameInfo is everything keyed directly under one qualified name.
type NameInfo struct {
	Defs    []Entry
	Aliases []AliasEntry
}

// Empty reports whether the name has no index entries at all.
func (n NameInfo) Empty() bool { return len(n.Defs) == 0 && len(n.Aliases) == 0 }

// Fingerprint covers candidate identity and everything resolution can
// observe about each candidate.
func (n NameInfo) Fingerprint() uint64 {
	d := memo.NewDigest()
	hashEntries(d, n.Defs)
	hashAliases(d, n.Aliases)
	return d.Sum()
}

// MemberInfo is the direct membership of one namespace: declarations,
// aliases, and re-exports donated to it.
type MemberInfo struct {
	Defs      []Entry
	Aliases   []AliasEntry
	ReExports []ReExport
}

// Fingerprint covers membership identity for early cutoff of
// per-namespace queries.
func (m MemberInfo) Fingerprint() uint64 {
	d := memo.NewDigest()
	hashEntries(d, m.Defs)
	hashAliases(d, m.Aliases)
	d.Uint64(uint64(len(m.ReExports)))
	for _, re := range m.ReExports {
		hashReExport(d, re)
	}
	return d.Sum()
}

func hashEntries(d *memo.Digest, entries []Entry) {
	d.Uint64(uint64(len(entries)))
	for _, e := range entries {
		d.Uint32(uint32(e.Def.File)).Uint32(uint32(e.Def.Local))
		d.Uint32(uint32(e.Name)).Uint32(uint32(e.QName)).Uint32(uint32(e.Owner))
		d.Byte(byte(e.Kind)).Byte(byte(e.Flags)).Bool(e.Public)
	}
}

func hashAliases(d *memo.Digest, aliases []AliasEntry) {
	d.Uint64(uint64(len(aliases)))
	for _, a := range aliases {
		d.Uint32(uint32(a.File)).Uint32(uint32(a.Alias)).Uint32(uint32(a.Scope))
		d.Uint32(uint32(a.Name)).Uint32(uint32(a.QName)).Uint32(uint32(a.Owner))
		d.Uint32(uint32(a.Target)).Bool(a.Public)
	}
}

func hashReExport(d *memo.Digest, re ReExport) {
	d.Uint32(uint32(re.File)).Uint32(uint32(re.Import)).Uint32(uint32(re.Scope))
	d.Uint32(uint32(re.Owner)).Uint32(uint32(re.Target)).Bool(re.Wildcard)
}
