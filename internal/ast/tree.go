package ast

import "syster/internal/source"

// Tree holds every node of one parsed file. Nodes live in per-kind arenas
// and point at each other through 1-based IDs, so a Tree is one flat value
// that can be cached and shared read-only between consumers.
type Tree struct {
	File    source.FileID
	Span    source.Span
	Members []MemberID // top-level members in declaration order
	FileDoc DocID      // file-level doc, when the file starts with one

	members  *Arena[Member]
	packages *Arena[PackageDecl]
	defs     *Arena[Definition]
	usages   *Arena[Usage]
	imports  *Arena[ImportDecl]
	aliases  *Arena[AliasDecl]
	docs     *Arena[DocDecl]
	refs     *Arena[Ref]
}

// NewTree creates an empty tree for file with arenas sized to capHint.
func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Tree{
		File:     file,
		members:  NewArena[Member](capHint),
		packages: NewArena[PackageDecl](capHint / 8),
		defs:     NewArena[Definition](capHint / 2),
		usages:   NewArena[Usage](capHint / 2),
		imports:  NewArena[ImportDecl](capHint / 8),
		aliases:  NewArena[AliasDecl](capHint / 8),
		docs:     NewArena[DocDecl](capHint / 8),
		refs:     NewArena[Ref](capHint),
	}
}

// Member returns the member node, or nil for the null ID.
func (t *Tree) Member(id MemberID) *Member { return t.members.Get(uint32(id)) }

// Package returns the package payload, or nil for the null ID.
func (t *Tree) Package(id PackageID) *PackageDecl { return t.packages.Get(uint32(id)) }

// Def returns the definition payload, or nil for the null ID.
func (t *Tree) Def(id DefID) *Definition { return t.defs.Get(uint32(id)) }

// Usage returns the usage payload, or nil for the null ID.
func (t *Tree) Usage(id UsageID) *Usage { return t.usages.Get(uint32(id)) }

// Import returns the import payload, or nil for the null ID.
func (t *Tree) Import(id ImportID) *ImportDecl { return t.imports.Get(uint32(id)) }

// Alias returns the alias payload, or nil for the null ID.
func (t *Tree) Alias(id AliasID) *AliasDecl { return t.aliases.Get(uint32(id)) }

// Doc returns the doc payload, or nil for the null ID.
func (t *Tree) Doc(id DocID) *DocDecl { return t.docs.Get(uint32(id)) }

// Ref returns the reference site, or nil for the null ID.
func (t *Tree) Ref(id RefID) *Ref { return t.refs.Get(uint32(id)) }

// RefCount returns the number of reference sites in the file.
func (t *Tree) RefCount() uint32 { return t.refs.Len() }

// Refs exposes the reference arena for iteration in RefID order.
func (t *Tree) Refs() []Ref { return t.refs.Slice() }

// NewRef allocates a reference site and returns its ID. RefIDs are dense
// and assigned in parse order, so they are deterministic per content.
func (t *Tree) NewRef(ref Ref) RefID {
	return RefID(t.refs.Allocate(ref))
}

// NewPackage allocates a package and wraps it in a member node.
func (t *Tree) NewPackage(decl PackageDecl, span source.Span) (MemberID, PackageID) {
	pid := PackageID(t.packages.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberPackage, Span: span, Payload: uint32(pid)}))
	return mid, pid
}

// NewDef allocates a definition and wraps it in a member node.
func (t *Tree) NewDef(decl Definition, span source.Span) (MemberID, DefID) {
	did := DefID(t.defs.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberDef, Span: span, Payload: uint32(did)}))
	return mid, did
}

// NewUsage allocates a usage and wraps it in a member node.
func (t *Tree) NewUsage(decl Usage, span source.Span) (MemberID, UsageID) {
	uid := UsageID(t.usages.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberUsage, Span: span, Payload: uint32(uid)}))
	return mid, uid
}

// NewImport allocates an import and wraps it in a member node.
func (t *Tree) NewImport(decl ImportDecl, span source.Span) (MemberID, ImportID) {
	iid := ImportID(t.imports.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberImport, Span: span, Payload: uint32(iid)}))
	return mid, iid
}

// NewAlias allocates an alias and wraps it in a member node.
func (t *Tree) NewAlias(decl AliasDecl, span source.Span) (MemberID, AliasID) {
	aid := AliasID(t.aliases.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberAlias, Span: span, Payload: uint32(aid)}))
	return mid, aid
}

// NewDoc allocates a doc body and wraps it in a member node.
func (t *Tree) NewDoc(decl DocDecl, span source.Span) (MemberID, DocID) {
	did := DocID(t.docs.Allocate(decl))
	mid := MemberID(t.members.Allocate(Member{Kind: MemberDoc, Span: span, Payload: uint32(did)}))
	return mid, did
}

// AsPackage unwraps a member when it is a package.
func (t *Tree) AsPackage(id MemberID) (*PackageDecl, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberPackage {
		return nil, false
	}
	return t.Package(PackageID(m.Payload)), true
}

// AsDef unwraps a member when it is a definition.
func (t *Tree) AsDef(id MemberID) (*Definition, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberDef {
		return nil, false
	}
	return t.Def(DefID(m.Payload)), true
}

// AsUsage unwraps a member when it is a usage.
func (t *Tree) AsUsage(id MemberID) (*Usage, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberUsage {
		return nil, false
	}
	return t.Usage(UsageID(m.Payload)), true
}

// AsImport unwraps a member when it is an import.
func (t *Tree) AsImport(id MemberID) (*ImportDecl, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberImport {
		return nil, false
	}
	return t.Import(ImportID(m.Payload)), true
}

// AsAlias unwraps a member when it is an alias.
func (t *Tree) AsAlias(id MemberID) (*AliasDecl, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberAlias {
		return nil, false
	}
	return t.Alias(AliasID(m.Payload)), true
}

// AsDoc unwraps a member when it is a doc annotation.
func (t *Tree) AsDoc(id MemberID) (*DocDecl, bool) {
	m := t.Member(id)
	if m == nil || m.Kind != MemberDoc {
		return nil, false
	}
	return t.Doc(DocID(m.Payload)), true
}
