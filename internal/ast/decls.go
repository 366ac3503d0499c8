package ast

import "syster/internal/source"

// Annotation is an '@Name' metadata prefix. Annotation names are markers,
// not reference sites; the semantic layer interprets known ones like
// 'deprecated' and ignores the rest.
type Annotation struct {
	Segments []NameSeg
	Span     source.Span
}

// PackageDecl is 'package Name { ...members }'.
type PackageDecl struct {
	Name     NameSeg
	KwSpan   source.Span
	BodySpan source.Span
	Members  []MemberID
	Doc      DocID
	Vis      VisibilityMod
	Annots   []Annotation
}

// Definition is a '<kind> def Name' declaration, with an optional
// specialization list and an optional body.
type Definition struct {
	DefKind     DefKind
	Name        NameSeg
	KindSpan    source.Span // the 'part' of 'part def'
	DefSpan     source.Span // the 'def'
	Specializes []RefID
	Members     []MemberID
	HasBody     bool
	BodySpan    source.Span
	Doc         DocID
	Vis         VisibilityMod
	Annots      []Annotation
}

// Usage is a '<kind> name [: Type] [:> subsetted...]' feature declaration,
// with an optional nested body.
type Usage struct {
	UsageKind DefKind
	IsRef     bool // 'ref' prefix
	Name      NameSeg
	KindSpan  source.Span
	Type      RefID // NoRefID when the usage is untyped
	Subsets   []RefID
	Members   []MemberID
	HasBody   bool
	BodySpan  source.Span
	Doc       DocID
	Vis       VisibilityMod
	Annots    []Annotation
}

// ImportDecl is '[public|private] import A::B;' or '... import A::B::*;'.
// The target ref excludes the wildcard segment.
type ImportDecl struct {
	Vis      VisibilityMod
	KwSpan   source.Span
	Target   RefID
	Wildcard bool
	StarSpan source.Span
}

// AliasDecl is 'alias New for Old;'. The alias introduces Name into the
// enclosing namespace as another spelling of the target.
type AliasDecl struct {
	Vis     VisibilityMod
	KwSpan  source.Span
	Name    NameSeg
	ForSpan source.Span
	Target  RefID
}

// DocDecl is a 'doc /* ... */' annotation. Body is the comment interior.
type DocDecl struct {
	KwSpan   source.Span
	Body     string
	BodySpan source.Span
}
