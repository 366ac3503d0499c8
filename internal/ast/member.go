package ast

import "syster/internal/source"

// MemberKind discriminates the payload of a body member.
type MemberKind uint8

const (
	MemberPackage MemberKind = iota
	MemberDef
	MemberUsage
	MemberImport
	MemberAlias
	MemberDoc
)

func (k MemberKind) String() string {
	switch k {
	case MemberPackage:
		return "package"
	case MemberDef:
		return "definition"
	case MemberUsage:
		return "usage"
	case MemberImport:
		return "import"
	case MemberAlias:
		return "alias"
	case MemberDoc:
		return "doc"
	}
	return "member(?)"
}

// Member is one element of a package or definition body. Kind selects
// which payload arena the Payload index points into.
type Member struct {
	Kind    MemberKind
	Span    source.Span
	Payload uint32
}
