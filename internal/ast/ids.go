package ast

type (
	// MemberID indexes the member arena: every element of a body.
	MemberID uint32
	// PackageID indexes package declarations.
	PackageID uint32
	// DefID indexes definition declarations.
	DefID uint32
	// UsageID indexes usage declarations.
	UsageID uint32
	// ImportID indexes import declarations.
	ImportID uint32
	// AliasID indexes alias declarations.
	AliasID uint32
	// DocID indexes documentation bodies.
	DocID uint32
	// RefID indexes name-reference sites within one file.
	RefID uint32
)

const (
	NoMemberID  MemberID  = 0
	NoPackageID PackageID = 0
	NoDefID     DefID     = 0
	NoUsageID   UsageID   = 0
	NoImportID  ImportID  = 0
	NoAliasID   AliasID   = 0
	NoDocID     DocID     = 0
	NoRefID     RefID     = 0
)

func (id MemberID) IsValid() bool  { return id != NoMemberID }
func (id PackageID) IsValid() bool { return id != NoPackageID }
func (id DefID) IsValid() bool     { return id != NoDefID }
func (id UsageID) IsValid() bool   { return id != NoUsageID }
func (id ImportID) IsValid() bool  { return id != NoImportID }
func (id AliasID) IsValid() bool   { return id != NoAliasID }
func (id DocID) IsValid() bool     { return id != NoDocID }
func (id RefID) IsValid() bool     { return id != NoRefID }
