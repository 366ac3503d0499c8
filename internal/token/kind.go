package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwPackage represents the 'package' keyword.
	KwPackage // package
	// KwPart represents the 'part' keyword.
	KwPart // part
	// KwItem represents the 'item' keyword.
	KwItem // item
	// KwAttribute represents the 'attribute' keyword.
	KwAttribute // attribute
	// KwPort represents the 'port' keyword.
	KwPort // port
	// KwAction represents the 'action' keyword.
	KwAction // action
	// KwConnection represents the 'connection' keyword.
	KwConnection // connection
	// KwInterface represents the 'interface' keyword.
	KwInterface // interface
	// KwRequirement represents the 'requirement' keyword.
	KwRequirement // requirement
	// KwConstraint represents the 'constraint' keyword.
	KwConstraint // constraint
	// KwState represents the 'state' keyword.
	KwState // state
	// KwCalc represents the 'calc' keyword.
	KwCalc // calc
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwDef represents the 'def' keyword.
	KwDef // def
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwAlias represents the 'alias' keyword.
	KwAlias // alias
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwPublic represents the 'public' keyword.
	KwPublic // public
	// KwPrivate represents the 'private' keyword.
	KwPrivate // private
	// KwRef represents the 'ref' keyword.
	KwRef // ref
	// KwSpecializes represents the 'specializes' keyword.
	KwSpecializes // specializes
	// KwSubsets represents the 'subsets' keyword.
	KwSubsets // subsets
	// KwDoc represents the 'doc' keyword.
	KwDoc // doc

	// IntLit represents an integer literal token.
	IntLit
	// StringLit represents a string literal token.
	StringLit

	// ColonColon represents the '::' qualified-name separator.
	ColonColon // ::
	// ColonGt represents the ':>' specialization shorthand.
	ColonGt // :>
	// Colon represents the ':' typing separator.
	Colon // :
	// Semicolon represents the ';' terminator.
	Semicolon // ;
	// Comma represents the ',' separator.
	Comma // ,
	// Star represents the '*' wildcard.
	Star // *
	// At represents the '@' metadata prefix.
	At // @
	// Eq represents the '=' default-value separator.
	Eq // =
	// LBrace represents the '{' body opener.
	LBrace // {
	// RBrace represents the '}' body closer.
	RBrace // }
	// LBracket represents the '[' multiplicity opener.
	LBracket // [
	// RBracket represents the ']' multiplicity closer.
	RBracket // ]
	// LParen represents the '(' parameter opener.
	LParen // (
	// RParen represents the ')' parameter closer.
	RParen // )
	// Dot represents the '.' feature-chain separator.
	Dot // .
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	KwPackage:     "package",
	KwPart:        "part",
	KwItem:        "item",
	KwAttribute:   "attribute",
	KwPort:        "port",
	KwAction:      "action",
	KwConnection:  "connection",
	KwInterface:   "interface",
	KwRequirement: "requirement",
	KwConstraint:  "constraint",
	KwState:       "state",
	KwCalc:        "calc",
	KwEnum:        "enum",
	KwDef:         "def",
	KwImport:      "import",
	KwAlias:       "alias",
	KwFor:         "for",
	KwPublic:      "public",
	KwPrivate:     "private",
	KwRef:         "ref",
	KwSpecializes: "specializes",
	KwSubsets:     "subsets",
	KwDoc:         "doc",
	IntLit:        "IntLit",
	StringLit:     "StringLit",
	ColonColon:    "'::'",
	ColonGt:       "':>'",
	Colon:         "':'",
	Semicolon:     "';'",
	Comma:         "','",
	Star:          "'*'",
	At:            "'@'",
	Eq:            "'='",
	LBrace:        "'{'",
	RBrace:        "'}'",
	LBracket:      "'['",
	RBracket:      "']'",
	LParen:        "'('",
	RParen:        "')'",
	Dot:           "'.'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
