package diag

import (
	"fmt"
)

// Code is a compact numeric identifier with a stable string form.
// Ranges: 1000s lexical, 2000s syntax, 3000s semantic, 4000s I/O,
// 5000s project/workspace.
type Code uint16

const (
	// UnknownCode is the fallback for uncategorized findings.
	UnknownCode Code = 0

	// Lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexUnterminatedString       Code = 1003

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectSemicolon    Code = 2003
	SynExpectLBrace       Code = 2004
	SynExpectRBrace       Code = 2005
	SynExpectName         Code = 2006
	SynExpectSegment      Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynExpectFor          Code = 2009
	SynExpectDocBody      Code = 2010

	// Semantic
	SemaInfo                 Code = 3000
	SemaUndefinedReference   Code = 3001
	SemaAmbiguousReference   Code = 3002
	SemaTypeMismatch         Code = 3003
	SemaDuplicateDefinition  Code = 3004
	SemaUnusedSymbol         Code = 3005
	SemaDeprecated           Code = 3006
	SemaNamingConvention     Code = 3007
	SemaSpecializationCycle  Code = 3008
	SemaInternalInconsistent Code = 3009

	// I/O
	IOLoadFileError Code = 4001

	// Project / workspace
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001
	ProjBadPattern      Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown finding",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexUnterminatedString:       "Unterminated string literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectLBrace:             "Expected '{'",
	SynExpectRBrace:             "Expected '}'",
	SynExpectName:               "Expected name",
	SynExpectSegment:            "Expected name segment after '::'",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	SynExpectFor:                "Expected 'for' in alias declaration",
	SynExpectDocBody:            "Expected comment body after 'doc'",
	SemaInfo:                    "Semantic information",
	SemaUndefinedReference:      "Undefined reference",
	SemaAmbiguousReference:      "Ambiguous reference",
	SemaTypeMismatch:            "Type mismatch",
	SemaDuplicateDefinition:     "Duplicate definition",
	SemaUnusedSymbol:            "Unused definition",
	SemaDeprecated:              "Deprecated element",
	SemaNamingConvention:        "Naming convention violation",
	SemaSpecializationCycle:     "Circular specialization",
	SemaInternalInconsistent:    "Internal analysis inconsistency",
	IOLoadFileError:             "Failed to load file",
	ProjInfo:                    "Project information",
	ProjInvalidManifest:         "Invalid workspace manifest",
	ProjBadPattern:              "Invalid file pattern",
}

// ID returns the stable user-facing identifier, e.g. "SEM3001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

// Title returns the short human description registered for the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
