package token

import (
	"syster/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case ColonColon, ColonGt, Colon, Semicolon, Comma, Star, At, Eq,
		LBrace, RBrace, LBracket, RBracket, LParen, RParen, Dot:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwPackage, KwPart, KwItem, KwAttribute, KwPort, KwAction,
		KwConnection, KwInterface, KwRequirement, KwConstraint, KwState,
		KwCalc, KwEnum, KwDef, KwImport, KwAlias, KwFor, KwPublic,
		KwPrivate, KwRef, KwSpecializes, KwSubsets, KwDoc:
		return true
	default:
		return false
	}
}

// IsDefKind reports whether the token names a definition kind
// ('part' in 'part def', and so on).
func (t Token) IsDefKind() bool {
	switch t.Kind {
	case KwPart, KwItem, KwAttribute, KwPort, KwAction, KwConnection,
		KwInterface, KwRequirement, KwConstraint, KwState, KwCalc, KwEnum:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// FirstBlockComment returns the text of the first block comment in the
// token's leading trivia, if any. Used for 'doc' bodies.
func (t Token) FirstBlockComment() (Trivia, bool) {
	for _, tv := range t.Leading {
		if tv.Kind == TriviaBlockComment {
			return tv, true
		}
	}
	return Trivia{}, false
}
