package lexer

import (
	"syster/internal/diag"
	"syster/internal/token"
)

// scanPunct scans punctuation, longest sequence first ('::' and ':>'
// before ':').
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.text.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2(':', '>'):
		return emit(token.ColonGt)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '*':
		return emit(token.Star)
	case '@':
		return emit(token.At)
	case '=':
		return emit(token.Eq)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '.':
		return emit(token.Dot)
	default:
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.text.Content[sp.Start:sp.End])
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+quoteByte(ch))
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
}

func quoteByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return "'" + string(rune(b)) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string(hex[b>>4]) + string(hex[b&0xf])
}
