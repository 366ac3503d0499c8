package lexer

import (
	"syster/internal/diag"
	"syster/internal/token"
)

// scanNumber scans a run of decimal digits. The subset has no numeric
// expressions; the literal exists so multiplicities and stray numbers
// produce a clean token for recovery instead of per-digit errors.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: token.IntLit,
		Span: sp,
		Text: string(lx.text.Content[sp.Start:sp.End]),
	}
}

// scanString scans a double-quoted literal. A backslash escapes the next
// byte. Newlines and EOF inside the literal report an error and close it.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.text.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.text.Content[sp.Start:sp.End])}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.text.Content[sp.Start:sp.End])}
}
