package lexer

import (
	"syster/internal/source"
	"syster/internal/token"
)

// Lexer turns a text snapshot into a stream of tokens with leading trivia.
type Lexer struct {
	text   *source.Text
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia
}

// New creates a lexer over the given snapshot.
func New(txt *source.Text, opts Options) *Lexer {
	return &Lexer{
		text:   txt,
		cursor: NewCursor(txt),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next returns the next significant token with its leading trivia attached.
// After the end of input it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		// Trailing trivia stays on EOF so the parser can still reach
		// a doc comment at the very end of the file.
		tok := token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Text:    "",
			Leading: lx.hold,
		}
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.text.File, Start: lx.cursor.Off, End: lx.cursor.Off}
}
