package token

import "syster/internal/source"

// TriviaKind classifies non-semantic source fragments attached to tokens.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	}
	return "Trivia(?)"
}

// Trivia is a whitespace or comment fragment preceding a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// CommentBody strips the comment delimiters from a comment trivia and
// returns the inner text. Non-comment trivia is returned unchanged.
func (t Trivia) CommentBody() string {
	switch t.Kind {
	case TriviaLineComment:
		s := t.Text
		if len(s) >= 2 && s[0] == '/' && s[1] == '/' {
			return s[2:]
		}
		return s
	case TriviaBlockComment:
		s := t.Text
		if len(s) >= 2 && s[0] == '/' && s[1] == '*' {
			s = s[2:]
		}
		if len(s) >= 2 && s[len(s)-2] == '*' && s[len(s)-1] == '/' {
			s = s[:len(s)-2]
		}
		return s
	default:
		return t.Text
	}
}
