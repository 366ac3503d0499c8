package token_test

import (
	"testing"

	"syster/internal/source"
	"syster/internal/token"
)

func TestCommentBody(t *testing.T) {
	cases := []struct {
		name string
		tv   token.Trivia
		want string
	}{
		{
			name: "line comment",
			tv:   token.Trivia{Kind: token.TriviaLineComment, Text: "// hello"},
			want: " hello",
		},
		{
			name: "block comment",
			tv:   token.Trivia{Kind: token.TriviaBlockComment, Text: "/* body */"},
			want: " body ",
		},
		{
			name: "unterminated block keeps tail",
			tv:   token.Trivia{Kind: token.TriviaBlockComment, Text: "/* open"},
			want: " open",
		},
		{
			name: "space unchanged",
			tv:   token.Trivia{Kind: token.TriviaSpace, Text: "  "},
			want: "  ",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tv.CommentBody(); got != tc.want {
				t.Errorf("CommentBody() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFirstBlockComment(t *testing.T) {
	doc := token.Trivia{
		Kind: token.TriviaBlockComment,
		Span: source.Span{Start: 4, End: 16},
		Text: "/* vehicle */",
	}
	tok := token.Token{
		Kind: token.KwPart,
		Span: source.Span{Start: 20, End: 24},
		Text: "part",
		Leading: []token.Trivia{
			{Kind: token.TriviaNewline, Text: "\n"},
			doc,
			{Kind: token.TriviaSpace, Text: " "},
		},
	}

	got, ok := tok.FirstBlockComment()
	if !ok {
		t.Fatalf("expected a block comment in leading trivia")
	}
	if got.Text != doc.Text {
		t.Errorf("FirstBlockComment text = %q, want %q", got.Text, doc.Text)
	}

	bare := token.Token{Kind: token.RBrace}
	if _, ok := bare.FirstBlockComment(); ok {
		t.Errorf("token without trivia must not report a block comment")
	}
}
