package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"syster/internal/diag"
	"syster/internal/lexer"
	"syster/internal/source"
	"syster/internal/token"
)

// testReporter collects every diagnostic the lexer emits.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) ErrorCount() int {
	count := 0
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			count++
		}
	}
	return count
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

func makeTestLexer(t *testing.T, input string) (*lexer.Lexer, *testReporter) {
	t.Helper()
	st := source.NewStore()
	id := st.Intern("test.sysml")
	if _, err := st.Set(id, []byte(input), source.FileVirtual); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st.MarkOpen(id, true)
	txt, err := st.Text(id)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}

	reporter := &testReporter{}
	lx := lexer.New(txt, lexer.Options{Reporter: reporter})
	return lx, reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(t, input)
	tokens := collectAllTokens(lx)

	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)",
				i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(t, input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"Vehicle", token.Ident, "Vehicle"},
		{"_hidden", token.Ident, "_hidden"},
		{"engine2", token.Ident, "engine2"},
		{"camelCase", token.Ident, "camelCase"},
		{"UPPER", token.Ident, "UPPER"},
		{"Part", token.Ident, "Part"}, // capitalized keyword spelling stays an identifier
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestIdentifiers_Unicode(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"Fahrzeug", "Fahrzeug"},
		{"véhicule", "véhicule"},
		{"ранец", "ранец"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.Ident, tt.text)
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"package", token.KwPackage},
		{"part", token.KwPart},
		{"item", token.KwItem},
		{"attribute", token.KwAttribute},
		{"port", token.KwPort},
		{"action", token.KwAction},
		{"connection", token.KwConnection},
		{"interface", token.KwInterface},
		{"requirement", token.KwRequirement},
		{"constraint", token.KwConstraint},
		{"state", token.KwState},
		{"calc", token.KwCalc},
		{"enum", token.KwEnum},
		{"def", token.KwDef},
		{"import", token.KwImport},
		{"alias", token.KwAlias},
		{"for", token.KwFor},
		{"public", token.KwPublic},
		{"private", token.KwPrivate},
		{"ref", token.KwRef},
		{"specializes", token.KwSpecializes},
		{"subsets", token.KwSubsets},
		{"doc", token.KwDoc},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestPunctuation(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"::", token.ColonColon},
		{":>", token.ColonGt},
		{":", token.Colon},
		{";", token.Semicolon},
		{",", token.Comma},
		{"*", token.Star},
		{"@", token.At},
		{"=", token.Eq},
		{"{", token.LBrace},
		{"}", token.RBrace},
		{"[", token.LBracket},
		{"]", token.RBracket},
		{"(", token.LParen},
		{")", token.RParen},
		{".", token.Dot},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestGreedyColonSequences(t *testing.T) {
	// '::' and ':>' win over ':' when adjacent.
	expectTokens(t, "A::B", []token.Kind{token.Ident, token.ColonColon, token.Ident})
	expectTokens(t, "x:>y", []token.Kind{token.Ident, token.ColonGt, token.Ident})
	expectTokens(t, "x : T", []token.Kind{token.Ident, token.Colon, token.Ident})
	expectTokens(t, ":::", []token.Kind{token.ColonColon, token.Colon})
}

func TestPartDefDeclaration(t *testing.T) {
	expectTokens(t, "part def Vehicle { }", []token.Kind{
		token.KwPart, token.KwDef, token.Ident, token.LBrace, token.RBrace,
	})
}

func TestUsageDeclaration(t *testing.T) {
	expectTokens(t, "part engine : Engine;", []token.Kind{
		token.KwPart, token.Ident, token.Colon, token.Ident, token.Semicolon,
	})
}

func TestImportDeclarations(t *testing.T) {
	expectTokens(t, "import Vehicles::Engine;", []token.Kind{
		token.KwImport, token.Ident, token.ColonColon, token.Ident, token.Semicolon,
	})
	expectTokens(t, "public import Parts::*;", []token.Kind{
		token.KwPublic, token.KwImport, token.Ident, token.ColonColon, token.Star, token.Semicolon,
	})
}

func TestAliasDeclaration(t *testing.T) {
	expectTokens(t, "alias Car for Vehicle;", []token.Kind{
		token.KwAlias, token.Ident, token.KwFor, token.Ident, token.Semicolon,
	})
}

func TestMetadataAnnotation(t *testing.T) {
	expectTokens(t, "@deprecated part def Old;", []token.Kind{
		token.At, token.Ident, token.KwPart, token.KwDef, token.Ident, token.Semicolon,
	})
}

func TestSpecialization(t *testing.T) {
	expectTokens(t, "part def Car :> Vehicle;", []token.Kind{
		token.KwPart, token.KwDef, token.Ident, token.ColonGt, token.Ident, token.Semicolon,
	})
	expectTokens(t, "part def Car specializes Vehicle;", []token.Kind{
		token.KwPart, token.KwDef, token.Ident, token.KwSpecializes, token.Ident, token.Semicolon,
	})
}

func TestIntLiteral(t *testing.T) {
	expectTokens(t, "[4]", []token.Kind{token.LBracket, token.IntLit, token.RBracket})
	expectSingleToken(t, "042", token.IntLit, "042")
}

func TestStringLiteral(t *testing.T) {
	expectSingleToken(t, `"hello"`, token.StringLit, `"hello"`)
	expectSingleToken(t, `"a\"b"`, token.StringLit, `"a\"b"`)
}

func TestStringLiteral_Unterminated(t *testing.T) {
	lx, reporter := makeTestLexer(t, `"open`)
	tok := lx.Next()
	if tok.Kind != token.StringLit {
		t.Errorf("kind = %v, want StringLit", tok.Kind)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("errors = %d, want 1: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
	if reporter.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Errorf("code = %v, want LexUnterminatedString", reporter.diagnostics[0].Code)
	}
}

func TestStringLiteral_NewlineBreaks(t *testing.T) {
	lx, reporter := makeTestLexer(t, "\"ab\ncd\"")
	tok := lx.Next()
	if tok.Kind != token.StringLit || tok.Text != `"ab` {
		t.Errorf("got %v(%q), want StringLit(%q)", tok.Kind, tok.Text, `"ab`)
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("errors = %d, want 1", reporter.ErrorCount())
	}
	// Lexing resumes after the break.
	next := lx.Next()
	if next.Kind != token.Ident || next.Text != "cd" {
		t.Errorf("after recovery got %v(%q), want Ident(%q)", next.Kind, next.Text, "cd")
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, reporter := makeTestLexer(t, "part # def")
	kinds := []token.Kind{}
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []token.Kind{token.KwPart, token.Invalid, token.KwDef}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if reporter.ErrorCount() != 1 {
		t.Errorf("errors = %d, want 1: %v", reporter.ErrorCount(), reporter.ErrorMessages())
	}
	if reporter.diagnostics[0].Code != diag.LexUnknownChar {
		t.Errorf("code = %v, want LexUnknownChar", reporter.diagnostics[0].Code)
	}
}

func TestSpansMatchText(t *testing.T) {
	input := "package Demo { part def Vehicle; }"
	lx, _ := makeTestLexer(t, input)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		got := input[tok.Span.Start:tok.Span.End]
		if got != tok.Text {
			t.Errorf("span %v covers %q, token text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer(t, "part def")
	p := lx.Peek()
	n := lx.Next()
	if p.Kind != n.Kind || p.Span != n.Span {
		t.Errorf("Peek returned %v at %v, Next returned %v at %v", p.Kind, p.Span, n.Kind, n.Span)
	}
	if lx.Next().Kind != token.KwDef {
		t.Errorf("second Next should be KwDef")
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer(t, "")
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("call %d: kind = %v, want EOF", i, tok.Kind)
		}
	}
}
