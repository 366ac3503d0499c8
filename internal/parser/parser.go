package parser

import (
	"slices"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/lexer"
	"syster/internal/source"
	"syster/internal/token"
)

// Options configures a single parse.
type Options struct {
	// MaxErrors caps reported errors; zero means unlimited. Parsing always
	// continues to EOF so the tree covers the whole file.
	MaxErrors     uint
	currentErrors uint
	Reporter      diag.Reporter
}

func (o *Options) enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.currentErrors >= o.MaxErrors
}

// Result is the outcome of parsing one file. Tree is never nil; on errors
// it holds whatever was recognized before and after recovery.
type Result struct {
	Tree *ast.Tree
	Bag  *diag.Bag
}

// Parser holds the state for parsing one file.
type Parser struct {
	lx       *lexer.Lexer
	tree     *ast.Tree
	names    *source.Interner
	opts     Options
	lastSpan source.Span // span of the last consumed token, for diagnostics at EOF
}

// ParseText parses one snapshot into a Tree. The same content and interner
// always produce the same tree and the same diagnostics in the same order.
func ParseText(txt *source.Text, names *source.Interner, opts Options) Result {
	lx := lexer.New(txt, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		lx:    lx,
		tree:  ast.NewTree(txt.File, uint(len(txt.Content)/32)),
		names: names,
		opts:  opts,
	}

	p.parseFile()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{Tree: p.tree, Bag: bag}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// advance consumes the next token and remembers its span.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan picks the best span for a diagnostic at the current position.
// At EOF the caret lands just past the last consumed token.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code and stays put.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		if p.opts.enough() {
			p.opts.currentErrors++
			return
		}
		p.opts.currentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
}

// parseFile is the top-level loop: members until EOF.
func (p *Parser) parseFile() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		before := p.lx.Peek().Span
		mid, ok := p.parseMember(true)
		if ok {
			p.tree.Members = append(p.tree.Members, mid)
			if p.tree.FileDoc == ast.NoDocID {
				if _, isDoc := p.tree.AsDoc(mid); isDoc {
					p.tree.FileDoc = ast.DocID(p.tree.Member(mid).Payload)
				}
			}
		} else {
			p.resyncMember()
		}
		// A recognizer that consumed nothing would loop forever.
		if p.lx.Peek().Span == before && p.lx.Peek().Kind != token.EOF && !ok {
			p.advance()
		}
	}
	p.tree.Span = startSpan.Cover(p.lx.Peek().Span)
}

// memberStarters are the tokens that can begin a member declaration.
var memberStarters = []token.Kind{
	token.KwPackage, token.KwPart, token.KwItem, token.KwAttribute,
	token.KwPort, token.KwAction, token.KwConnection, token.KwInterface,
	token.KwRequirement, token.KwConstraint, token.KwState, token.KwCalc,
	token.KwEnum, token.KwImport, token.KwAlias, token.KwDoc, token.KwRef,
	token.KwPublic, token.KwPrivate, token.At,
}

func atMemberStarter(k token.Kind) bool {
	return slices.Contains(memberStarters, k)
}

// resyncMember skips to the next plausible member boundary: a ';' (which
// is consumed), a member starter, '}' or EOF.
func (p *Parser) resyncMember() {
	for {
		k := p.lx.Peek().Kind
		if k == token.EOF || k == token.RBrace || atMemberStarter(k) {
			return
		}
		if k == token.Semicolon {
			p.advance()
			return
		}
		p.advance()
	}
}

// parseIdentSeg expects an identifier and interns it with its span.
func (p *Parser) parseIdentSeg(code diag.Code, what string) (ast.NameSeg, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.NameSeg{Name: p.names.Intern(tok.Text), Span: tok.Span}, true
	}
	p.err(code, "expected "+what+", got "+describeToken(p.lx.Peek()))
	return ast.NameSeg{}, false
}

func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.StringLit, token.Invalid:
		return "'" + tok.Text + "'"
	default:
		if tok.IsKeyword() {
			return "keyword '" + tok.Text + "'"
		}
		return tok.Kind.String()
	}
}
