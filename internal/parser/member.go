package parser

import (
	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/source"
	"syster/internal/token"
)

// memberPrefix carries the modifiers collected before a declaration.
type memberPrefix struct {
	vis    ast.VisibilityMod
	annots []ast.Annotation
}

// parseMember recognizes one member of a file, package, or body.
// topLevel softens the diagnostics for constructs only valid at the top.
func (p *Parser) parseMember(topLevel bool) (ast.MemberID, bool) {
	prefix, ok := p.parsePrefix()
	if !ok {
		return ast.NoMemberID, false
	}

	switch p.lx.Peek().Kind {
	case token.KwPackage:
		return p.parsePackage(prefix)
	case token.KwImport:
		return p.parseImport(prefix)
	case token.KwAlias:
		return p.parseAlias(prefix)
	case token.KwDoc:
		if prefix.vis.Explicit() || len(prefix.annots) > 0 {
			p.errAt(diag.SynUnexpectedToken, p.lx.Peek().Span, "'doc' takes no modifiers")
		}
		return p.parseDoc()
	case token.KwRef:
		return p.parseUsageWithRef(prefix)
	default:
		if p.lx.Peek().IsDefKind() {
			return p.parseDefOrUsage(prefix)
		}
	}

	if topLevel {
		p.err(diag.SynUnexpectedTopLevel, "expected a package or member declaration, got "+describeToken(p.lx.Peek()))
	} else {
		p.err(diag.SynUnexpectedToken, "expected a member declaration, got "+describeToken(p.lx.Peek()))
	}
	return ast.NoMemberID, false
}

// parsePrefix consumes leading '@Name' annotations and at most one
// visibility modifier, in any order.
func (p *Parser) parsePrefix() (memberPrefix, bool) {
	var prefix memberPrefix
	for {
		switch p.lx.Peek().Kind {
		case token.At:
			annot, ok := p.parseAnnotation()
			if !ok {
				return prefix, false
			}
			prefix.annots = append(prefix.annots, annot)
		case token.KwPublic, token.KwPrivate:
			tok := p.advance()
			if prefix.vis.Explicit() {
				p.errAt(diag.SynUnexpectedToken, tok.Span, "duplicate visibility modifier")
				continue
			}
			vis := ast.VisPublic
			if tok.Kind == token.KwPrivate {
				vis = ast.VisPrivate
			}
			prefix.vis = ast.VisibilityMod{Vis: vis, Span: tok.Span}
		default:
			return prefix, true
		}
	}
}

// parseAnnotation recognizes '@' Ident ('::' Ident)*.
func (p *Parser) parseAnnotation() (ast.Annotation, bool) {
	atTok := p.advance() // '@'
	segs, span, ok := p.parseSegments(diag.SynExpectIdentifier, "annotation name after '@'")
	if !ok {
		return ast.Annotation{}, false
	}
	return ast.Annotation{Segments: segs, Span: atTok.Span.Cover(span)}, true
}

// parseBody recognizes '{' member* '}' and returns the members, the body
// span, and the first doc member for attachment to the owner.
func (p *Parser) parseBody() ([]ast.MemberID, ast.DocID, source.Span, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open the body")
	if !ok {
		return nil, ast.NoDocID, source.Span{}, false
	}

	var members []ast.MemberID
	doc := ast.NoDocID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.lx.Peek().Span
		mid, memberOK := p.parseMember(false)
		if memberOK {
			members = append(members, mid)
			if doc == ast.NoDocID {
				if _, isDoc := p.tree.AsDoc(mid); isDoc {
					doc = ast.DocID(p.tree.Member(mid).Payload)
				}
			}
		} else {
			p.resyncMember()
		}
		if p.lx.Peek().Span == before && !p.at(token.EOF) && !memberOK {
			p.advance()
		}
	}

	closing, closed := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}' to close the body")
	bodySpan := open.Span
	if closed {
		bodySpan = open.Span.Cover(closing.Span)
	}
	return members, doc, bodySpan, true
}

// parseDoc recognizes 'doc' followed by a block comment. The comment
// travels as leading trivia of the next token, so the parser pulls it
// from there without consuming that token.
func (p *Parser) parseDoc() (ast.MemberID, bool) {
	kwTok := p.advance() // 'doc'

	next := p.lx.Peek()
	tv, found := next.FirstBlockComment()
	if !found {
		p.errAt(diag.SynExpectDocBody, kwTok.Span, "expected '/* ... */' body after 'doc'")
		return ast.NoMemberID, false
	}

	decl := ast.DocDecl{
		KwSpan:   kwTok.Span,
		Body:     tv.CommentBody(),
		BodySpan: tv.Span,
	}
	mid, _ := p.tree.NewDoc(decl, kwTok.Span.Cover(tv.Span))
	return mid, true
}
