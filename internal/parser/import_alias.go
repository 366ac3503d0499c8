package parser

import (
	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/token"
)

// parseImport recognizes
//
//	[public|private] import A ('::' B)* ['::' '*'] ';'
//
// The wildcard imports every visible member of the target namespace; a
// plain import brings in the named element only.
func (p *Parser) parseImport(prefix memberPrefix) (ast.MemberID, bool) {
	if len(prefix.annots) > 0 {
		p.errAt(diag.SynUnexpectedToken, prefix.annots[0].Span, "imports take no annotations")
	}
	kwTok := p.advance() // 'import'

	first, ok := p.parseIdentSeg(diag.SynExpectName, "imported name")
	if !ok {
		return ast.NoMemberID, false
	}
	segs := []ast.NameSeg{first}
	span := first.Span

	wildcard := false
	var starSpan = span
	for p.at(token.ColonColon) {
		p.advance() // '::'
		if p.at(token.Star) {
			starTok := p.advance()
			wildcard = true
			starSpan = starTok.Span
			break
		}
		seg, segOK := p.parseIdentSeg(diag.SynExpectSegment, "name segment or '*' after '::'")
		if !segOK {
			break
		}
		segs = append(segs, seg)
		span = span.Cover(seg.Span)
	}

	target := p.tree.NewRef(ast.Ref{Segments: segs, Span: span})

	end := span
	if wildcard {
		end = starSpan
	}
	if semi, semiOK := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import"); semiOK {
		end = semi.Span
	}

	decl := ast.ImportDecl{
		Vis:      prefix.vis,
		KwSpan:   kwTok.Span,
		Target:   target,
		Wildcard: wildcard,
		StarSpan: starSpan,
	}
	full := prefixedSpan(prefix, kwTok.Span).Cover(end)
	mid, _ := p.tree.NewImport(decl, full)
	return mid, true
}

// parseAlias recognizes 'alias' Ident 'for' Ref ';'.
func (p *Parser) parseAlias(prefix memberPrefix) (ast.MemberID, bool) {
	kwTok := p.advance() // 'alias'

	name, ok := p.parseIdentSeg(diag.SynExpectName, "alias name")
	if !ok {
		return ast.NoMemberID, false
	}

	forTok, ok := p.expect(token.KwFor, diag.SynExpectFor, "expected 'for' after the alias name")
	if !ok {
		return ast.NoMemberID, false
	}

	target, targetOK := p.parseRef(diag.SynExpectName, "alias target after 'for'")
	if target == ast.NoRefID {
		return ast.NoMemberID, false
	}

	end := p.tree.Ref(target).Span
	if targetOK {
		if semi, semiOK := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after alias"); semiOK {
			end = semi.Span
		}
	}

	decl := ast.AliasDecl{
		Vis:     prefix.vis,
		KwSpan:  kwTok.Span,
		Name:    name,
		ForSpan: forTok.Span,
		Target:  target,
	}
	full := prefixedSpan(prefix, kwTok.Span).Cover(end)
	mid, _ := p.tree.NewAlias(decl, full)
	return mid, true
}
