package parser

import (
	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/source"
	"syster/internal/token"
)

var kindForKeyword = map[token.Kind]ast.DefKind{
	token.KwPart:        ast.DefPart,
	token.KwItem:        ast.DefItem,
	token.KwAttribute:   ast.DefAttribute,
	token.KwPort:        ast.DefPort,
	token.KwAction:      ast.DefAction,
	token.KwConnection:  ast.DefConnection,
	token.KwInterface:   ast.DefInterface,
	token.KwRequirement: ast.DefRequirement,
	token.KwConstraint:  ast.DefConstraint,
	token.KwState:       ast.DefState,
	token.KwCalc:        ast.DefCalc,
	token.KwEnum:        ast.DefEnum,
}

// parseDefOrUsage dispatches on the token after the kind keyword:
// 'part def Name ...' is a definition, anything else is a usage.
func (p *Parser) parseDefOrUsage(prefix memberPrefix) (ast.MemberID, bool) {
	kindTok := p.advance() // the kind keyword
	kind := kindForKeyword[kindTok.Kind]

	if p.at(token.KwDef) {
		defTok := p.advance()
		return p.parseDefinition(prefix, kind, kindTok, defTok)
	}
	return p.parseUsage(prefix, kind, kindTok, false)
}

// parseUsageWithRef recognizes 'ref' <kind> Name ... .
func (p *Parser) parseUsageWithRef(prefix memberPrefix) (ast.MemberID, bool) {
	refTok := p.advance() // 'ref'
	if !p.lx.Peek().IsDefKind() {
		p.err(diag.SynUnexpectedToken, "expected a usage kind after 'ref', got "+describeToken(p.lx.Peek()))
		return ast.NoMemberID, false
	}
	kindTok := p.advance()
	kind := kindForKeyword[kindTok.Kind]
	// The usage span starts at 'ref'.
	kindTok.Span = refTok.Span.Cover(kindTok.Span)
	return p.parseUsage(prefix, kind, kindTok, true)
}

// parseDefinition recognizes
//
//	<kind> def Name [(':>' | 'specializes') Ref (',' Ref)*] (Body | ';')
func (p *Parser) parseDefinition(prefix memberPrefix, kind ast.DefKind, kindTok, defTok token.Token) (ast.MemberID, bool) {
	name, ok := p.parseIdentSeg(diag.SynExpectName, kind.String()+" def name")
	if !ok {
		return ast.NoMemberID, false
	}

	var specializes []ast.RefID
	if p.atOr(token.ColonGt, token.KwSpecializes) {
		p.advance()
		specializes, ok = p.parseRefList(diag.SynExpectName, "specialization target")
		if !ok {
			p.resyncMember()
		}
	}

	decl := ast.Definition{
		DefKind:     kind,
		Name:        name,
		KindSpan:    kindTok.Span,
		DefSpan:     defTok.Span,
		Specializes: specializes,
		Vis:         prefix.vis,
		Annots:      prefix.annots,
	}

	end := name.Span
	if p.at(token.LBrace) {
		members, doc, bodySpan, bodyOK := p.parseBody()
		if !bodyOK {
			return ast.NoMemberID, false
		}
		decl.Members = members
		decl.Doc = doc
		decl.HasBody = true
		decl.BodySpan = bodySpan
		end = bodySpan
	} else {
		semi, semiOK := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' or '{' after "+kind.String()+" def")
		if semiOK {
			end = semi.Span
		}
	}

	span := prefixedSpan(prefix, kindTok.Span).Cover(end)
	mid, _ := p.tree.NewDef(decl, span)
	return mid, true
}

// parseUsage recognizes
//
//	<kind> Name [':' Ref] [(':>' | 'subsets') Ref (',' Ref)*] (Body | ';')
func (p *Parser) parseUsage(prefix memberPrefix, kind ast.DefKind, kindTok token.Token, isRef bool) (ast.MemberID, bool) {
	name, ok := p.parseIdentSeg(diag.SynExpectName, kind.String()+" usage name")
	if !ok {
		return ast.NoMemberID, false
	}

	decl := ast.Usage{
		UsageKind: kind,
		IsRef:     isRef,
		Name:      name,
		KindSpan:  kindTok.Span,
		Vis:       prefix.vis,
		Annots:    prefix.annots,
	}

	if p.at(token.Colon) {
		p.advance()
		typeRef, typeOK := p.parseRef(diag.SynExpectName, "type name after ':'")
		decl.Type = typeRef
		if !typeOK {
			p.resyncMember()
		}
	}

	if p.atOr(token.ColonGt, token.KwSubsets) {
		p.advance()
		subsets, subOK := p.parseRefList(diag.SynExpectName, "subsetting target")
		decl.Subsets = subsets
		if !subOK {
			p.resyncMember()
		}
	}

	end := name.Span
	if p.at(token.LBrace) {
		members, doc, bodySpan, bodyOK := p.parseBody()
		if !bodyOK {
			return ast.NoMemberID, false
		}
		decl.Members = members
		decl.Doc = doc
		decl.HasBody = true
		decl.BodySpan = bodySpan
		end = bodySpan
	} else {
		semi, semiOK := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' or '{' after "+kind.String()+" usage")
		if semiOK {
			end = semi.Span
		}
	}

	span := prefixedSpan(prefix, kindTok.Span).Cover(end)
	mid, _ := p.tree.NewUsage(decl, span)
	return mid, true
}

// prefixedSpan extends a declaration span to cover its modifiers.
func prefixedSpan(prefix memberPrefix, start source.Span) source.Span {
	if len(prefix.annots) > 0 {
		start = prefix.annots[0].Span.Cover(start)
	}
	if prefix.vis.Explicit() {
		start = prefix.vis.Span.Cover(start)
	}
	return start
}
