package parser

import (
	"syster/internal/ast"
	"syster/internal/diag"
)

// parsePackage recognizes 'package' Ident '{' member* '}'.
func (p *Parser) parsePackage(prefix memberPrefix) (ast.MemberID, bool) {
	kwTok := p.advance() // 'package'

	name, ok := p.parseIdentSeg(diag.SynExpectName, "package name")
	if !ok {
		return ast.NoMemberID, false
	}

	members, doc, bodySpan, ok := p.parseBody()
	if !ok {
		return ast.NoMemberID, false
	}

	span := kwTok.Span.Cover(bodySpan)
	decl := ast.PackageDecl{
		Name:     name,
		KwSpan:   kwTok.Span,
		BodySpan: bodySpan,
		Members:  members,
		Doc:      doc,
		Vis:      prefix.vis,
		Annots:   prefix.annots,
	}
	mid, _ := p.tree.NewPackage(decl, span)
	return mid, true
}
