package parser

import (
	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/source"
	"syster/internal/token"
)

// parseSegments recognizes Ident ('::' Ident)* and returns the segments
// with the covering span. The caller decides whether the result becomes a
// reference site. A wildcard is never legal here; imports use their own
// loop.
func (p *Parser) parseSegments(code diag.Code, what string) ([]ast.NameSeg, source.Span, bool) {
	first, ok := p.parseIdentSeg(code, what)
	if !ok {
		return nil, source.Span{}, false
	}
	segs := []ast.NameSeg{first}
	span := first.Span

	for p.at(token.ColonColon) {
		p.advance() // '::'
		seg, segOK := p.parseIdentSeg(diag.SynExpectSegment, "name segment after '::'")
		if !segOK {
			// Keep the recognized prefix so resolution still has
			// something to work with.
			return segs, span, false
		}
		segs = append(segs, seg)
		span = span.Cover(seg.Span)
	}
	return segs, span, true
}

// parseRef recognizes a qualified name and allocates a reference site.
func (p *Parser) parseRef(code diag.Code, what string) (ast.RefID, bool) {
	segs, span, ok := p.parseSegments(code, what)
	if len(segs) == 0 {
		return ast.NoRefID, false
	}
	id := p.tree.NewRef(ast.Ref{Segments: segs, Span: span})
	return id, ok
}

// parseRefList recognizes Ref (',' Ref)*.
func (p *Parser) parseRefList(code diag.Code, what string) ([]ast.RefID, bool) {
	first, ok := p.parseRef(code, what)
	if first == ast.NoRefID {
		return nil, false
	}
	refs := []ast.RefID{first}
	if !ok {
		return refs, false
	}
	for p.at(token.Comma) {
		p.advance()
		ref, refOK := p.parseRef(code, what)
		if ref != ast.NoRefID {
			refs = append(refs, ref)
		}
		if !refOK {
			return refs, false
		}
	}
	return refs, true
}
