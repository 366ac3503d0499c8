package sema

import (
	"fmt"
	"strings"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
)

// checkReferences resolves every reference site and reports undefined
// and ambiguous names, retired targets, and uses of deprecated
// declarations.
func (c *checker) checkReferences() {
	for i := range c.fs.Refs {
		site := &c.fs.Refs[i]
		ref := c.tree.Ref(site.Ref)
		if ref == nil || len(ref.Segments) == 0 {
			continue
		}

		out := c.outcomeOf(site.Ref)
		switch out.Status {
		case resolve.Unresolved:
			c.reportUndefined(ref, out)
		case resolve.Ambiguous:
			c.reportAmbiguous(ref, out)
		case resolve.Resolved:
			entry := out.Candidates[0].Entry
			if c.src != nil && c.src.FileSymbols(entry.Def.File) == nil {
				c.bag.Add(diag.NewError(diag.SemaInternalInconsistent, ref.Span,
					fmt.Sprintf("'%s' resolved to a declaration that is no longer in the workspace", ref.Render(c.names))))
				continue
			}
			if entry.Flags&symbols.DefFlagDeprecated != 0 {
				d := diag.NewWarning(diag.SemaDeprecated, ref.Span,
					fmt.Sprintf("'%s' is deprecated", c.lookup(entry.QName)))
				if sp, ok := c.declSpan(entry.Def); ok {
					d = d.WithNote(sp, "marked '@deprecated' here")
				}
				c.bag.Add(d)
			}
		}
	}
}

func (c *checker) reportUndefined(ref *ast.Ref, out resolve.Outcome) {
	at := out.FailedAt
	if at >= len(ref.Segments) {
		at = len(ref.Segments) - 1
	}
	seg := ref.Segments[at]

	var msg string
	if at == 0 {
		msg = fmt.Sprintf("undefined reference '%s'", c.lookup(seg.Name))
	} else {
		prefix := make([]string, at)
		for i := 0; i < at; i++ {
			prefix[i] = c.lookup(ref.Segments[i].Name)
		}
		msg = fmt.Sprintf("'%s' is not a member of '%s'",
			c.lookup(seg.Name), strings.Join(prefix, "::"))
	}
	c.bag.Add(diag.NewError(diag.SemaUndefinedReference, seg.Span, msg))
}

func (c *checker) reportAmbiguous(ref *ast.Ref, out resolve.Outcome) {
	d := diag.NewError(diag.SemaAmbiguousReference, ref.Span,
		fmt.Sprintf("ambiguous reference '%s'", ref.Render(c.names)))
	for _, cand := range out.Candidates {
		sp, ok := c.declSpan(cand.Entry.Def)
		if !ok {
			sp = source.Span{}
		}
		d = d.WithNote(sp, fmt.Sprintf("candidate '%s' declared here", c.lookup(cand.Entry.QName)))
	}
	c.bag.Add(d)
}
