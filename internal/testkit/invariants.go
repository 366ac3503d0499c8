// Package testkit holds structural invariant checks shared by tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"syster/internal/ast"
	"syster/internal/source"
)

// CheckTreeSpans runs the span invariants every parsed tree must hold:
// 1) every member span is non-empty, in-file and within content bounds
// 2) nested members lie inside their owner's span
// 3) declared name spans lie inside their declaration
// 4) reference segments lie inside their reference, in order
// Error-recovery nodes may carry a zero name span; those are skipped.
func CheckTreeSpans(tree *ast.Tree, content []byte) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	limit, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}

	for _, id := range tree.Members {
		outer := source.Span{File: tree.File, Start: 0, End: limit}
		if err := checkMember(tree, id, outer, limit); err != nil {
			return err
		}
	}

	for i, r := range tree.Refs() {
		if err := checkSpan(tree, r.Span, limit); err != nil {
			return fmt.Errorf("ref %d: %w", i, err)
		}
		prevEnd := r.Span.Start
		for j, seg := range r.Segments {
			if seg.Span.Start < r.Span.Start || seg.Span.End > r.Span.End {
				return fmt.Errorf("ref %d segment %d span %v outside ref span %v", i, j, seg.Span, r.Span)
			}
			if seg.Span.Start < prevEnd {
				return fmt.Errorf("ref %d segment %d overlaps the previous segment", i, j)
			}
			prevEnd = seg.Span.End
		}
	}
	return nil
}

func checkMember(tree *ast.Tree, id ast.MemberID, owner source.Span, limit uint32) error {
	m := tree.Member(id)
	if m == nil {
		return fmt.Errorf("member %d: missing node", id)
	}
	if err := checkSpan(tree, m.Span, limit); err != nil {
		return fmt.Errorf("member %d: %w", id, err)
	}
	if m.Span.Start < owner.Start || m.Span.End > owner.End {
		return fmt.Errorf("member %d span %v outside owner span %v", id, m.Span, owner)
	}

	var name ast.NameSeg
	var children []ast.MemberID
	switch m.Kind {
	case ast.MemberPackage:
		p, _ := tree.AsPackage(id)
		name, children = p.Name, p.Members
	case ast.MemberDef:
		d, _ := tree.AsDef(id)
		name, children = d.Name, d.Members
	case ast.MemberUsage:
		u, _ := tree.AsUsage(id)
		name, children = u.Name, u.Members
	case ast.MemberAlias:
		a, _ := tree.AsAlias(id)
		name = a.Name
	}
	if name.Span.End > name.Span.Start {
		if name.Span.Start < m.Span.Start || name.Span.End > m.Span.End {
			return fmt.Errorf("member %d name span %v outside member span %v", id, name.Span, m.Span)
		}
	}
	for _, child := range children {
		if err := checkMember(tree, child, m.Span, limit); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(tree *ast.Tree, sp source.Span, limit uint32) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span %v", sp)
	}
	if sp.File != tree.File {
		return fmt.Errorf("span %v names file %d, tree is for %d", sp, sp.File, tree.File)
	}
	if sp.End > limit {
		return fmt.Errorf("span %v beyond content length %d", sp, limit)
	}
	return nil
}
