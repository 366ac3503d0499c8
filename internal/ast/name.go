package ast

import (
	"strings"

	"syster/internal/source"
)

// NameSeg is one identifier with its exact source location.
type NameSeg struct {
	Name source.StringID
	Span source.Span
}

// Ref is a name-reference site: a possibly-qualified name that requires
// resolution. Segments always has at least one element for a well-formed
// ref; each segment keeps its own span so tools can target 'B' inside
// 'A::B::C'.
type Ref struct {
	Segments []NameSeg
	Span     source.Span
}

// IsQualified reports whether the ref has more than one segment.
func (r *Ref) IsQualified() bool { return len(r.Segments) > 1 }

// First returns the leading segment.
func (r *Ref) First() NameSeg {
	if len(r.Segments) == 0 {
		return NameSeg{}
	}
	return r.Segments[0]
}

// Last returns the trailing segment.
func (r *Ref) Last() NameSeg {
	if len(r.Segments) == 0 {
		return NameSeg{}
	}
	return r.Segments[len(r.Segments)-1]
}

// Render joins the segments with '::' using the provided interner.
func (r *Ref) Render(names *source.Interner) string {
	var b strings.Builder
	for i, seg := range r.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(names.MustLookup(seg.Name))
	}
	return b.String()
}
