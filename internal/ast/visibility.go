package ast

import "syster/internal/source"

// Visibility describes member accessibility outside its owning namespace.
type Visibility uint8

const (
	// VisDefault means no explicit modifier was written. Declarations
	// default to public; imports default to private.
	VisDefault Visibility = iota
	VisPublic
	VisPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisPrivate:
		return "private"
	default:
		return ""
	}
}

// VisibilityMod is an explicit modifier with its location, or the zero
// value when absent.
type VisibilityMod struct {
	Vis  Visibility
	Span source.Span
}

// Explicit reports whether a modifier was written in source.
func (m VisibilityMod) Explicit() bool { return m.Vis != VisDefault }
