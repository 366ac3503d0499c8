package diag

import (
	"syster/internal/source"
)

// Note is a secondary location adding context to a diagnostic
// ("previous declaration here", "candidate here").
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is one concrete text replacement of a fix.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix describes an automated correction a tool may offer.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is the central record every analysis phase produces.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
