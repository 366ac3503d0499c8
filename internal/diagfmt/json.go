package diagfmt

import (
	"encoding/json"
	"io"

	"syster/internal/diag"
	"syster/internal/source"
)

// LocationJSON описывает положение находки в исходнике.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Location *LocationJSON `json:"location,omitempty"`
	Message  string        `json:"message"`
}

type FixEditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits"`
}

// DiagnosticJSON повторяет diag.Diagnostic в сериализуемом виде.
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON streams diagnostics as a single DiagnosticsOutput document.
// Count reports the full set even when opts.Max trims the list.
func JSON(w io.Writer, ds []diag.Diagnostic, st *source.Store, opts JSONOpts) error {
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, len(ds)),
		Count:       len(ds),
	}
	emit := ds
	if opts.Max > 0 && len(emit) > opts.Max {
		emit = emit[:opts.Max]
	}
	for i := range emit {
		out.Diagnostics = append(out.Diagnostics, makeDiagnostic(&emit[i], st, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeDiagnostic(d *diag.Diagnostic, st *source.Store, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(st, d.Primary, opts),
	}
	if opts.IncludeNotes {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{
				Location: makeLocation(st, n.Span, opts),
				Message:  n.Msg,
			})
		}
	}
	if opts.IncludeFixes {
		for _, f := range d.Fixes {
			fix := FixJSON{Title: f.Title}
			for _, e := range f.Edits {
				loc := makeLocation(st, e.Span, opts)
				if loc == nil {
					continue
				}
				fix.Edits = append(fix.Edits, FixEditJSON{Location: *loc, NewText: e.NewText})
			}
			out.Fixes = append(out.Fixes, fix)
		}
	}
	return out
}

func makeLocation(st *source.Store, span source.Span, opts JSONOpts) *LocationJSON {
	if !span.File.IsValid() {
		return nil
	}
	loc := &LocationJSON{
		File:      formatPath(st, span.File, opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if opts.IncludePositions {
		start, end := st.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}
