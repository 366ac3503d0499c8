package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"syster/internal/source"
)

type goldenDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation suitable for golden files.
// Diagnostics in bundled standard-library files are dropped, the rest is
// sorted deterministically and returned as a single string (empty when
// nothing remains).
func FormatGoldenDiagnostics(diags []Diagnostic, st *source.Store, includeNotes bool) string {
	return formatDiagnostics(diags, st, includeNotes, true)
}

// FormatShortDiagnostics renders diagnostics for CLI short output.
// It keeps standard-library paths.
func FormatShortDiagnostics(diags []Diagnostic, st *source.Store, includeNotes bool) string {
	return formatDiagnostics(diags, st, includeNotes, false)
}

func formatDiagnostics(diags []Diagnostic, st *source.Store, includeNotes, skipBuiltin bool) string {
	if st == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendDiagnostic(rendered, &diags[i], st, includeNotes, skipBuiltin)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendDiagnostic(out []goldenDiagnostic, d *Diagnostic, st *source.Store, includeNotes, skipBuiltin bool) []goldenDiagnostic {
	loc, ok := resolveSpan(st, d.Primary)
	if ok && (!skipBuiltin || !st.IsBuiltin(d.Primary.File)) {
		out = append(out, goldenDiagnostic{
			Severity: severityLabel(d.Severity),
			Code:     d.Code.ID(),
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			nloc, nok := resolveSpan(st, note.Span)
			if !nok || (skipBuiltin && st.IsBuiltin(note.Span.File)) {
				continue
			}
			out = append(out, goldenDiagnostic{
				Severity: "note",
				Code:     d.Code.ID(),
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(st *source.Store, span source.Span) (resolvedSpan, bool) {
	path := st.PathOf(span.File)
	if path == "" {
		return resolvedSpan{}, false
	}
	start, _ := st.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(source.FormatPath(path, "relative", st.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
