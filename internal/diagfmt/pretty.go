package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"syster/internal/diag"
	"syster/internal/source"
)

const tabWidth = 4

type palette struct {
	err  *color.Color
	warn *color.Color
	info *color.Color
	code *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		code: color.New(color.Bold),
	}
	if !enabled {
		for _, c := range []*color.Color{p.err, p.warn, p.info, p.code} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for humans, one block per finding:
//
//	<path>:<line>:<col>: <SEV> [<ID>]: <message>
//	   3 | 	part x : Missing;
//	     | 	         ^~~~~~~
//	  <path>:<line>:<col>: note: <message>
//
// The caller decides the order; Pretty prints the slice as given.
func Pretty(w io.Writer, ds []diag.Diagnostic, st *source.Store, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range ds {
		prettyOne(w, &ds[i], st, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, st *source.Store, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		spanHead(st, d.Primary, opts.PathMode),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprintf("[%s]", d.Code.ID()),
		d.Message)

	if d.Primary.File.IsValid() {
		writeSnippet(w, d.Primary, st, opts, p.severity(d.Severity))
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s: note: %s\n", spanHead(st, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  help: %s\n", f.Title)
		}
	}
}

// spanHead renders the location prefix of a finding. Span-less
// diagnostics (manifest problems, I/O failures) get the tool marker
// instead of a fake position.
func spanHead(st *source.Store, span source.Span, mode PathMode) string {
	if !span.File.IsValid() {
		return "syster"
	}
	start, _ := st.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(st, span.File, mode), start.Line, start.Col)
}

func writeSnippet(w io.Writer, span source.Span, st *source.Store, opts PrettyOpts, sev *color.Color) {
	txt, err := st.Text(span.File)
	if err != nil {
		return
	}
	start, _ := st.Resolve(span)

	context := uint32(0)
	if opts.Context > 0 {
		context = uint32(opts.Context)
	}
	from := uint32(1)
	if start.Line > context {
		from = start.Line - context
	}
	for line := from; line <= start.Line; line++ {
		fmt.Fprintf(w, "  %4d | %s\n", line, expandTabs(lineText(txt, line)))
	}

	raw := lineText(txt, start.Line)
	lineStart, _ := lineBounds(txt, start.Line)
	prefix := int(span.Start) - int(lineStart)
	if prefix < 0 || prefix > len(raw) {
		prefix = 0
	}
	end := min(int(span.End)-int(lineStart), len(raw))
	width := 1
	if end > prefix {
		width = max(runewidth.StringWidth(expandTabs(raw[prefix:end])), 1)
	}
	pad := runewidth.StringWidth(expandTabs(raw[:prefix]))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "       | %s%s\n", strings.Repeat(" ", pad), sev.Sprint(underline))
}

// lineBounds returns the [start, end) byte range of a 1-based line,
// excluding the newline.
func lineBounds(txt *source.Text, line uint32) (uint32, uint32) {
	var start uint32
	if line > 1 {
		if int(line)-2 >= len(txt.LineIdx) {
			return uint32(len(txt.Content)), uint32(len(txt.Content))
		}
		start = txt.LineIdx[line-2] + 1
	}
	end := uint32(len(txt.Content))
	if int(line)-1 < len(txt.LineIdx) {
		end = txt.LineIdx[line-1]
	}
	if start > end {
		start = end
	}
	return start, end
}

func lineText(txt *source.Text, line uint32) string {
	start, end := lineBounds(txt, line)
	return string(txt.Content[start:end])
}

// expandTabs keeps caret alignment independent of the reader's tab
// rendering; the padding math runs over the expanded text.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
