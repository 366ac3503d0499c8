// Package diagfmt renders diagnostics for humans and for tools. The
// analysis core never serializes anything; every outward representation
// of a finding lives here.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto renders relative to the store's base directory when
	// the file is under it, and the interned path otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // дополнительные строки исходника над основной
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не исходного списка
	IncludeNotes     bool
	IncludeFixes     bool
}
