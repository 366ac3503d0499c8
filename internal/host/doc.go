// Package host assembles the analysis stack behind a single session
// object. A Host owns the text store and the memoization engine,
// registers the query graph (parse, symbols, index, resolution,
// checking), and answers the editor-facing questions: diagnostics,
// hover, definition, references, outline, completion, rename.
//
// Reads are safe from any goroutine; mutations go through the
// membership methods, which run under the engine's write barrier so
// every query result is consistent with exactly one revision of the
// workspace.
package host
