// Package sema is the per-file semantic checker.
//
// CheckFile resolves every reference site of a file against one index
// snapshot and reports undefined and ambiguous names, structural
// incompatibilities, duplicate declarations, and the warning passes
// (unused private symbols, deprecated targets, naming conventions).
// Diagnostics come out ordered and fully determined by the inputs; no
// pass aborts the others, and a broken file degrades only itself.
package sema
