// Package ast defines the syntax tree for SysML v2 and KerML files.
//
// Nodes live in per-kind arenas inside a Tree and reference each other by
// 1-based IDs (index 0 is the null handle). A Tree is immutable once the
// parser returns it; consumers share it without copying. Every name that
// requires resolution is a Ref with per-segment spans, allocated in parse
// order so RefIDs are deterministic for a given file content.
package ast
