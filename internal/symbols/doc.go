// Package symbols extracts per-file symbol information from syntax
// trees: declarations with document-order LocalIDs, imports, aliases,
// reference sites, and the lexical scope tree. The extract is the unit
// of incremental recomputation; everything downstream (index merging,
// resolution, checking) consumes it read-only.
package symbols
