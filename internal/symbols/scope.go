package symbols

import (
	"syster/internal/ast"
	"syster/internal/source"
)

// Scope is one level of the file's namespace tree: the file root, a
// package body, or a declaration body.
type Scope struct {
	Parent ScopeID
	// Owner is the declaration that introduced the scope, NoLocalID for
	// the file root.
	Owner LocalID
	Span  source.Span
	// Decls maps simple names to own declarations at this level, in
	// document order per name.
	Decls    map[source.StringID][]LocalID
	Imports  []ImportID
	Aliases  []AliasID
	Children []ScopeID
}

// FileSymbols is everything the semantic layers need from one file:
// declarations, imports, aliases, reference sites, and the scope tree.
// It is a pure function of the file's syntax tree and immutable once
// built.
type FileSymbols struct {
	File    source.FileID
	Defs    []Def // document order; Defs[i].LocalID == i+1
	Imports []Import
	Aliases []Alias
	Refs    []RefSite
	Scopes  []Scope // index is ScopeID; slot 0 is the null scope

	siteOf []uint32 // ast.RefID -> index+1 into Refs
}

// Root returns the file root scope.
func (fs *FileSymbols) Root() ScopeID {
	if len(fs.Scopes) < 2 {
		return NoScopeID
	}
	return ScopeID(1)
}

// Scope returns the scope, or nil for an invalid ID.
func (fs *FileSymbols) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(fs.Scopes) {
		return nil
	}
	return &fs.Scopes[id]
}

// Def returns the declaration, or nil for an invalid ID.
func (fs *FileSymbols) Def(id LocalID) *Def {
	if !id.IsValid() || int(id) > len(fs.Defs) {
		return nil
	}
	return &fs.Defs[id-1]
}

// ImportAt returns the import, or nil for an invalid ID.
func (fs *FileSymbols) ImportAt(id ImportID) *Import {
	if !id.IsValid() || int(id) > len(fs.Imports) {
		return nil
	}
	return &fs.Imports[id-1]
}

// AliasAt returns the alias, or nil for an invalid ID.
func (fs *FileSymbols) AliasAt(id AliasID) *Alias {
	if !id.IsValid() || int(id) > len(fs.Aliases) {
		return nil
	}
	return &fs.Aliases[id-1]
}

// Site returns the reference site for a ref node, when the extractor
// recorded one for it.
func (fs *FileSymbols) Site(id ast.RefID) (*RefSite, bool) {
	if !id.IsValid() || int(id) >= len(fs.siteOf) {
		return nil, false
	}
	idx := fs.siteOf[id]
	if idx == 0 {
		return nil, false
	}
	return &fs.Refs[idx-1], true
}

// ScopeAt returns the innermost scope whose span contains the offset,
// falling back to the file root.
func (fs *FileSymbols) ScopeAt(off uint32) ScopeID {
	best := fs.Root()
	bestLen := ^uint32(0)
	for i := 1; i < len(fs.Scopes); i++ {
		sc := &fs.Scopes[i]
		if !sc.Span.Contains(off) {
			continue
		}
		if l := sc.Span.Len(); l < bestLen {
			best = ScopeID(i) // #nosec G115 -- scope count bounded by file size
			bestLen = l
		}
	}
	return best
}

// DefAt returns the declaration whose name span contains the offset.
func (fs *FileSymbols) DefAt(off uint32) LocalID {
	for i := range fs.Defs {
		if fs.Defs[i].NameSpan.Contains(off) {
			return fs.Defs[i].LocalID
		}
	}
	return NoLocalID
}

// OwnDecls returns the declarations for a simple name at one scope
// level, in document order.
func (fs *FileSymbols) OwnDecls(scope ScopeID, name source.StringID) []LocalID {
	sc := fs.Scope(scope)
	if sc == nil {
		return nil
	}
	return sc.Decls[name]
}
