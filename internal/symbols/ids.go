package symbols

// LocalID names a declaration within one file, by document-order
// ordinal. It is stable across edits that do not add, remove, or
// reorder declarations, which is what lets index deltas and resolutions
// survive unrelated edits.
type LocalID uint32

// NoLocalID is the null declaration.
const NoLocalID LocalID = 0

func (id LocalID) IsValid() bool { return id != NoLocalID }

// ScopeID names a lexical scope within one file's scope tree.
type ScopeID uint32

// NoScopeID is the null scope.
const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// ImportID indexes the file's import list, 1-based.
type ImportID uint32

// NoImportID is the null import.
const NoImportID ImportID = 0

func (id ImportID) IsValid() bool { return id != NoImportID }

// AliasID indexes the file's alias list, 1-based.
type AliasID uint32

// NoAliasID is the null alias.
const NoAliasID AliasID = 0

func (id AliasID) IsValid() bool { return id != NoAliasID }
