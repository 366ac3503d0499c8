package symbols

import (
	"syster/internal/ast"
	"syster/internal/source"
)

// DefFlags encode misc attributes for quick checks.
type DefFlags uint8

const (
	// DefFlagUsage marks a declaration introduced by a usage rather than
	// a definition.
	DefFlagUsage DefFlags = 1 << iota
	// DefFlagRef marks a usage written with the 'ref' modifier.
	DefFlagRef
	// DefFlagDeprecated marks a declaration annotated '@deprecated'.
	DefFlagDeprecated
	// DefFlagBuiltin marks a declaration from the bundled standard library.
	DefFlagBuiltin
)

// Strings returns a slice of textual flag labels.
func (f DefFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&DefFlagUsage != 0 {
		labels = append(labels, "usage")
	}
	if f&DefFlagRef != 0 {
		labels = append(labels, "ref")
	}
	if f&DefFlagDeprecated != 0 {
		labels = append(labels, "deprecated")
	}
	if f&DefFlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	return labels
}

// Def is one named declaration: a package, a definition, or a usage.
// All three share one record so scope tables, the index, and completion
// speak a single vocabulary; DefFlagUsage separates the last group.
type Def struct {
	LocalID LocalID
	Name    source.StringID
	// QName is the fully qualified name from the file's root namespace,
	// segments joined with '::'.
	QName    source.StringID
	Kind     ast.DefKind
	Vis      ast.Visibility
	Flags    DefFlags
	Doc      string
	NameSpan source.Span
	Span     source.Span
	// Owner is the enclosing declaration, NoLocalID at the file root.
	Owner LocalID
	// Scope is the scope the declaration lives in; Body the scope its own
	// body introduces, NoScopeID when it has none.
	Scope ScopeID
	Body  ScopeID
	// Specializes lists a definition's explicit ':>' targets. Type and
	// Subsets carry a usage's typing and subsetting sites.
	Specializes []ast.RefID
	Type        ast.RefID
	Subsets     []ast.RefID
}

// Public reports effective visibility: declarations default to public.
func (d *Def) Public() bool { return d.Vis != ast.VisPrivate }

// Deprecated reports the '@deprecated' annotation.
func (d *Def) Deprecated() bool { return d.Flags&DefFlagDeprecated != 0 }

// IsUsage reports whether the declaration is a usage.
func (d *Def) IsUsage() bool { return d.Flags&DefFlagUsage != 0 }

// RefKind classifies what a reference site is used for, which decides
// the structural compatibility rule applied to its resolution.
type RefKind uint8

const (
	RefTyping      RefKind = iota // ': Type' on a usage
	RefSubsets                    // ':>' target on a usage
	RefSpecializes                // ':>' target on a definition
	RefImport                     // import target path
	RefAlias                      // alias target
)

func (k RefKind) String() string {
	switch k {
	case RefTyping:
		return "typing"
	case RefSubsets:
		return "subsets"
	case RefSpecializes:
		return "specializes"
	case RefImport:
		return "import"
	case RefAlias:
		return "alias"
	default:
		return "invalid"
	}
}

// RefSite is one qualified-name occurrence that requires resolution.
// The segments and spans live on the ast.Ref node; the site adds where
// it resolves from and what it is used as.
type RefSite struct {
	Ref   ast.RefID
	Kind  RefKind
	Scope ScopeID
	// Owner is the declaration the site belongs to, NoLocalID for
	// imports and aliases outside any declaration.
	Owner LocalID
	// Context is the owning declaration's kind. For typing and subsets it
	// selects the compatibility rule; for import and alias sites it is
	// DefPackage.
	Context ast.DefKind
}

// Import is one import declaration, resolved against its written scope.
type Import struct {
	// Target is the imported path without any wildcard segment; Path is
	// the same path joined with '::'.
	Target   ast.RefID
	Path     source.StringID
	Wildcard bool
	Vis      ast.Visibility
	Scope    ScopeID
	// Owner is the qualified name of the namespace the import is written
	// in, NoStringID at the file root.
	Owner source.StringID
	Span  source.Span
}

// Public reports effective visibility: imports default to private, so
// only an explicit 'public import' re-exports.
func (im *Import) Public() bool { return im.Vis == ast.VisPublic }

// Alias is one 'alias New for Old' declaration. The new name resolves
// transparently to the target's definition.
type Alias struct {
	Name     source.StringID
	NameSpan source.Span
	// QName is the alias's own qualified name; Owner the enclosing
	// namespace's; TargetPath the target as written, joined with '::'.
	QName      source.StringID
	Owner      source.StringID
	Target     ast.RefID
	TargetPath source.StringID
	Vis        ast.Visibility
	Scope      ScopeID
	Span       source.Span
}

// Public reports effective visibility: aliases default to public.
func (a *Alias) Public() bool { return a.Vis != ast.VisPrivate }
