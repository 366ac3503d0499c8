package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"syster/internal/ast"
	"syster/internal/source"
)

// Extract walks a syntax tree and produces its FileSymbols. It is a
// pure function of the tree plus the builtin flag, so results memoize
// per (file, revision). Malformed members that parsing dropped simply
// do not appear.
func Extract(tree *ast.Tree, names *source.Interner, builtin bool) *FileSymbols {
	ex := &extractor{
		tree:         tree,
		names:        names,
		builtin:      builtin,
		deprecatedID: names.Intern("deprecated"),
		out: &FileSymbols{
			File:   tree.File,
			Scopes: make([]Scope, 1, 8),
		},
	}
	root := ex.newScope(NoScopeID, NoLocalID, tree.Span)
	for _, m := range tree.Members {
		ex.member(root, NoLocalID, "", m)
	}
	ex.indexSites()
	return ex.out
}

type extractor struct {
	tree         *ast.Tree
	names        *source.Interner
	out          *FileSymbols
	builtin      bool
	deprecatedID source.StringID
}

func (ex *extractor) member(scope ScopeID, owner LocalID, prefix string, id ast.MemberID) {
	m := ex.tree.Member(id)
	if m == nil {
		return
	}
	switch m.Kind {
	case ast.MemberPackage:
		if pkg, ok := ex.tree.AsPackage(id); ok {
			ex.packageDecl(scope, owner, prefix, pkg, m.Span)
		}
	case ast.MemberDef:
		if def, ok := ex.tree.AsDef(id); ok {
			ex.definition(scope, owner, prefix, def, m.Span)
		}
	case ast.MemberUsage:
		if u, ok := ex.tree.AsUsage(id); ok {
			ex.usage(scope, owner, prefix, u, m.Span)
		}
	case ast.MemberImport:
		if imp, ok := ex.tree.AsImport(id); ok {
			ex.importDecl(scope, owner, prefix, imp, m.Span)
		}
	case ast.MemberAlias:
		if al, ok := ex.tree.AsAlias(id); ok {
			ex.aliasDecl(scope, owner, prefix, al, m.Span)
		}
	case ast.MemberDoc:
		// Standalone docs carry no symbol.
	}
}

func (ex *extractor) packageDecl(scope ScopeID, owner LocalID, prefix string, pkg *ast.PackageDecl, span source.Span) {
	if pkg.Name.Name == source.NoStringID {
		return
	}
	qname, qstr := ex.qualify(prefix, pkg.Name.Name)
	local := ex.declare(scope, Def{
		Name:     pkg.Name.Name,
		QName:    qname,
		Kind:     ast.DefPackage,
		Vis:      pkg.Vis.Vis,
		Flags:    ex.flags(0, pkg.Annots),
		Doc:      ex.docText(pkg.Doc),
		NameSpan: pkg.Name.Span,
		Span:     span,
		Owner:    owner,
		Scope:    scope,
	})
	body := ex.newScope(scope, local, pkg.BodySpan)
	ex.out.Defs[local-1].Body = body
	for _, m := range pkg.Members {
		ex.member(body, local, qstr, m)
	}
}

func (ex *extractor) definition(scope ScopeID, owner LocalID, prefix string, def *ast.Definition, span source.Span) {
	if def.Name.Name == source.NoStringID {
		return
	}
	qname, qstr := ex.qualify(prefix, def.Name.Name)
	local := ex.declare(scope, Def{
		Name:        def.Name.Name,
		QName:       qname,
		Kind:        def.DefKind,
		Vis:         def.Vis.Vis,
		Flags:       ex.flags(0, def.Annots),
		Doc:         ex.docText(def.Doc),
		NameSpan:    def.Name.Span,
		Span:        span,
		Owner:       owner,
		Scope:       scope,
		Specializes: def.Specializes,
	})
	for _, r := range def.Specializes {
		ex.site(r, RefSpecializes, scope, local, def.DefKind)
	}
	if def.HasBody {
		body := ex.newScope(scope, local, def.BodySpan)
		ex.out.Defs[local-1].Body = body
		for _, m := range def.Members {
			ex.member(body, local, qstr, m)
		}
	}
}

func (ex *extractor) usage(scope ScopeID, owner LocalID, prefix string, u *ast.Usage, span source.Span) {
	if u.Name.Name == source.NoStringID {
		return
	}
	flags := ex.flags(DefFlagUsage, u.Annots)
	if u.IsRef {
		flags |= DefFlagRef
	}
	qname, qstr := ex.qualify(prefix, u.Name.Name)
	local := ex.declare(scope, Def{
		Name:     u.Name.Name,
		QName:    qname,
		Kind:     u.UsageKind,
		Vis:      u.Vis.Vis,
		Flags:    flags,
		Doc:      ex.docText(u.Doc),
		NameSpan: u.Name.Span,
		Span:     span,
		Owner:    owner,
		Scope:    scope,
		Type:     u.Type,
		Subsets:  u.Subsets,
	})
	// Typing and subsetting resolve in the scope the usage is written in,
	// not in its own body.
	if u.Type.IsValid() {
		ex.site(u.Type, RefTyping, scope, local, u.UsageKind)
	}
	for _, r := range u.Subsets {
		ex.site(r, RefSubsets, scope, local, u.UsageKind)
	}
	if u.HasBody {
		body := ex.newScope(scope, local, u.BodySpan)
		ex.out.Defs[local-1].Body = body
		for _, m := range u.Members {
			ex.member(body, local, qstr, m)
		}
	}
}

func (ex *extractor) importDecl(scope ScopeID, owner LocalID, prefix string, imp *ast.ImportDecl, span source.Span) {
	ref := ex.tree.Ref(imp.Target)
	if ref == nil || len(ref.Segments) == 0 {
		return
	}
	id, err := safecast.Conv[uint32](len(ex.out.Imports) + 1)
	if err != nil {
		panic(fmt.Errorf("import count overflow: %w", err))
	}
	ex.out.Imports = append(ex.out.Imports, Import{
		Target:   imp.Target,
		Path:     ex.names.Intern(ref.Render(ex.names)),
		Wildcard: imp.Wildcard,
		Vis:      imp.Vis.Vis,
		Scope:    scope,
		Owner:    ex.names.Intern(prefix),
		Span:     span,
	})
	sc := ex.out.Scope(scope)
	sc.Imports = append(sc.Imports, ImportID(id))
	ex.site(imp.Target, RefImport, scope, owner, ast.DefPackage)
}

func (ex *extractor) aliasDecl(scope ScopeID, owner LocalID, prefix string, al *ast.AliasDecl, span source.Span) {
	ref := ex.tree.Ref(al.Target)
	if al.Name.Name == source.NoStringID || ref == nil || len(ref.Segments) == 0 {
		return
	}
	id, err := safecast.Conv[uint32](len(ex.out.Aliases) + 1)
	if err != nil {
		panic(fmt.Errorf("alias count overflow: %w", err))
	}
	qname, _ := ex.qualify(prefix, al.Name.Name)
	ex.out.Aliases = append(ex.out.Aliases, Alias{
		Name:       al.Name.Name,
		NameSpan:   al.Name.Span,
		QName:      qname,
		Owner:      ex.names.Intern(prefix),
		Target:     al.Target,
		TargetPath: ex.names.Intern(ref.Render(ex.names)),
		Vis:        al.Vis.Vis,
		Scope:      scope,
		Span:       span,
	})
	sc := ex.out.Scope(scope)
	sc.Aliases = append(sc.Aliases, AliasID(id))
	ex.site(al.Target, RefAlias, scope, owner, ast.DefPackage)
}

func (ex *extractor) newScope(parent ScopeID, owner LocalID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(ex.out.Scopes))
	if err != nil {
		panic(fmt.Errorf("scope count overflow: %w", err))
	}
	id := ScopeID(value)
	ex.out.Scopes = append(ex.out.Scopes, Scope{
		Parent: parent,
		Owner:  owner,
		Span:   span,
		Decls:  make(map[source.StringID][]LocalID),
	})
	if p := ex.out.Scope(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

func (ex *extractor) declare(scope ScopeID, d Def) LocalID {
	value, err := safecast.Conv[uint32](len(ex.out.Defs) + 1)
	if err != nil {
		panic(fmt.Errorf("declaration count overflow: %w", err))
	}
	d.LocalID = LocalID(value)
	ex.out.Defs = append(ex.out.Defs, d)
	sc := ex.out.Scope(scope)
	sc.Decls[d.Name] = append(sc.Decls[d.Name], d.LocalID)
	return d.LocalID
}

func (ex *extractor) site(ref ast.RefID, kind RefKind, scope ScopeID, owner LocalID, context ast.DefKind) {
	if !ref.IsValid() {
		return
	}
	ex.out.Refs = append(ex.out.Refs, RefSite{
		Ref:     ref,
		Kind:    kind,
		Scope:   scope,
		Owner:   owner,
		Context: context,
	})
}

// qualify joins a name onto the enclosing qualified prefix and interns
// the result.
func (ex *extractor) qualify(prefix string, name source.StringID) (source.StringID, string) {
	simple := ex.names.MustLookup(name)
	if prefix == "" {
		return name, simple
	}
	qstr := prefix + "::" + simple
	return ex.names.Intern(qstr), qstr
}

func (ex *extractor) flags(base DefFlags, annots []ast.Annotation) DefFlags {
	if ex.builtin {
		base |= DefFlagBuiltin
	}
	for _, a := range annots {
		if len(a.Segments) == 1 && a.Segments[0].Name == ex.deprecatedID {
			base |= DefFlagDeprecated
		}
	}
	return base
}

func (ex *extractor) docText(id ast.DocID) string {
	if d := ex.tree.Doc(id); d != nil {
		return d.Body
	}
	return ""
}

// indexSites builds the RefID lookup once the walk is done.
func (ex *extractor) indexSites() {
	ex.out.siteOf = make([]uint32, ex.tree.RefCount()+1)
	for i := range ex.out.Refs {
		id := ex.out.Refs[i].Ref
		if int(id) < len(ex.out.siteOf) {
			ex.out.siteOf[id] = uint32(i) + 1 // #nosec G115 -- site count bounded by ref count
		}
	}
}
