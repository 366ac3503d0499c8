package sema

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/source"
	"syster/internal/symbols"
)

// declared is one name-introducing record of a scope, in source order.
type declared struct {
	name source.StringID
	span source.Span
}

// checkDuplicates reports every redeclaration of a name within one
// immediate scope, pointing back at the first declaration. Aliases
// share the namespace with declarations.
func (c *checker) checkDuplicates() {
	for id := 1; id < len(c.fs.Scopes); id++ {
		sc := &c.fs.Scopes[id]

		var records []declared
		for _, lids := range sc.Decls {
			for _, lid := range lids {
				if d := c.fs.Def(lid); d != nil {
					records = append(records, declared{name: d.Name, span: d.NameSpan})
				}
			}
		}
		for _, aid := range sc.Aliases {
			if a := c.fs.AliasAt(aid); a != nil {
				records = append(records, declared{name: a.Name, span: a.NameSpan})
			}
		}
		if len(records) < 2 {
			continue
		}
		slices.SortFunc(records, func(a, b declared) int {
			if a.span.Start != b.span.Start {
				if a.span.Start < b.span.Start {
					return -1
				}
				return 1
			}
			return 0
		})

		first := make(map[source.StringID]source.Span, len(records))
		for _, rec := range records {
			prev, seen := first[rec.name]
			if !seen {
				first[rec.name] = rec.span
				continue
			}
			c.bag.Add(diag.NewError(diag.SemaDuplicateDefinition, rec.span,
				fmt.Sprintf("'%s' is already declared in this scope", c.lookup(rec.name))).
				WithNote(prev, "first declared here"))
		}
	}
}

// checkNaming enforces the casing conventions: definitions and
// packages UpperCamelCase, usages lowerCamelCase.
func (c *checker) checkNaming() {
	for i := range c.fs.Defs {
		d := &c.fs.Defs[i]
		if d.Flags&symbols.DefFlagBuiltin != 0 {
			continue
		}
		name := c.lookup(d.Name)
		r, _ := utf8.DecodeRuneInString(name)
		if !unicode.IsLetter(r) {
			continue
		}

		if d.IsUsage() {
			if unicode.IsUpper(r) {
				c.bag.Add(diag.NewWarning(diag.SemaNamingConvention, d.NameSpan,
					fmt.Sprintf("%s name '%s' should be lowerCamelCase", d.Kind, name)))
			}
			continue
		}
		if unicode.IsLower(r) {
			kind := "definition"
			if d.Kind == ast.DefPackage {
				kind = "package"
			}
			c.bag.Add(diag.NewWarning(diag.SemaNamingConvention, d.NameSpan,
				fmt.Sprintf("%s name '%s' should be UpperCamelCase", kind, name)))
		}
	}
}

// checkUnused warns about private declarations nothing in the
// workspace resolves to. Usages are structure, not API surface, so
// they are exempt.
func (c *checker) checkUnused() {
	if c.refs == nil {
		return
	}
	for i := range c.fs.Defs {
		d := &c.fs.Defs[i]
		if d.Vis != ast.VisPrivate || d.IsUsage() || d.Flags&symbols.DefFlagBuiltin != 0 {
			continue
		}
		self := index.DefRef{File: c.fs.File, Local: d.LocalID}
		if c.refs.Referenced(self) {
			continue
		}
		c.bag.Add(diag.NewWarning(diag.SemaUnusedSymbol, d.NameSpan,
			fmt.Sprintf("'%s' is never referenced", c.lookup(d.QName))))
	}
}
