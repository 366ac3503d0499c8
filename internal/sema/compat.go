package sema

import (
	"fmt"
	"slices"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/resolve"
	"syster/internal/symbols"
)

// typingRoots lists the supertypes a typing context accepts. A usage
// kind absent from the table is not root-checked.
var typingRoots = map[ast.DefKind][]string{
	ast.DefAttribute: {"Base::DataValue"},
	ast.DefPart:      {"Parts::Part", "Items::Item"},
	ast.DefItem:      {"Items::Item"},
	ast.DefPort:      {"Ports::Port"},
	ast.DefAction:    {"Actions::Action"},
}

// checkCompatibility validates that every resolved reference fits the
// structure it is used in: typing targets must reach the context's
// root supertype, specializations stay within one definition kind and
// acyclic, and subsetting points at a usage of the same kind.
func (c *checker) checkCompatibility() {
	for i := range c.fs.Refs {
		site := &c.fs.Refs[i]
		out := c.outcomeOf(site.Ref)
		if out.Status != resolve.Resolved {
			continue
		}
		entry := out.Candidates[0].Entry
		ref := c.tree.Ref(site.Ref)
		if ref == nil {
			continue
		}

		switch site.Kind {
		case symbols.RefTyping:
			c.checkTyping(site, ref, entry)
		case symbols.RefSpecializes:
			c.checkSpecializes(site, ref, entry)
		case symbols.RefSubsets:
			c.checkSubsets(site, ref, entry)
		}
	}
}

func (c *checker) checkTyping(site *symbols.RefSite, ref *ast.Ref, entry index.Entry) {
	if entry.Kind == ast.DefPackage {
		c.mismatch(ref, entry, fmt.Sprintf("'%s' is a package and cannot serve as a type",
			c.lookup(entry.QName)))
		return
	}
	if entry.Flags&symbols.DefFlagUsage != 0 {
		c.mismatch(ref, entry, fmt.Sprintf("'%s' is a usage and cannot serve as a type",
			c.lookup(entry.QName)))
		return
	}

	roots := typingRoots[site.Context]
	if len(roots) == 0 {
		return
	}
	known := false
	for _, root := range roots {
		if !c.rootKnown(root) {
			continue
		}
		known = true
		if c.res.Reaches(entry.Def, root) {
			return
		}
	}
	// Without the root namespaces loaded there is nothing to judge
	// against.
	if !known {
		return
	}
	c.mismatch(ref, entry, fmt.Sprintf("'%s' does not specialize %s, required for %s typing",
		c.lookup(entry.QName), quoteList(roots), site.Context))
}

func (c *checker) checkSpecializes(site *symbols.RefSite, ref *ast.Ref, entry index.Entry) {
	if entry.Flags&symbols.DefFlagUsage != 0 || entry.Kind == ast.DefPackage {
		c.mismatch(ref, entry, fmt.Sprintf("specialization target '%s' is not a definition",
			c.lookup(entry.QName)))
		return
	}
	if entry.Kind != site.Context {
		c.mismatch(ref, entry, fmt.Sprintf("specialization target '%s' is a %s definition, expected %s",
			c.lookup(entry.QName), entry.Kind, site.Context))
		return
	}

	owner := c.fs.Def(site.Owner)
	if owner == nil {
		return
	}
	self := index.DefRef{File: c.fs.File, Local: owner.LocalID}
	if entry.Def == self || slices.Contains(c.res.Chain(entry.Def), self) {
		c.bag.Add(diag.NewError(diag.SemaSpecializationCycle, ref.Span,
			fmt.Sprintf("specialization cycle through '%s'", c.lookup(entry.QName))))
	}
}

func (c *checker) checkSubsets(site *symbols.RefSite, ref *ast.Ref, entry index.Entry) {
	if entry.Flags&symbols.DefFlagUsage == 0 {
		c.mismatch(ref, entry, fmt.Sprintf("subsetting target '%s' must be a usage",
			c.lookup(entry.QName)))
		return
	}
	if entry.Kind != site.Context {
		c.mismatch(ref, entry, fmt.Sprintf("subsetting target '%s' is a %s usage, expected %s",
			c.lookup(entry.QName), entry.Kind, site.Context))
	}
}

func (c *checker) mismatch(ref *ast.Ref, entry index.Entry, msg string) {
	d := diag.NewError(diag.SemaTypeMismatch, ref.Span, msg)
	if sp, ok := c.declSpan(entry.Def); ok {
		d = d.WithNote(sp, "declared here")
	}
	c.bag.Add(d)
}

func (c *checker) rootKnown(qname string) bool {
	if c.snap == nil {
		return false
	}
	return len(c.snap.Name(c.names.Intern(qname)).Defs) > 0
}

func quoteList(names []string) string {
	if len(names) == 1 {
		return "'" + names[0] + "'"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	out := ""
	for i, q := range quoted {
		switch {
		case i == 0:
			out = q
		case i == len(quoted)-1:
			out += " or " + q
		default:
			out += ", " + q
		}
	}
	return out
}
