package ast_test

import (
	"testing"

	"syster/internal/ast"
	"syster/internal/source"
)

func TestArenaNullHandle(t *testing.T) {
	a := ast.NewArena[int](4)
	if a.Get(0) != nil {
		t.Error("index 0 must be the null handle")
	}
	id := a.Allocate(42)
	if id != 1 {
		t.Errorf("first Allocate = %d, want 1", id)
	}
	if got := a.Get(id); got == nil || *got != 42 {
		t.Errorf("Get(%d) = %v, want 42", id, got)
	}
	if a.Len() != 1 {
		t.Errorf("Len = %d, want 1", a.Len())
	}
}

func TestTreeAllocateAndUnwrap(t *testing.T) {
	names := source.NewInterner()
	tree := ast.NewTree(source.FileID(1), 0)

	typeRef := tree.NewRef(ast.Ref{
		Segments: []ast.NameSeg{{Name: names.Intern("Engine"), Span: source.Span{File: 1, Start: 20, End: 26}}},
		Span:     source.Span{File: 1, Start: 20, End: 26},
	})

	usageSpan := source.Span{File: 1, Start: 8, End: 27}
	mid, uid := tree.NewUsage(ast.Usage{
		UsageKind: ast.DefPart,
		Name:      ast.NameSeg{Name: names.Intern("engine"), Span: source.Span{File: 1, Start: 13, End: 19}},
		Type:      typeRef,
	}, usageSpan)

	m := tree.Member(mid)
	if m == nil || m.Kind != ast.MemberUsage {
		t.Fatalf("member = %+v, want usage", m)
	}
	if m.Span != usageSpan {
		t.Errorf("member span = %v, want %v", m.Span, usageSpan)
	}

	u, ok := tree.AsUsage(mid)
	if !ok || u != tree.Usage(uid) {
		t.Fatalf("AsUsage must unwrap to the allocated payload")
	}
	if u.Type != typeRef {
		t.Errorf("usage type = %v, want %v", u.Type, typeRef)
	}

	if _, ok := tree.AsDef(mid); ok {
		t.Error("AsDef must reject a usage member")
	}
}

func TestTreeRefOrder(t *testing.T) {
	names := source.NewInterner()
	tree := ast.NewTree(source.FileID(1), 0)

	first := tree.NewRef(ast.Ref{Segments: []ast.NameSeg{{Name: names.Intern("A")}}})
	second := tree.NewRef(ast.Ref{Segments: []ast.NameSeg{{Name: names.Intern("B")}}})

	if first != 1 || second != 2 {
		t.Errorf("RefIDs = %d, %d, want dense 1, 2", first, second)
	}
	if tree.RefCount() != 2 {
		t.Errorf("RefCount = %d, want 2", tree.RefCount())
	}
}

func TestRefRender(t *testing.T) {
	names := source.NewInterner()
	ref := ast.Ref{Segments: []ast.NameSeg{
		{Name: names.Intern("Vehicles")},
		{Name: names.Intern("Engine")},
	}}
	if got := ref.Render(names); got != "Vehicles::Engine" {
		t.Errorf("Render = %q, want %q", got, "Vehicles::Engine")
	}
	if !ref.IsQualified() {
		t.Error("two segments must report qualified")
	}
	if ref.Last().Name != names.Intern("Engine") {
		t.Error("Last must return the trailing segment")
	}
}

func TestDefKindStrings(t *testing.T) {
	cases := map[ast.DefKind]string{
		ast.DefPart:        "part",
		ast.DefAttribute:   "attribute",
		ast.DefRequirement: "requirement",
		ast.DefPackage:     "package",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
	if len(ast.DefKinds) != 12 {
		t.Errorf("DefKinds length = %d, want 12", len(ast.DefKinds))
	}
}

func TestVisibilityMod(t *testing.T) {
	var none ast.VisibilityMod
	if none.Explicit() {
		t.Error("zero value must not be explicit")
	}
	pub := ast.VisibilityMod{Vis: ast.VisPublic, Span: source.Span{Start: 0, End: 6}}
	if !pub.Explicit() || pub.Vis.String() != "public" {
		t.Errorf("public modifier misreported: %+v", pub)
	}
}
