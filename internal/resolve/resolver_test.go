package resolve_test

import (
	"testing"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/parser"
	"syster/internal/resolve"
	"syster/internal/source"
	"syster/internal/symbols"
)

// workspace parses files through the full pipeline and keeps the
// merged index snapshot plus per-file results for the resolver.
type workspace struct {
	t     *testing.T
	st    *source.Store
	snap  *index.Snapshot
	files map[source.FileID]*fileData
}

type fileData struct {
	fs   *symbols.FileSymbols
	tree *ast.Tree
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	return &workspace{
		t:     t,
		st:    source.NewStore(),
		snap:  index.Empty(),
		files: make(map[source.FileID]*fileData),
	}
}

func (w *workspace) add(name, content string) source.FileID {
	w.t.Helper()
	id := w.analyze(name, content)
	w.snap = w.snap.WithFile(index.BuildContribution(w.files[id].fs))
	return id
}

// addIndexOnly merges a file into the index without registering its
// per-file results, imitating a file retired mid-flight.
func (w *workspace) addIndexOnly(name, content string) source.FileID {
	w.t.Helper()
	id := w.analyze(name, content)
	w.snap = w.snap.WithFile(index.BuildContribution(w.files[id].fs))
	delete(w.files, id)
	return id
}

func (w *workspace) analyze(name, content string) source.FileID {
	w.t.Helper()
	id := w.st.Intern(name)
	if _, err := w.st.Set(id, []byte(content), source.FileVirtual); err != nil {
		w.t.Fatalf("Set: %v", err)
	}
	w.st.MarkOpen(id, true)
	txt, err := w.st.Text(id)
	if err != nil {
		w.t.Fatalf("Text: %v", err)
	}
	bag := diag.NewBag(16)
	res := parser.ParseText(txt, w.st.Names(), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if res.Bag.HasErrors() {
		for _, d := range res.Bag.Items() {
			w.t.Logf("  %s %s: %s", d.Severity, d.Code.ID(), d.Message)
		}
		w.t.Fatalf("unexpected parse errors in %s", name)
	}
	w.files[id] = &fileData{fs: symbols.Extract(res.Tree, w.st.Names(), false), tree: res.Tree}
	return id
}

func (w *workspace) FileSymbols(f source.FileID) *symbols.FileSymbols {
	if fd := w.files[f]; fd != nil {
		return fd.fs
	}
	return nil
}

func (w *workspace) Tree(f source.FileID) *ast.Tree {
	if fd := w.files[f]; fd != nil {
		return fd.tree
	}
	return nil
}

func (w *workspace) resolver() *resolve.Resolver {
	return resolve.New(w.snap, w.st.Names(), w)
}

func (w *workspace) def(file source.FileID, qname string) *symbols.Def {
	w.t.Helper()
	fs := w.FileSymbols(file)
	if fs == nil {
		w.t.Fatalf("no symbols for file %d", file)
	}
	for i := range fs.Defs {
		if w.st.Names().MustLookup(fs.Defs[i].QName) == qname {
			return &fs.Defs[i]
		}
	}
	w.t.Fatalf("no declaration %q in file %d", qname, file)
	return nil
}

// resolveType resolves the typing reference of a usage declaration.
func (w *workspace) resolveType(file source.FileID, usageQName string) resolve.Outcome {
	w.t.Helper()
	d := w.def(file, usageQName)
	if !d.Type.IsValid() {
		w.t.Fatalf("%s has no typing reference", usageQName)
	}
	fd := w.files[file]
	return w.resolver().Resolve(fd.fs, fd.tree, d.Type)
}

func (w *workspace) qnameOf(e index.Entry) string {
	w.t.Helper()
	return w.st.Names().MustLookup(e.QName)
}

func (w *workspace) wantResolved(out resolve.Outcome, qname string) index.Entry {
	w.t.Helper()
	if out.Status != resolve.Resolved {
		w.t.Fatalf("status = %v, want resolved; candidates %+v", out.Status, out.Candidates)
	}
	e, _ := out.Entry()
	if got := w.qnameOf(e); got != qname {
		w.t.Fatalf("resolved to %q, want %q", got, qname)
	}
	return e
}

func TestResolveLocalDeclaration(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def Engine;
	part eng : Engine;
}`)

	out := w.resolveType(f, "P::eng")
	e := w.wantResolved(out, "P::Engine")
	if e.Def != w.defRef(f, "P::Engine") {
		t.Errorf("resolved identity = %+v", e.Def)
	}
	if out.Candidates[0].Rank != resolve.ProvDeclared {
		t.Errorf("rank = %v, want declared", out.Candidates[0].Rank)
	}
}

func (w *workspace) defRef(file source.FileID, qname string) index.DefRef {
	w.t.Helper()
	return index.DefRef{File: file, Local: w.def(file, qname).LocalID}
}

func TestInnerDeclarationShadowsOuter(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def E;
	part def Car {
		part def E;
		part e : E;
	}
}`)

	out := w.resolveType(f, "P::Car::e")
	w.wantResolved(out, "P::Car::E")
}

func TestQualifiedCrossFileResolution(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	part e : Lib::Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "Lib::Engine")
}

func TestNamedImportBindsLastSegment(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::Engine;
	part e : Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "Lib::Engine")
	if out.Candidates[0].Rank != resolve.ProvImported {
		t.Errorf("rank = %v, want imported", out.Candidates[0].Rank)
	}
}

func TestWildcardImport(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	part e : Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "Lib::Engine")
	if out.Candidates[0].Rank != resolve.ProvWildcard {
		t.Errorf("rank = %v, want wildcard", out.Candidates[0].Rank)
	}
}

func TestOwnDeclarationBeatsWildcardImport(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	part def Engine;
	part e : Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "App::Engine")
}

func TestCompetingWildcardsAreAmbiguous(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	w.add("other.sysml", `package Other {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	import Other::*;
	part e : Engine;
}`)

	out := w.resolveType(app, "App::e")
	if out.Status != resolve.Ambiguous {
		t.Fatalf("status = %v, want ambiguous", out.Status)
	}
	if len(out.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(out.Candidates))
	}
	if w.qnameOf(out.Candidates[0].Entry) != "Lib::Engine" {
		t.Errorf("candidates must come in identity order, got %q first",
			w.qnameOf(out.Candidates[0].Entry))
	}
}

func TestAliasIndirection(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	alias Motor for Lib::Engine;
	part m : Motor;
}`)

	out := w.resolveType(app, "App::m")
	w.wantResolved(out, "Lib::Engine")
	if out.Candidates[0].Rank != resolve.ProvImported {
		t.Errorf("rank = %v, want imported", out.Candidates[0].Rank)
	}
}

func TestAliasCycleResolvesToNothing(t *testing.T) {
	w := newWorkspace(t)
	app := w.add("app.sysml", `package App {
	alias A for B;
	alias B for A;
	part x : A;
}`)

	out := w.resolveType(app, "App::x")
	if out.Status != resolve.Unresolved {
		t.Errorf("status = %v, want unresolved", out.Status)
	}
}

func TestQualifiedThroughReExport(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	w.add("wrap.sysml", `package Wrap {
	public import Lib::*;
}`)
	app := w.add("app.sysml", `package App {
	part e : Wrap::Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "Lib::Engine")
}

func TestReExportsAreTransitive(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	w.add("inner.sysml", `package Inner {
	public import Lib::*;
}`)
	w.add("outer.sysml", `package Outer {
	public import Inner::*;
}`)
	app := w.add("app.sysml", `package App {
	part e : Outer::Engine;
}`)

	out := w.resolveType(app, "App::e")
	w.wantResolved(out, "Lib::Engine")
}

func TestReExportCycleTerminates(t *testing.T) {
	w := newWorkspace(t)
	w.add("a.sysml", `package A {
	public import B::*;
}`)
	w.add("b.sysml", `package B {
	public import A::*;
}`)
	app := w.add("app.sysml", `package App {
	part x : A::Missing;
}`)

	out := w.resolveType(app, "App::x")
	if out.Status != resolve.Unresolved {
		t.Errorf("status = %v, want unresolved", out.Status)
	}
	if out.FailedAt != 1 {
		t.Errorf("failing segment = %d, want 1", out.FailedAt)
	}
}

func TestPrivateMemberInvisibleFromOutside(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	private part def Secret;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	part a : Lib::Secret;
	part b : Secret;
}`)

	if out := w.resolveType(app, "App::a"); out.Status != resolve.Unresolved || out.FailedAt != 1 {
		t.Errorf("qualified access to a private member: %v at %d, want unresolved at 1",
			out.Status, out.FailedAt)
	}
	if out := w.resolveType(app, "App::b"); out.Status != resolve.Unresolved {
		t.Errorf("wildcard import of a private member: %v, want unresolved", out.Status)
	}
}

func TestPrivateMemberVisibleInOwnScope(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("lib.sysml", `package Lib {
	private part def Secret;
	part s : Secret;
}`)

	out := w.resolveType(f, "Lib::s")
	w.wantResolved(out, "Lib::Secret")
}

func TestInheritedMemberVisibleInSubtypeBody(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def Vehicle {
		part def Wheel;
	}
	part def Car :> Vehicle {
		part w : Wheel;
	}
}`)

	out := w.resolveType(f, "P::Car::w")
	w.wantResolved(out, "P::Vehicle::Wheel")
	if out.Candidates[0].Rank != resolve.ProvInherited {
		t.Errorf("rank = %v, want inherited", out.Candidates[0].Rank)
	}
}

func TestOwnMemberShadowsInherited(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def Vehicle {
		part def Wheel;
	}
	part def Car :> Vehicle {
		part def Wheel;
		part w : Wheel;
	}
}`)

	out := w.resolveType(f, "P::Car::w")
	w.wantResolved(out, "P::Car::Wheel")
}

func TestUnresolvedReportsFailingSegment(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	part a : Lib::Missing;
	part b : Nope::Thing;
}`)

	if out := w.resolveType(app, "App::a"); out.Status != resolve.Unresolved || out.FailedAt != 1 {
		t.Errorf("Lib::Missing: %v at %d, want unresolved at 1", out.Status, out.FailedAt)
	}
	if out := w.resolveType(app, "App::b"); out.Status != resolve.Unresolved || out.FailedAt != 0 {
		t.Errorf("Nope::Thing: %v at %d, want unresolved at 0", out.Status, out.FailedAt)
	}
}

func TestPackagesMergeAcrossFiles(t *testing.T) {
	w := newWorkspace(t)
	w.add("s1.sysml", `package Shared {
	part def A;
}`)
	w.add("s2.sysml", `package Shared {
	part def B;
}`)
	app := w.add("app.sysml", `package App {
	part a : Shared::A;
	part b : Shared::B;
}`)

	w.wantResolved(w.resolveType(app, "App::a"), "Shared::A")
	w.wantResolved(w.resolveType(app, "App::b"), "Shared::B")

	fs := w.FileSymbols(app)
	out := w.resolver().ResolveName(fs, fs.Root(), w.st.Names().Intern("Shared"))
	if out.Status != resolve.Resolved {
		t.Fatalf("the package name itself must merge, got %v with %d candidates",
			out.Status, len(out.Candidates))
	}
	if e, _ := out.Entry(); e.Kind != ast.DefPackage {
		t.Errorf("merged candidate kind = %v, want package", e.Kind)
	}
}

func TestDuplicateDefinitionsStayAmbiguous(t *testing.T) {
	w := newWorkspace(t)
	f1 := w.add("s1.sysml", `package Shared {
	part def Dup;
}`)
	w.add("s2.sysml", `package Shared {
	part def Dup;
}`)
	app := w.add("app.sysml", `package App {
	part d : Shared::Dup;
}`)

	out := w.resolveType(app, "App::d")
	if out.Status != resolve.Ambiguous || len(out.Candidates) != 2 {
		t.Fatalf("status = %v with %d candidates, want ambiguous with 2",
			out.Status, len(out.Candidates))
	}
	if out.Candidates[0].Entry.Def.File != f1 {
		t.Errorf("candidates must be in identity order")
	}
}

func TestSiblingPackageVisibleToImport(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package A {
	part def X;
}
package B {
	import A::X;
	part x : X;
}`)

	out := w.resolveType(f, "B::x")
	w.wantResolved(out, "A::X")
}

func TestRetiredFileIsADeadEnd(t *testing.T) {
	w := newWorkspace(t)
	w.addIndexOnly("gone.sysml", `package Gone {
	alias E for Missing::Engine;
}`)
	app := w.add("app.sysml", `package App {
	part e : Gone::E;
}`)

	out := w.resolveType(app, "App::e")
	if out.Status != resolve.Unresolved {
		t.Errorf("alias in a retired file must resolve to nothing, got %v", out.Status)
	}
}

func TestReachesImplicitRoot(t *testing.T) {
	w := newWorkspace(t)
	lib := w.add("parts.sysml", `package Parts {
	part def Part;
}`)
	app := w.add("app.sysml", `package App {
	part def Car;
}`)

	r := w.resolver()
	car := w.defRef(app, "App::Car")
	if !r.Reaches(car, "Parts::Part") {
		t.Errorf("a part definition must reach Parts::Part implicitly")
	}
	if r.Reaches(car, "Base::DataValue") {
		t.Errorf("a part definition must not reach an absent root")
	}
	root := w.defRef(lib, "Parts::Part")
	if !r.Reaches(root, "Parts::Part") {
		t.Errorf("the root must reach itself")
	}
}

// TestSpecificityPolicy pins the tie-break table: at one scope level,
// declared beats named imports and aliases, those beat wildcard
// imports, wildcards beat inherited names, and equals stay ambiguous.
func TestSpecificityPolicy(t *testing.T) {
	lib := `package Lib {
	part def Engine;
}`
	other := `package Other {
	part def Engine;
}`
	base := `package P {
	part def Machine {
		part def Engine;
	}
}`

	tests := []struct {
		name   string
		app    string
		usage  string
		status resolve.Status
		want   string
		rank   resolve.Provenance
	}{
		{
			name: "declared beats named import",
			app: `package App {
	import Lib::Engine;
	part def Engine;
	part e : Engine;
}`,
			usage:  "App::e",
			status: resolve.Resolved, want: "App::Engine", rank: resolve.ProvDeclared,
		},
		{
			name: "named import beats wildcard",
			app: `package App {
	import Lib::Engine;
	import Other::*;
	part e : Engine;
}`,
			usage:  "App::e",
			status: resolve.Resolved, want: "Lib::Engine", rank: resolve.ProvImported,
		},
		{
			name: "alias ties with named import",
			app: `package App {
	import Lib::Engine;
	alias Engine for Other::Engine;
	part e : Engine;
}`,
			usage:  "App::e",
			status: resolve.Ambiguous,
		},
		{
			name: "wildcard beats inherited",
			app: `package App {
	part def Car :> P::Machine {
		import Other::*;
		part e : Engine;
	}
}`,
			usage:  "App::Car::e",
			status: resolve.Resolved, want: "Other::Engine", rank: resolve.ProvWildcard,
		},
		{
			name: "inherited alone wins",
			app: `package App {
	part def Car :> P::Machine {
		part e : Engine;
	}
}`,
			usage:  "App::Car::e",
			status: resolve.Resolved, want: "P::Machine::Engine", rank: resolve.ProvInherited,
		},
		{
			name: "same route twice collapses",
			app: `package App {
	import Lib::*;
	import Lib::*;
	part e : Engine;
}`,
			usage:  "App::e",
			status: resolve.Resolved, want: "Lib::Engine", rank: resolve.ProvWildcard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(t)
			w.add("lib.sysml", lib)
			w.add("other.sysml", other)
			w.add("base.sysml", base)
			app := w.add("app.sysml", tt.app)

			out := w.resolveType(app, tt.usage)
			if out.Status != tt.status {
				t.Fatalf("status = %v, want %v; candidates %+v", out.Status, tt.status, out.Candidates)
			}
			if tt.status != resolve.Resolved {
				return
			}
			if got := w.qnameOf(out.Candidates[0].Entry); got != tt.want {
				t.Errorf("resolved to %q, want %q", got, tt.want)
			}
			if out.Candidates[0].Rank != tt.rank {
				t.Errorf("rank = %v, want %v", out.Candidates[0].Rank, tt.rank)
			}
		})
	}
}

func TestVisibleSurface(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
	private part def Secret;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	part def Own;
}`)

	fs := w.FileSymbols(app)
	appBody := w.def(app, "App").Body
	got := w.resolver().Visible(fs, appBody)

	ranks := make(map[string]resolve.Provenance, len(got))
	for _, c := range got {
		ranks[w.qnameOf(c.Entry)] = c.Rank
	}
	if r, ok := ranks["App::Own"]; !ok || r != resolve.ProvDeclared {
		t.Errorf("own declaration missing or misranked: %v %v", r, ok)
	}
	if r, ok := ranks["Lib::Engine"]; !ok || r != resolve.ProvWildcard {
		t.Errorf("wildcard import missing or misranked: %v %v", r, ok)
	}
	if r, ok := ranks["Lib"]; !ok || r != resolve.ProvDeclared {
		t.Errorf("root namespace package missing: %v %v", r, ok)
	}
	if _, ok := ranks["Lib::Secret"]; ok {
		t.Errorf("private members must not be visible outside their package")
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Rank > got[i].Rank {
			t.Fatalf("candidates must be ordered by rank")
		}
	}
}
