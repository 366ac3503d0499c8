package sema_test

import (
	"strings"
	"testing"

	"syster/internal/ast"
	"syster/internal/diag"
	"syster/internal/index"
	"syster/internal/parser"
	"syster/internal/resolve"
	"syster/internal/sema"
	"syster/internal/source"
	"syster/internal/symbols"
)

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
	w.snap = w.snap.WithFile(index.BuildContribution(w.files[id].fs))
	return id
}

func (w *workspace) addIndexOnly(name, content string) source.FileID {
	w.t.Helper()
	id := w.add(name, content)
	delete(w.files, id)
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

// refTable resolves every site of every file up front, standing in for
// the host's reverse-reference query.
type refTable struct {
	targets map[index.DefRef]int
}

func (w *workspace) refTable() *refTable {
	w.t.Helper()
	rt := &refTable{targets: make(map[index.DefRef]int)}
	for _, fd := range w.files {
		r := resolve.New(w.snap, w.st.Names(), w)
		for i := range fd.fs.Refs {
			out := r.Resolve(fd.fs, fd.tree, fd.fs.Refs[i].Ref)
			if target := out.Target(); target.IsValid() {
				rt.targets[target]++
			}
		}
	}
	return rt
}

func (rt *refTable) Referenced(def index.DefRef) bool { return rt.targets[def] > 0 }

func (w *workspace) check(f source.FileID) []diag.Diagnostic {
	w.t.Helper()
	fd := w.files[f]
	if fd == nil {
		w.t.Fatalf("file %d not analyzed", f)
	}
	return sema.CheckFile(fd.fs, fd.tree, sema.Options{
		Resolver: resolve.New(w.snap, w.st.Names(), w),
		Snap:     w.snap,
		Names:    w.st.Names(),
		Src:      w,
		Refs:     w.refTable(),
	})
}

func withCode(ds []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestCleanFileHasNoDiagnostics(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::Engine;
	part eng : Engine;
}`)

	if ds := w.check(app); len(ds) != 0 {
		for _, d := range ds {
			t.Logf("  %s %s: %s", d.Severity, d.Code.ID(), d.Message)
		}
		t.Errorf("diagnostics = %d, want none", len(ds))
	}
}

func TestUndefinedReference(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	part a : Missing;
	part b : Lib::Gone;
}`)

	ds := withCode(w.check(app), diag.SemaUndefinedReference)
	if len(ds) != 2 {
		t.Fatalf("undefined diagnostics = %d, want 2", len(ds))
	}
	if ds[0].Message != "undefined reference 'Missing'" {
		t.Errorf("message = %q", ds[0].Message)
	}
	if ds[1].Message != "'Gone' is not a member of 'Lib'" {
		t.Errorf("message = %q", ds[1].Message)
	}
	if ds[0].Severity != diag.SevError {
		t.Errorf("severity = %v, want error", ds[0].Severity)
	}
}

func TestAmbiguousReferenceListsCandidates(t *testing.T) {
	w := newWorkspace(t)
	w.add("l1.sysml", `package Lib {
	part def Engine;
}`)
	w.add("l2.sysml", `package Other {
	part def Engine;
}`)
	app := w.add("app.sysml", `package App {
	import Lib::*;
	import Other::*;
	part e : Engine;
}`)

	ds := withCode(w.check(app), diag.SemaAmbiguousReference)
	if len(ds) != 1 {
		t.Fatalf("ambiguity diagnostics = %d, want 1", len(ds))
	}
	if got := len(ds[0].Notes); got != 2 {
		t.Fatalf("candidate notes = %d, want 2", got)
	}
	if !strings.Contains(ds[0].Notes[0].Msg, "Lib::Engine") {
		t.Errorf("first note = %q, want the Lib candidate first", ds[0].Notes[0].Msg)
	}
}

func TestUsageCannotServeAsType(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def Car;
	part c : Car;
	part d : c;
}`)

	ds := withCode(w.check(f), diag.SemaTypeMismatch)
	if len(ds) != 1 {
		t.Fatalf("mismatch diagnostics = %d, want 1", len(ds))
	}
	if !strings.Contains(ds[0].Message, "usage") {
		t.Errorf("message = %q", ds[0].Message)
	}
}

func TestAttributeTypingRequiresDataValueRoot(t *testing.T) {
	w := newWorkspace(t)
	w.add("base.sysml", `package Base {
	attribute def DataValue;
}`)
	w.add("parts.sysml", `package Parts {
	part def Part;
}`)
	f := w.add("p.sysml", `package P {
	part def Car;
	attribute def Mass;
	attribute bad : Car;
	attribute good : Mass;
}`)

	ds := withCode(w.check(f), diag.SemaTypeMismatch)
	if len(ds) != 1 {
		t.Fatalf("mismatch diagnostics = %d, want 1: %+v", len(ds), ds)
	}
	if !strings.Contains(ds[0].Message, "Base::DataValue") {
		t.Errorf("message = %q, want the required root named", ds[0].Message)
	}
}

func TestPartTypingAcceptsItemRoot(t *testing.T) {
	w := newWorkspace(t)
	w.add("parts.sysml", `package Parts {
	part def Part;
}`)
	w.add("items.sysml", `package Items {
	item def Item;
}`)
	f := w.add("p.sysml", `package P {
	item def Box;
	part cargo : Box;
}`)

	if ds := withCode(w.check(f), diag.SemaTypeMismatch); len(ds) != 0 {
		t.Errorf("part typing by an item definition must be accepted: %+v", ds)
	}
}

func TestSpecializationKindMismatch(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def Car;
	item def Box :> Car;
}`)

	ds := withCode(w.check(f), diag.SemaTypeMismatch)
	if len(ds) != 1 {
		t.Fatalf("mismatch diagnostics = %d, want 1", len(ds))
	}
	if !strings.Contains(ds[0].Message, "expected item") {
		t.Errorf("message = %q", ds[0].Message)
	}
}

func TestSpecializationCycle(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def A :> B;
	part def B :> A;
}`)

	ds := withCode(w.check(f), diag.SemaSpecializationCycle)
	if len(ds) != 2 {
		t.Fatalf("cycle diagnostics = %d, want one per edge", len(ds))
	}
}

func TestSubsettingChecks(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def W;
	part a : W;
	part b :> a;
	part c :> W;
	item d :> a;
}`)

	ds := withCode(w.check(f), diag.SemaTypeMismatch)
	if len(ds) != 2 {
		t.Fatalf("mismatch diagnostics = %d, want 2: %+v", len(ds), ds)
	}
	if !strings.Contains(ds[0].Message, "must be a usage") {
		t.Errorf("def target message = %q", ds[0].Message)
	}
	if !strings.Contains(ds[1].Message, "expected item") {
		t.Errorf("kind message = %q", ds[1].Message)
	}
}

func TestDuplicateInScope(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part def E;
	part def E;
}`)

	ds := withCode(w.check(f), diag.SemaDuplicateDefinition)
	if len(ds) != 1 {
		t.Fatalf("duplicate diagnostics = %d, want 1", len(ds))
	}
	if len(ds[0].Notes) != 1 || ds[0].Notes[0].Msg != "first declared here" {
		t.Fatalf("notes = %+v", ds[0].Notes)
	}
	if ds[0].Notes[0].Span.Start >= ds[0].Primary.Start {
		t.Errorf("note must point at the earlier declaration")
	}
}

func TestAliasCollidesWithDeclaration(t *testing.T) {
	w := newWorkspace(t)
	w.add("lib.sysml", `package Lib {
	part def Engine;
}`)
	f := w.add("p.sysml", `package P {
	part def E;
	alias E for Lib::Engine;
}`)

	if ds := withCode(w.check(f), diag.SemaDuplicateDefinition); len(ds) != 1 {
		t.Errorf("duplicate diagnostics = %d, want 1", len(ds))
	}
}

func TestNamingConventions(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package vehicles {
	part def engine;
	part Eng : engine;
}`)

	ds := withCode(w.check(f), diag.SemaNamingConvention)
	if len(ds) != 3 {
		t.Fatalf("naming diagnostics = %d, want 3: %+v", len(ds), ds)
	}
	if !strings.Contains(ds[0].Message, "package name 'vehicles'") {
		t.Errorf("package message = %q", ds[0].Message)
	}
	if !strings.Contains(ds[1].Message, "UpperCamelCase") {
		t.Errorf("definition message = %q", ds[1].Message)
	}
	if !strings.Contains(ds[2].Message, "lowerCamelCase") {
		t.Errorf("usage message = %q", ds[2].Message)
	}
}

func TestUnusedPrivateSymbol(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	private part def Secret;
	part def Used;
	part u : Used;
}`)

	ds := withCode(w.check(f), diag.SemaUnusedSymbol)
	if len(ds) != 1 {
		t.Fatalf("unused diagnostics = %d, want 1: %+v", len(ds), ds)
	}
	if !strings.Contains(ds[0].Message, "P::Secret") {
		t.Errorf("message = %q", ds[0].Message)
	}

	// A reference from within the package clears the warning.
	w2 := newWorkspace(t)
	f2 := w2.add("p.sysml", `package P {
	private part def Secret;
	part s : Secret;
}`)
	if ds := withCode(w2.check(f2), diag.SemaUnusedSymbol); len(ds) != 0 {
		t.Errorf("referenced private symbol still flagged: %+v", ds)
	}
}

func TestDeprecatedReference(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	@deprecated part def Old;
	part o : Old;
}`)

	ds := withCode(w.check(f), diag.SemaDeprecated)
	if len(ds) != 1 {
		t.Fatalf("deprecated diagnostics = %d, want 1", len(ds))
	}
	if ds[0].Severity != diag.SevWarning {
		t.Errorf("severity = %v, want warning", ds[0].Severity)
	}
	if len(ds[0].Notes) != 1 {
		t.Errorf("want a note at the deprecated declaration")
	}
}

func TestRetiredTargetIsInternalInconsistency(t *testing.T) {
	w := newWorkspace(t)
	w.addIndexOnly("gone.sysml", `package Gone {
	part def Thing;
}`)
	app := w.add("app.sysml", `package App {
	part x : Gone::Thing;
}`)

	ds := withCode(w.check(app), diag.SemaInternalInconsistent)
	if len(ds) != 1 {
		t.Fatalf("internal diagnostics = %d, want 1: %+v", len(ds), ds)
	}
}

func TestDiagnosticsAreOrdered(t *testing.T) {
	w := newWorkspace(t)
	f := w.add("p.sysml", `package P {
	part a : Missing;
	part def dual;
	part b : AlsoMissing;
}`)

	ds := w.check(f)
	if len(ds) < 3 {
		t.Fatalf("diagnostics = %d, want at least 3", len(ds))
	}
	for i := 1; i < len(ds); i++ {
		if ds[i-1].Primary.Start > ds[i].Primary.Start {
			t.Fatalf("diagnostics out of position order at %d", i)
		}
	}
}
