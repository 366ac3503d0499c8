package index

import (
	"testing"

	"syster/internal/ast"
	"syster/internal/source"
	"syster/internal/symbols"
)

type testNames struct {
	in *source.Interner
}

func newTestNames() *testNames {
	return &testNames{in: source.NewInterner()}
}

func (n *testNames) id(s string) source.StringID { return n.in.Intern(s) }

func contribution(n *testNames, file source.FileID, defs ...Entry) *Contribution {
	c := &Contribution{File: file, Defs: defs}
	c.fp = c.computeFingerprint()
	return c
}

func defEntry(n *testNames, file source.FileID, local symbols.LocalID, qname string, kind ast.DefKind) Entry {
	simple := qname
	owner := ""
	for i := len(qname) - 1; i > 0; i-- {
		if qname[i] == ':' && qname[i-1] == ':' {
			simple = qname[i+1:]
			owner = qname[:i-1]
			break
		}
	}
	return Entry{
		Def:    DefRef{File: file, Local: local},
		Name:   n.id(simple),
		QName:  n.id(qname),
		Owner:  n.id(owner),
		Kind:   kind,
		Public: true,
	}
}

func TestApplyAndLookup(t *testing.T) {
	n := newTestNames()
	c := contribution(n, 1,
		defEntry(n, 1, 1, "P", ast.DefPackage),
		defEntry(n, 1, 2, "P::Engine", ast.DefPart),
	)

	snap := Empty().WithFile(c)

	info := snap.Name(n.id("P::Engine"))
	if len(info.Defs) != 1 {
		t.Fatalf("candidates for P::Engine = %d, want 1", len(info.Defs))
	}
	if got := info.Defs[0].Def; got != (DefRef{File: 1, Local: 2}) {
		t.Errorf("candidate identity = %+v", got)
	}

	members := snap.Members(n.id("P"))
	if len(members.Defs) != 1 || members.Defs[0].QName != n.id("P::Engine") {
		t.Errorf("members of P = %+v, want the Engine entry", members.Defs)
	}

	simple := snap.Simple(n.id("Engine"))
	if len(simple) != 1 || simple[0].QName != n.id("P::Engine") {
		t.Errorf("simple directory for Engine = %+v", simple)
	}
}

func TestMergeReplacesPreviousContribution(t *testing.T) {
	n := newTestNames()
	v1 := contribution(n, 1, defEntry(n, 1, 1, "P::Old", ast.DefPart))
	v2 := contribution(n, 1, defEntry(n, 1, 1, "P::New", ast.DefPart))

	snap := Empty().WithFile(v1).WithFile(v2)

	if !snap.Name(n.id("P::Old")).Empty() {
		t.Errorf("P::Old must be gone after the file's contribution changed")
	}
	if snap.Name(n.id("P::New")).Empty() {
		t.Errorf("P::New must be present")
	}
	if snap.ContributionOf(1) != v2 {
		t.Errorf("ContributionOf must return the latest contribution")
	}
}

func TestRemoveDropsFileAtomically(t *testing.T) {
	n := newTestNames()
	shared := "Lib::Thing"
	c1 := contribution(n, 1, defEntry(n, 1, 1, shared, ast.DefPart))
	c2 := contribution(n, 2, defEntry(n, 2, 1, shared, ast.DefPart))

	snap := Empty().WithFile(c1).WithFile(c2)
	if got := len(snap.Name(n.id(shared)).Defs); got != 2 {
		t.Fatalf("candidates = %d, want 2", got)
	}

	removed := snap.WithoutFile(1)
	defs := removed.Name(n.id(shared)).Defs
	if len(defs) != 1 || defs[0].Def.File != 2 {
		t.Errorf("after removal candidates = %+v, want only file 2's", defs)
	}
	if removed.ContributionOf(1) != nil {
		t.Errorf("removed file must have no contribution")
	}

	if again := removed.WithoutFile(1); again != removed {
		t.Errorf("removing an absent file must return the same snapshot")
	}
}

func TestCandidatesSortedByIdentity(t *testing.T) {
	n := newTestNames()
	shared := "Lib::Thing"
	c1 := contribution(n, 1, defEntry(n, 1, 7, shared, ast.DefPart))
	c2 := contribution(n, 2, defEntry(n, 2, 3, shared, ast.DefPart))

	// Apply in descending file order; lookup order must not depend on it.
	snap := Empty().WithFile(c2).WithFile(c1)
	defs := snap.Name(n.id(shared)).Defs
	if len(defs) != 2 {
		t.Fatalf("candidates = %d, want 2", len(defs))
	}
	if defs[0].Def.File != 1 || defs[1].Def.File != 2 {
		t.Errorf("candidates out of identity order: %+v", defs)
	}
}

func TestDerivedSnapshotSharesUntouchedShards(t *testing.T) {
	n := newTestNames()
	base := Empty().WithFile(contribution(n, 1, defEntry(n, 1, 1, "A::X", ast.DefPart)))

	next := base.WithFile(contribution(n, 2, defEntry(n, 2, 1, "B::Y", ast.DefItem)))

	cloned := 0
	for i := range base.shards {
		if base.shards[i] != next.shards[i] {
			cloned++
		}
	}
	if cloned == 0 {
		t.Fatalf("applying a contribution must clone its touched shards")
	}
	if cloned >= shardCount {
		t.Errorf("single-file merge cloned every shard; sharing is broken")
	}

	// The old snapshot is undisturbed.
	if base.Name(n.id("B::Y")).Defs != nil {
		t.Errorf("older snapshot must not see the newer file")
	}
	if len(base.Name(n.id("A::X")).Defs) != 1 {
		t.Errorf("older snapshot lost its own entries")
	}
}

func TestFingerprintIndependentOfMergeOrder(t *testing.T) {
	n := newTestNames()
	c1 := contribution(n, 1, defEntry(n, 1, 1, "A::X", ast.DefPart))
	c2 := contribution(n, 2, defEntry(n, 2, 1, "B::Y", ast.DefItem))

	ab := Empty().WithFile(c1).WithFile(c2)
	ba := Empty().WithFile(c2).WithFile(c1)
	if ab.Fingerprint() != ba.Fingerprint() {
		t.Errorf("snapshot fingerprint must not depend on merge order")
	}

	dropped := ab.WithoutFile(2)
	restored := dropped.WithFile(c2)
	if restored.Fingerprint() != ab.Fingerprint() {
		t.Errorf("remove plus re-add of the same contribution must restore the fingerprint")
	}
	if dropped.Fingerprint() == ab.Fingerprint() {
		t.Errorf("dropping a file must change the fingerprint")
	}
}

func TestAliasAndReExportLookup(t *testing.T) {
	n := newTestNames()
	c := &Contribution{
		File: 1,
		Defs: []Entry{defEntry(n, 1, 1, "P", ast.DefPackage)},
		Aliases: []AliasEntry{{
			File: 1, Alias: 1, Scope: 2,
			Name: n.id("E"), QName: n.id("P::E"), Owner: n.id("P"),
			Target: n.id("Engine"), Public: true,
		}},
		ReExports: []ReExport{{
			File: 1, Import: 1, Scope: 2,
			Owner: n.id("P"), Target: n.id("Base"), Wildcard: true,
		}},
	}
	c.fp = c.computeFingerprint()

	snap := Empty().WithFile(c)

	if got := snap.Name(n.id("P::E")).Aliases; len(got) != 1 || got[0].Target != n.id("Engine") {
		t.Errorf("alias lookup = %+v", got)
	}
	members := snap.Members(n.id("P"))
	if len(members.Aliases) != 1 {
		t.Errorf("member aliases = %+v, want the E alias", members.Aliases)
	}
	if len(members.ReExports) != 1 || !members.ReExports[0].Wildcard {
		t.Errorf("re-exports = %+v, want the wildcard Base import", members.ReExports)
	}

	gone := snap.WithoutFile(1)
	if !gone.Name(n.id("P::E")).Empty() {
		t.Errorf("alias entries must retire with their file")
	}
}
