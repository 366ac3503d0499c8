package stdlib

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

func TestLoadBundle(t *testing.T) {
	man, files, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if man.Name == "" || man.Language == "" || man.Version == "" {
		t.Errorf("manifest identity incomplete: %+v", man)
	}
	if len(files) != len(man.Files) {
		t.Fatalf("loaded %d files, manifest lists %d", len(files), len(man.Files))
	}
	for i, f := range files {
		if want := PathPrefix + man.Files[i].Path; f.Path != want {
			t.Errorf("files[%d].Path = %q, want %q (manifest order must hold)", i, f.Path, want)
		}
		if len(f.Content) == 0 {
			t.Errorf("%s is empty", f.Path)
		}
		if f.Description == "" {
			t.Errorf("%s has no description", f.Path)
		}
	}
}

func TestEveryAssetListed(t *testing.T) {
	_, files, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded := make(map[string]bool, len(files))
	for _, f := range files {
		loaded[strings.TrimPrefix(f.Path, PathPrefix)] = true
	}

	entries, err := assets.ReadDir(assetDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sysml") {
			continue
		}
		if !loaded[e.Name()] {
			t.Errorf("embedded asset %s not loaded; manifest out of date", e.Name())
		}
	}
}

// bundleWorkspace runs the bundle through the analysis pipeline the way
// the host does at startup: builtin content, builtin symbol flags, one
// merged snapshot.
type bundleWorkspace struct {
	st    *source.Store
	snap  *index.Snapshot
	files []source.FileID
	data  map[source.FileID]*bundleFile
}

type bundleFile struct {
	fs   *symbols.FileSymbols
	tree *ast.Tree
}

func (w *bundleWorkspace) FileSymbols(f source.FileID) *symbols.FileSymbols {
	if fd := w.data[f]; fd != nil {
		return fd.fs
	}
	return nil
}

func (w *bundleWorkspace) Tree(f source.FileID) *ast.Tree {
	if fd := w.data[f]; fd != nil {
		return fd.tree
	}
	return nil
}

func loadBundle(t *testing.T) *bundleWorkspace {
	t.Helper()
	_, files, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := &bundleWorkspace{
		st:   source.NewStore(),
		snap: index.Empty(),
		data: make(map[source.FileID]*bundleFile),
	}
	for _, f := range files {
		id := w.st.Intern(f.Path)
		if _, err := w.st.SetBuiltin(id, f.Content); err != nil {
			t.Fatalf("SetBuiltin %s: %v", f.Path, err)
		}
		txt, err := w.st.Text(id)
		if err != nil {
			t.Fatalf("Text %s: %v", f.Path, err)
		}
		bag := diag.NewBag(16)
		res := parser.ParseText(txt, w.st.Names(), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		for _, d := range res.Bag.Items() {
			t.Errorf("%s: parse %s %s: %s", f.Path, d.Severity, d.Code.ID(), d.Message)
		}
		fs := symbols.Extract(res.Tree, w.st.Names(), true)
		w.data[id] = &bundleFile{fs: fs, tree: res.Tree}
		w.files = append(w.files, id)
		w.snap = w.snap.WithFile(index.BuildContribution(fs))
	}
	return w
}

func TestBundleIsAnalysisClean(t *testing.T) {
	w := loadBundle(t)
	for _, id := range w.files {
		fd := w.data[id]
		ds := sema.CheckFile(fd.fs, fd.tree, sema.Options{
			Resolver: resolve.New(w.snap, w.st.Names(), w),
			Snap:     w.snap,
			Names:    w.st.Names(),
			Src:      w,
		})
		for _, d := range ds {
			t.Errorf("%s: %s %s: %s", w.st.PathOf(id), d.Severity, d.Code.ID(), d.Message)
		}
	}
}

func TestImplicitRootsAreBundled(t *testing.T) {
	w := loadBundle(t)
	for _, kind := range ast.DefKinds {
		root, ok := index.ImplicitRoot(kind)
		if !ok {
			continue
		}
		info := w.snap.Name(w.st.Names().Intern(root))
		if len(info.Defs) == 0 {
			t.Errorf("implicit root %s for kind %s is not defined by the bundle", root, kind)
		}
	}
}

func TestBundleChainsReachTheRoots(t *testing.T) {
	w := loadBundle(t)
	r := resolve.New(w.snap, w.st.Names(), w)

	defOf := func(qname string) index.DefRef {
		t.Helper()
		info := w.snap.Name(w.st.Names().Intern(qname))
		if len(info.Defs) == 0 {
			t.Fatalf("bundle does not define %s", qname)
		}
		return info.Defs[0].Def
	}

	tests := []struct {
		def  string
		root string
	}{
		{"ISQ::MassValue", "Base::DataValue"},
		{"ISQ::SpeedValue", "ScalarValues::Real"},
		{"ScalarValues::Positive", "ScalarValues::Integer"},
		{"States::StateAction", "Actions::Action"},
		{"Attributes::AttributeValue", "Base::DataValue"},
	}
	for _, tt := range tests {
		if !r.Reaches(defOf(tt.def), tt.root) {
			t.Errorf("%s does not reach %s", tt.def, tt.root)
		}
	}

	if r.Reaches(defOf("Parts::Part"), "Base::DataValue") {
		t.Errorf("Parts::Part must not reach Base::DataValue")
	}
}
