package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"syster/internal/diag"
	"syster/internal/source"
)

const prettySrc = "package Demo {\n\tpart x : Missing;\n}\n"

func testStore(t *testing.T, path, content string) (*source.Store, source.FileID) {
	t.Helper()
	st := source.NewStore()
	st.SetBaseDir("/ws")
	id := st.Intern(path)
	st.MarkOpen(id, true)
	if _, err := st.Set(id, []byte(content), source.FileVirtual); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	return st, id
}

func spanOf(t *testing.T, f source.FileID, content, needle string) source.Span {
	t.Helper()
	off := strings.Index(content, needle)
	if off < 0 {
		t.Fatalf("needle %q not in fixture", needle)
	}
	return source.Span{File: f, Start: uint32(off), End: uint32(off + len(needle))}
}

func TestPrettyGolden(t *testing.T) {
	st, f := testStore(t, "/ws/main.sysml", prettySrc)
	d := diag.NewError(diag.SemaUndefinedReference, spanOf(t, f, prettySrc, "Missing"), "undefined reference: Missing").
		WithNote(spanOf(t, f, prettySrc, "x"), "referenced from x").
		WithFix("remove the reference")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, st, PrettyOpts{
		PathMode:  PathModeRelative,
		ShowNotes: true,
		ShowFixes: true,
	})

	want := strings.Join([]string{
		"main.sysml:2:11: ERROR [SEMA3001]: undefined reference: Missing",
		"     2 |     part x : Missing;",
		"       |              ^~~~~~~",
		"  main.sysml:2:7: note: referenced from x",
		"  help: remove the reference",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("pretty output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestPrettySpanlessHeadOnly(t *testing.T) {
	st, _ := testStore(t, "/ws/main.sysml", prettySrc)
	d := diag.NewError(diag.ProjInvalidManifest, source.Span{}, "bad manifest")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, st, PrettyOpts{ShowNotes: true, ShowFixes: true})

	if got, want := buf.String(), "syster: ERROR [PROJ5001]: bad manifest\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	st, f := testStore(t, "/ws/main.sysml", prettySrc)
	d := diag.NewWarning(diag.SemaUnusedSymbol, spanOf(t, f, prettySrc, "}"), "never used")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, st, PrettyOpts{Context: 5})

	out := buf.String()
	for _, line := range []string{
		"     1 | package Demo {",
		"     2 |     part x : Missing;",
		"     3 | }",
		"WARNING [SEMA3005]",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestFormatPathModes(t *testing.T) {
	st, f := testStore(t, "/ws/sub/x.sysml", "part def A;\n")

	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "sub/x.sysml"},
		{PathModeAbsolute, "/ws/sub/x.sysml"},
		{PathModeRelative, "sub/x.sysml"},
		{PathModeBasename, "x.sysml"},
	}
	for _, tt := range tests {
		if got := formatPath(st, f, tt.mode); got != tt.want {
			t.Errorf("mode %d: got %q, want %q", tt.mode, got, tt.want)
		}
	}
}
