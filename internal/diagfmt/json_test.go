package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"syster/internal/diag"
	"syster/internal/source"
)

func TestJSONOutput(t *testing.T) {
	st, f := testStore(t, "/ws/main.sysml", prettySrc)
	d := diag.NewError(diag.SemaUndefinedReference, spanOf(t, f, prettySrc, "Missing"), "undefined reference: Missing").
		WithNote(spanOf(t, f, prettySrc, "x"), "referenced from x").
		WithFix("remove the reference", diag.FixEdit{Span: spanOf(t, f, prettySrc, "Missing"), NewText: ""})

	var buf bytes.Buffer
	err := JSON(&buf, []diag.Diagnostic{d}, st, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeRelative,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got count=%d len=%d", out.Count, len(out.Diagnostics))
	}

	got := out.Diagnostics[0]
	if got.Severity != "ERROR" || got.Code != "SEMA3001" {
		t.Errorf("unexpected head: %s %s", got.Severity, got.Code)
	}
	if got.Location == nil {
		t.Fatal("expected a primary location")
	}
	if got.Location.File != "main.sysml" {
		t.Errorf("unexpected file: %q", got.Location.File)
	}
	if got.Location.StartByte != 25 || got.Location.EndByte != 32 {
		t.Errorf("unexpected byte range: %d..%d", got.Location.StartByte, got.Location.EndByte)
	}
	if got.Location.StartLine != 2 || got.Location.StartCol != 11 {
		t.Errorf("unexpected position: %d:%d", got.Location.StartLine, got.Location.StartCol)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "referenced from x" {
		t.Errorf("unexpected notes: %+v", got.Notes)
	}
	if len(got.Fixes) != 1 || got.Fixes[0].Title != "remove the reference" || len(got.Fixes[0].Edits) != 1 {
		t.Errorf("unexpected fixes: %+v", got.Fixes)
	}
}

func TestJSONMaxTrimsListNotCount(t *testing.T) {
	st, f := testStore(t, "/ws/main.sysml", prettySrc)
	sp := spanOf(t, f, prettySrc, "Missing")
	ds := []diag.Diagnostic{
		diag.NewError(diag.SemaUndefinedReference, sp, "one"),
		diag.NewError(diag.SemaUndefinedReference, sp, "two"),
		diag.NewError(diag.SemaUndefinedReference, sp, "three"),
	}

	var buf bytes.Buffer
	if err := JSON(&buf, ds, st, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if out.Count != 3 {
		t.Errorf("Count = %d, want 3", out.Count)
	}
	if len(out.Diagnostics) != 2 {
		t.Errorf("len(Diagnostics) = %d, want 2", len(out.Diagnostics))
	}
}

func TestJSONSpanlessAndLeanOptions(t *testing.T) {
	st, f := testStore(t, "/ws/main.sysml", prettySrc)
	ds := []diag.Diagnostic{
		diag.NewError(diag.ProjInvalidManifest, source.Span{}, "bad manifest"),
		diag.NewError(diag.SemaUndefinedReference, spanOf(t, f, prettySrc, "Missing"), "undefined").
			WithNote(spanOf(t, f, prettySrc, "x"), "here"),
	}

	var buf bytes.Buffer
	if err := JSON(&buf, ds, st, JSONOpts{}); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	if out.Diagnostics[0].Location != nil {
		t.Errorf("spanless diagnostic got a location: %+v", out.Diagnostics[0].Location)
	}
	second := out.Diagnostics[1]
	if second.Location == nil {
		t.Fatal("expected a location on the second diagnostic")
	}
	if second.Location.StartLine != 0 || second.Location.StartCol != 0 {
		t.Errorf("positions leaked without IncludePositions: %+v", second.Location)
	}
	if len(second.Notes) != 0 {
		t.Errorf("notes leaked without IncludeNotes: %+v", second.Notes)
	}
}
