package main

import (
	"testing"

	"syster/internal/host"
	"syster/internal/source"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		arg      string
		wantPath string
		wantLine uint32
		wantCol  uint32
		wantErr  bool
	}{
		{"model.sysml:3:7", "model.sysml", 3, 7, false},
		{"a/b/c.kerml:12:1", "a/b/c.kerml", 12, 1, false},
		{"C:/work/m.sysml:4:2", "C:/work/m.sysml", 4, 2, false},
		{"model.sysml:3", "", 0, 0, true},
		{"model.sysml", "", 0, 0, true},
		{"model.sysml:0:4", "", 0, 0, true},
		{"model.sysml:x:4", "", 0, 0, true},
		{"model.sysml:4:0", "", 0, 0, true},
		{":3:7", "", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			path, pos, err := parsePosition(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got %q %v", path, pos)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path != tt.wantPath || pos.Line != tt.wantLine || pos.Col != tt.wantCol {
				t.Errorf("got %q %d:%d, want %q %d:%d",
					path, pos.Line, pos.Col, tt.wantPath, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestGroupEditsKeepsFileOrder(t *testing.T) {
	f1, f2 := source.FileID(1), source.FileID(2)
	edits := []host.Edit{
		{File: f1, Span: source.Span{File: f1, Start: 0, End: 1}},
		{File: f2, Span: source.Span{File: f2, Start: 5, End: 6}},
		{File: f1, Span: source.Span{File: f1, Start: 9, End: 10}},
	}
	order, groups := groupEdits(edits)
	if len(order) != 2 || order[0] != f1 || order[1] != f2 {
		t.Fatalf("unexpected order: %v", order)
	}
	if len(groups[f1]) != 2 || len(groups[f2]) != 1 {
		t.Errorf("unexpected group sizes: %d and %d", len(groups[f1]), len(groups[f2]))
	}
}
