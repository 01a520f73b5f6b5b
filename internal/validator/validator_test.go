package validator

import (
	"os"
	"strings"
	"testing"
)

func TestCheckBraces(t *testing.T) {
	tests := []struct {
		name         string
		latex        string
		wantBalanced bool
		wantOpen     int
		wantClose    int
	}{
		{
			name:         "balanced simple",
			latex:        `\textbf{hello}`,
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "balanced nested",
			latex:        `\textbf{\large EDUCATION}`,
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "missing closing brace",
			latex:        `\textbf{hello`,
			wantBalanced: false,
			wantOpen:     1,
			wantClose:    0,
		},
		{
			name:         "extra closing brace",
			latex:        `\textbf{hello}}`,
			wantBalanced: false,
			wantOpen:     1,
			wantClose:    2,
		},
		{
			name:         "escaped braces not counted",
			latex:        `50\% of \{items\}`,
			wantBalanced: true,
			wantOpen:     0,
			wantClose:    0,
		},
		{
			name:         "comment line skipped",
			latex:        "\\textbf{ok}\n% dangling { brace in comment\nmore",
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "escaped percent does not start comment",
			latex:        `90\% {match}`,
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "comment ends at newline",
			latex:        "% {{{\n{}",
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "escaped backslash before brace",
			latex:        `line break \\{arg}`,
			wantBalanced: true,
			wantOpen:     1,
			wantClose:    1,
		},
		{
			name:         "empty document",
			latex:        "",
			wantBalanced: true,
			wantOpen:     0,
			wantClose:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckBraces(tt.latex)
			if got.Balanced != tt.wantBalanced {
				t.Errorf("Balanced = %v, want %v", got.Balanced, tt.wantBalanced)
			}
			if got.Open != tt.wantOpen {
				t.Errorf("Open = %d, want %d", got.Open, tt.wantOpen)
			}
			if got.Close != tt.wantClose {
				t.Errorf("Close = %d, want %d", got.Close, tt.wantClose)
			}
		})
	}
}

func TestBraceResultDiff(t *testing.T) {
	r := BraceResult{Open: 5, Close: 3}
	if r.Diff() != 2 {
		t.Errorf("Diff() = %d, want 2", r.Diff())
	}
}

func TestFormatMismatch(t *testing.T) {
	got := FormatMismatch(BraceResult{Open: 4, Close: 6})
	want := "unbalanced braces: 4 open vs 6 close (diff -2)"
	if got != want {
		t.Errorf("FormatMismatch() = %q, want %q", got, want)
	}
}

func TestDebugWriterWritePair(t *testing.T) {
	w, err := NewDebugWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewDebugWriter: %v", err)
	}

	pair, err := w.WritePair("filtered content", "original content")
	if err != nil {
		t.Fatalf("WritePair: %v", err)
	}

	filtered, err := os.ReadFile(pair.FilteredPath)
	if err != nil {
		t.Fatalf("reading filtered file: %v", err)
	}
	if string(filtered) != "filtered content" {
		t.Errorf("filtered file content = %q", filtered)
	}

	original, err := os.ReadFile(pair.OriginalPath)
	if err != nil {
		t.Fatalf("reading original file: %v", err)
	}
	if string(original) != "original content" {
		t.Errorf("original file content = %q", original)
	}

	if !strings.Contains(pair.FilteredPath, "filtered_debug_") {
		t.Errorf("unexpected filtered path %q", pair.FilteredPath)
	}
	if !strings.Contains(pair.OriginalPath, "original_debug_") {
		t.Errorf("unexpected original path %q", pair.OriginalPath)
	}
}

func TestDebugWriterDefaultDir(t *testing.T) {
	w, err := NewDebugWriter("")
	if err != nil {
		t.Fatalf("NewDebugWriter: %v", err)
	}
	if w.Dir() == "" {
		t.Error("Dir() should not be empty for the default writer")
	}
}
