package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListPDFs(t *testing.T) {
	dir := t.TempDir()

	writeTestPDF(t, dir, "beta.pdf")
	writeTestPDF(t, dir, "ALPHA.PDF")
	writeTestPDF(t, dir, "gamma.Pdf")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListPDFs(dir)
	if err != nil {
		t.Fatalf("ListPDFs: %v", err)
	}

	want := []string{"ALPHA.PDF", "beta.pdf", "gamma.Pdf"}
	if len(files) != len(want) {
		t.Fatalf("got %d files, want %d", len(files), len(want))
	}
	for i, name := range want {
		if files[i].Name != name {
			t.Errorf("files[%d].Name = %q, want %q", i, files[i].Name, name)
		}
		if files[i].Path != filepath.Join(dir, name) {
			t.Errorf("files[%d].Path = %q", i, files[i].Path)
		}
	}
}

func TestListPDFsMissingFolder(t *testing.T) {
	if _, err := ListPDFs(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing folder")
	}
}

func TestListPDFsEmptyFolder(t *testing.T) {
	files, err := ListPDFs(t.TempDir())
	if err != nil {
		t.Fatalf("ListPDFs: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []FileEntry{
		{Name: "Annual Report.pdf"},
		{Name: "invoice-march.pdf"},
		{Name: "REPORT-draft.pdf"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", []string{"Annual Report.pdf", "invoice-march.pdf", "REPORT-draft.pdf"}},
		{"case-insensitive match", "report", []string{"Annual Report.pdf", "REPORT-draft.pdf"}},
		{"substring match", "march", []string{"invoice-march.pdf"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEntries(entries, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}

	if len(entries) != 3 {
		t.Error("input slice was mutated")
	}
}
