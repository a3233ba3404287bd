package contract

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGoFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDirFilesListsOnlyGoFiles(t *testing.T) {
	dir := t.TempDir()
	writeGoFile(t, dir, "adapters.go", "package adapters\n")
	writeGoFile(t, dir, "notes.txt", "not go\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := &ReferenceScanner{Dir: dir}
	files, err := s.dirFiles()
	if err != nil {
		t.Fatalf("dirFiles: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "adapters.go" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestReferencesFindsMatchingFiles(t *testing.T) {
	// A bare directory with no go.mod: the package load falls back to the
	// directory scan, and if a toolchain context is available both paths
	// cover the same files.
	dir := t.TempDir()
	match := writeGoFile(t, dir, "demo.go", "package adapters\n\nconst demoID = \"demo\"\n")
	writeGoFile(t, dir, "other.go", "package adapters\n\nconst otherID = \"clickworker\"\n")

	s := &ReferenceScanner{Dir: dir}
	refs, err := s.References("demo")
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs) != 1 || refs[0] != match {
		t.Errorf("expected [%s], got %v", match, refs)
	}
}

func TestReferencesNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeGoFile(t, dir, "adapters.go", "package adapters\n")

	s := &ReferenceScanner{Dir: dir}
	refs, err := s.References("demo")
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no matches, got %v", refs)
	}
}

func TestReferencesMissingDir(t *testing.T) {
	s := &ReferenceScanner{Dir: filepath.Join(t.TempDir(), "nope")}
	if _, err := s.References("demo"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
