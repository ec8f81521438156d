package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempVault(t)
	if err := s.Write("a/b/c.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestCreate(t *testing.T) {
	s := tempVault(t)
	if err := s.Create("new.md", []byte("first")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := s.Create("new.md", []byte("second"))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("second create err = %v, want ErrAlreadyExists", err)
	}
	got, _ := s.Read("new.md")
	if string(got) != "first" {
		t.Errorf("content = %q, want original preserved", got)
	}
}

func TestExists(t *testing.T) {
	s := tempVault(t)
	if s.Exists("nope.md") {
		t.Error("Exists = true for missing file")
	}
	_ = s.Write("yes.md", []byte("y"))
	if !s.Exists("yes.md") {
		t.Error("Exists = false for written file")
	}
	// Directories are not files.
	_ = s.Write("dir/inner.md", []byte("i"))
	if s.Exists("dir") {
		t.Error("Exists = true for directory")
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
	for _, m := range items {
		if m.Mtime.IsZero() {
			t.Errorf("zero mtime for %s", m.Path)
		}
	}
}

func TestListFolder(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("reviews/2025-03-10 Weekly Review.md", []byte("r"))
	_ = s.Write("reviews/deep/nested.md", []byte("n"))
	_ = s.Write("other.md", []byte("o"))

	paths, err := s.ListFolder("reviews")
	if err != nil {
		t.Fatalf("ListFolder: %v", err)
	}
	if len(paths) != 1 || paths[0] != "reviews/2025-03-10 Weekly Review.md" {
		t.Errorf("paths = %v", paths)
	}

	// Missing folder is an empty listing, not an error.
	paths, err = s.ListFolder("does-not-exist")
	if err != nil || len(paths) != 0 {
		t.Errorf("missing folder: paths = %v, err = %v", paths, err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	s := tempVault(t)
	original := []byte("original content")
	_ = s.Write("atomic.md", original)

	updated := []byte("updated content")
	if err := s.Write("atomic.md", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, ".raido-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/raido-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "raido-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
