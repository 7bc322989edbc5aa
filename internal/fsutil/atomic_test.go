package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_NewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	if err := WriteFileAtomic(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content: got %q, want %q", got, "hello")
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory should hold exactly one file, got %d", len(entries))
	}
}

func TestWriteFileAtomic_Replace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("new content"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "new content" {
		t.Errorf("content: got %q", got)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.bin")
	if err := WriteFileAtomic(path, []byte("x"), 0644); err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	ok, err := Exists(path)
	if err != nil || ok {
		t.Errorf("Exists(missing): got %v, %v", ok, err)
	}

	os.WriteFile(path, nil, 0644)
	ok, err = Exists(path)
	if err != nil || !ok {
		t.Errorf("Exists(present): got %v, %v", ok, err)
	}
}
