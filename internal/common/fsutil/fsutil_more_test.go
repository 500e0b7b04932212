package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	d := t.TempDir()
	target := filepath.Join(d, "a", "b", "c")
	if err := EnsureDir(target); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	fi, err := os.Stat(target)
	if err != nil || !fi.IsDir() {
		t.Fatalf("expected dir, err=%v", err)
	}
	// idempotent
	if err := EnsureDir(target); err != nil {
		t.Fatalf("ensure twice: %v", err)
	}
	if err := EnsureDir(""); err == nil {
		t.Fatalf("expected error on empty dir")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "out.json")
	if err := WriteFileAtomic(p, []byte(`{"k":1}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != `{"k":1}` {
		t.Fatalf("read back: %q err=%v", b, err)
	}
	// overwrite replaces content
	if err := WriteFileAtomic(p, []byte("v2"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != "v2" {
		t.Fatalf("expected v2, got %q", b)
	}
	// no temp files left behind
	entries, err := os.ReadDir(d)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "out.json")
	if err := WriteFileAtomic(p, []byte("x"), 0o644); err == nil {
		t.Fatalf("expected error when parent dir is missing")
	}
}
