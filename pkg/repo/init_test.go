package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir: got %q, want %q", r.RootDir, dir)
	}

	head, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/main\n" {
		t.Errorf("HEAD: got %q", head)
	}

	for _, sub := range []string{"objects", filepath.Join("refs", "heads")} {
		info, err := os.Stat(filepath.Join(r.GitDir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s: %v", sub, err)
		}
	}
}

func TestInitRefusesExisting(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := Init(dir); err == nil {
		t.Error("second Init should fail")
	}
}

func TestOpenFindsRepoFromSubdir(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.RootDir != dir {
		t.Errorf("RootDir: got %q, want %q", r.RootDir, dir)
	}
}

func TestOpenOutsideRepo(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open outside a repository should fail")
	}
}
