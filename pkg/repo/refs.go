package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
)

// WriteRef writes a ref file (e.g. "refs/heads/main") pointing at hash.
func (r *Repo) WriteRef(name string, h object.Hash) error {
	if _, err := object.ParseHash(string(h)); err != nil {
		return fmt.Errorf("write ref %q: %w", name, err)
	}
	path := filepath.Join(r.GitDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write ref %q: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(string(h)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write ref %q: %w", name, err)
	}
	return nil
}

// ReadRef reads the hash a ref file points at.
func (r *Repo) ReadRef(name string) (object.Hash, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("read ref %q: %w", name, err)
	}
	h, err := object.ParseHash(strings.TrimSpace(string(data)))
	if err != nil {
		return "", fmt.Errorf("read ref %q: %w", name, err)
	}
	return h, nil
}
