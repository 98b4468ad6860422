package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gat-vcs/gat/pkg/object"
)

// CheckoutTree materializes the tree with the given hash into dir,
// recreating subdirectories and writing each blob's payload verbatim. dir
// is created if missing. The recursion depth equals the tree depth; trees
// are acyclic by construction since a tree's hash is computed only after
// all of its children exist.
func (r *Repo) CheckoutTree(h object.Hash, dir string) error {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return fmt.Errorf("checkout %s: %w", h, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkout %s: mkdir %q: %w", h, dir, err)
	}

	for _, e := range tree.Entries {
		target := filepath.Join(dir, e.Name)

		if e.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("checkout %s: mkdir %q: %w", h, target, err)
			}
			if err := r.CheckoutTree(e.Hash, target); err != nil {
				return err
			}
			continue
		}

		blob, err := r.Store.ReadBlob(e.Hash)
		if err != nil {
			return fmt.Errorf("checkout %s: blob for %q: %w", h, e.Name, err)
		}
		if err := os.WriteFile(target, blob.Data, filePermFromMode(e.Mode)); err != nil {
			return fmt.Errorf("checkout %s: write %q: %w", h, target, err)
		}
	}

	return nil
}

// CheckoutCommit reads a commit and materializes its tree into dir.
func (r *Repo) CheckoutCommit(h object.Hash, dir string) error {
	commit, err := r.Store.ReadCommit(h)
	if err != nil {
		return fmt.Errorf("checkout commit %s: %w", h, err)
	}
	return r.CheckoutTree(commit.TreeHash, dir)
}
