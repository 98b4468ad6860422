package repo

import (
	"fmt"
	"time"

	"github.com/gat-vcs/gat/pkg/object"
)

// CommitTree assembles and stores a commit for the given tree. parent may
// be empty for a root commit. The identity comes from repository config and
// is used for both author and committer; the timestamp is captured once.
func (r *Repo) CommitTree(tree object.Hash, parent object.Hash, message string) (object.Hash, error) {
	if _, err := object.ParseHash(string(tree)); err != nil {
		return "", fmt.Errorf("commit: tree: %w", err)
	}
	if parent != "" {
		if _, err := object.ParseHash(string(parent)); err != nil {
			return "", fmt.Errorf("commit: parent: %w", err)
		}
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	now := time.Now().Unix()
	c := &object.CommitObj{
		TreeHash:      tree,
		Parent:        parent,
		Author:        cfg.Identity,
		AuthorTime:    now,
		Committer:     cfg.Identity,
		CommitterTime: now,
		Message:       message,
	}

	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return h, nil
}
