package repo

import (
	"github.com/gat-vcs/gat/pkg/object"
)

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	GitDir  string        // .git/ directory
	Store   *object.Store // content-addressed object store
}
