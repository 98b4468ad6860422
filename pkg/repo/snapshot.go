package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gat-vcs/gat/pkg/object"
)

// Snapshot recursively hashes the working directory into blob and tree
// objects and returns the root tree hash (the write-tree operation).
func (r *Repo) Snapshot() (object.Hash, error) {
	return r.snapshotDir(r.RootDir)
}

// snapshotDir builds the tree object for one directory. os.ReadDir returns
// entries sorted byte-wise by name, which is exactly the order the tree
// encoding requires, so entries are appended as they come.
func (r *Repo) snapshotDir(dir string) (object.Hash, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", dir, err)
	}

	var entries []object.TreeEntry
	for _, de := range dirEntries {
		name := de.Name()
		if name == gitDirName {
			continue
		}
		full := filepath.Join(dir, name)

		switch {
		case de.IsDir():
			sub, err := r.snapshotDir(full)
			if err != nil {
				return "", err
			}
			entries = append(entries, object.TreeEntry{
				Mode: object.TreeModeDir,
				Name: name,
				Hash: sub,
			})

		case de.Type().IsRegular():
			info, err := de.Info()
			if err != nil {
				return "", fmt.Errorf("snapshot %s: %w", full, err)
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return "", fmt.Errorf("snapshot %s: %w", full, err)
			}
			h, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return "", fmt.Errorf("snapshot %s: %w", full, err)
			}
			entries = append(entries, object.TreeEntry{
				Mode: modeFromFileInfo(info),
				Name: name,
				Hash: h,
			})

		default:
			// Symlinks, sockets, devices: not tracked.
			continue
		}
	}

	h, err := r.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", dir, err)
	}
	return h, nil
}

func modeFromFileInfo(info os.FileInfo) string {
	if info.Mode()&0o111 != 0 {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}

func filePermFromMode(mode string) os.FileMode {
	if mode == object.TreeModeExecutable {
		return 0o755
	}
	return 0o644
}
