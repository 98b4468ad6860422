package object

// Hash is a 40-character hex-encoded SHA-1 digest of an object's full
// envelope ("type len\0content").
type Hash string

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
	TypeTag    ObjectType = "tag"
)

const (
	// Tree mode tokens matching Git's canonical mode strings.
	TreeModeDir        = "40000"
	TreeModeFile       = "100644"
	TreeModeExecutable = "100755"
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object: a single path segment pointing
// at a blob or a subtree.
type TreeEntry struct {
	Mode string
	Name string
	Hash Hash
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == TreeModeDir
}

// TreeObj holds a list of tree entries, sorted byte-wise by Name.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj represents a commit pointing to a tree with metadata. Parent is
// empty for a root commit; merge commits are not supported.
type CommitObj struct {
	TreeHash      Hash
	Parent        Hash
	Author        string
	AuthorTime    int64
	Committer     string
	CommitterTime int64
	Message       string
}
