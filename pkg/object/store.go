package object

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Objects are zlib-compressed
// envelopes of the form "type len\0content"; the id is the SHA-1 of the
// uncompressed envelope.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory (the repository
// metadata directory). The objects/ subdirectory is created lazily on first
// write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Writes are atomic:
// compressed data goes to a temp file and is renamed into place. Re-writing
// an existing id is a no-op.
func (s *Store) Write(objType ObjectType, data []byte) (Hash, error) {
	envelope := makeEnvelope(objType, data)
	h := HashObject(objType, data)

	// Fast path: already exists.
	if s.Has(h) {
		return h, nil
	}

	compressed, err := Compress(envelope)
	if err != nil {
		return "", fmt.Errorf("object write %s: %w", h, err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object write rename: %w", err)
	}

	return h, nil
}

// Read retrieves an object by hash, returning its type and raw content.
// Fails with ErrObjectNotFound when no file exists for the hash, with
// ErrCorruptStream when decompression fails, and with ErrCorruptObject when
// the envelope header cannot be parsed or disagrees with the payload length.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	raw, err := DecompressAll(compressed, len(compressed)*4)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}

	// Parse envelope: "type len\0content"
	spaceIdx := bytes.IndexByte(raw, ' ')
	if spaceIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: %w: no space in header", h, ErrCorruptObject)
	}
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 || nulIdx < spaceIdx {
		return "", nil, fmt.Errorf("object read %s: %w: no NUL in header", h, ErrCorruptObject)
	}

	objType := ObjectType(raw[:spaceIdx])
	content := raw[nulIdx+1:]

	length, err := strconv.Atoi(string(raw[spaceIdx+1 : nulIdx]))
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w: bad size %q", h, ErrCorruptObject, raw[spaceIdx+1:nulIdx])
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: %w: size mismatch (header=%d, actual=%d)", h, ErrCorruptObject, length, len(content))
	}

	return objType, content, nil
}

func makeEnvelope(objType ObjectType, data []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	out := make([]byte, 0, len(header)+len(data))
	out = append(out, header...)
	out = append(out, data...)
	return out
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, b.Data)
}

// ReadBlob reads a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, TypeBlob)
	}
	return &Blob{Data: data}, nil
}

// WriteTree serializes and stores a TreeObj.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	data, err := MarshalTree(tr)
	if err != nil {
		return "", err
	}
	return s.Write(TypeTree, data)
}

// ReadTree reads and deserializes a TreeObj.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeTree {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, TypeTree)
	}
	return UnmarshalTree(data)
}

// WriteCommit serializes and stores a CommitObj.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a CommitObj.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("object %s: %w: got %q, want %q", h, ErrTypeMismatch, objType, TypeCommit)
	}
	return UnmarshalCommit(data)
}
