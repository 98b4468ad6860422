package object

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(h) != HexHashSize {
		t.Errorf("Hash length: got %d, want %d", len(h), HexHashSize)
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreRoundTripAllTypes(t *testing.T) {
	s := tempStore(t)
	for _, objType := range []ObjectType{TypeBlob, TypeTree, TypeCommit, TypeTag} {
		payload := []byte("payload for " + string(objType))
		h, err := s.Write(objType, payload)
		if err != nil {
			t.Fatalf("Write(%s): %v", objType, err)
		}
		gotType, gotData, err := s.Read(h)
		if err != nil {
			t.Fatalf("Read(%s): %v", objType, err)
		}
		if gotType != objType || !bytes.Equal(gotData, payload) {
			t.Errorf("round trip %s: got (%q, %q)", objType, gotType, gotData)
		}
	}
}

func TestStoreDeterministicHash(t *testing.T) {
	s1 := tempStore(t)
	s2 := tempStore(t)
	data := []byte("same content")

	h1, err := s1.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	h2, err := s2.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if h1 != h2 {
		t.Errorf("same content across stores: %s != %s", h1, h2)
	}
}

func TestStoreIdempotentWrite(t *testing.T) {
	s := tempStore(t)
	data := []byte("written twice")

	h1, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	first, err := os.ReadFile(s.objectPath(h1))
	if err != nil {
		t.Fatalf("read object file: %v", err)
	}

	h2, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if h1 != h2 {
		t.Errorf("ids differ: %s != %s", h1, h2)
	}

	second, err := os.ReadFile(s.objectPath(h1))
	if err != nil {
		t.Fatalf("read object file: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("object file changed after idempotent rewrite")
	}

	// Exactly one file in the fanout directory.
	dir := filepath.Dir(s.objectPath(h1))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read fanout dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("fanout dir entries: got %d, want 1", len(entries))
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("layout"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected object at %s: %v", want, err)
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	h := HashObject(TypeBlob, []byte("never written"))
	if _, _, err := s.Read(h); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Read missing: got %v, want ErrObjectNotFound", err)
	}
}

func TestStoreReadCorrupt(t *testing.T) {
	s := tempStore(t)
	h := HashObject(TypeBlob, []byte("target"))

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Not a zlib stream at all.
	if err := os.WriteFile(s.objectPath(h), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := s.Read(h); !errors.Is(err, ErrCorruptStream) {
		t.Errorf("garbage file: got %v, want ErrCorruptStream", err)
	}

	// Valid stream, no envelope header.
	noHeader, err := Compress([]byte("headerless content"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if err := os.WriteFile(s.objectPath(h), noHeader, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := s.Read(h); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("missing header: got %v, want ErrCorruptObject", err)
	}

	// Header size disagrees with payload.
	badSize, err := Compress([]byte("blob 99\x00short"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if err := os.WriteFile(s.objectPath(h), badSize, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := s.Read(h); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("size mismatch: got %v, want ErrCorruptObject", err)
	}
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("present"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Has(h) {
		t.Error("Has: written object reported missing")
	}
	if s.Has(HashObject(TypeBlob, []byte("absent"))) {
		t.Error("Has: missing object reported present")
	}
}

func TestStoreTypedHelpers(t *testing.T) {
	s := tempStore(t)

	blobHash, err := s.WriteBlob(&Blob{Data: []byte("blob body")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	blob, err := s.ReadBlob(blobHash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if !bytes.Equal(blob.Data, []byte("blob body")) {
		t.Errorf("blob data: got %q", blob.Data)
	}

	// Reading a blob as a tree reports a type mismatch.
	if _, err := s.ReadTree(blobHash); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ReadTree on blob: got %v, want ErrTypeMismatch", err)
	}
	if _, err := s.ReadCommit(blobHash); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ReadCommit on blob: got %v, want ErrTypeMismatch", err)
	}
}
