package object

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

type packTestEntry struct {
	objType PackObjectType
	payload []byte

	// payloadStart/payloadEnd record where the compressed payload landed,
	// so tests can corrupt it in place.
	payloadStart int
	payloadEnd   int
}

// buildTestPack assembles a synthetic version-2 pack from entries, filling
// in each entry's compressed payload span.
func buildTestPack(t *testing.T, entries []*packTestEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("PACK")
	var versionCount [8]byte
	binary.BigEndian.PutUint32(versionCount[:4], 2)
	binary.BigEndian.PutUint32(versionCount[4:], uint32(len(entries)))
	buf.Write(versionCount[:])

	for _, e := range entries {
		buf.Write(encodeEntryHeader(e.objType, uint64(len(e.payload))))
		if e.objType == PackRefDelta {
			buf.Write(bytes.Repeat([]byte{0xaa}, RawHashSize))
		}
		if e.objType == PackOfsDelta {
			buf.WriteByte(0x0c)
		}
		compressed, err := Compress(e.payload)
		if err != nil {
			t.Fatalf("compress test payload: %v", err)
		}
		e.payloadStart = buf.Len()
		buf.Write(compressed)
		e.payloadEnd = buf.Len()
	}

	return buf.Bytes()
}

func TestUnpackStoresAllObjects(t *testing.T) {
	store := tempStore(t)
	entries := []*packTestEntry{
		{objType: PackBlob, payload: []byte("first blob\n")},
		{objType: PackBlob, payload: []byte("second blob\n")},
		{objType: PackTree, payload: nil},
	}
	pack := buildTestPack(t, entries)

	res, err := Unpack(pack, store)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if res.Version != 2 {
		t.Errorf("version: got %d, want 2", res.Version)
	}
	if len(res.Stored) != 3 || res.SkippedCorrupt != 0 || res.SkippedDeltas != 0 {
		t.Fatalf("result: %+v", res)
	}

	for i, e := range entries {
		objType, _ := e.objType.ObjectType()
		h := res.Stored[i]
		if want := HashObject(objType, e.payload); h != want {
			t.Errorf("entry %d id: got %s, want %s", i, h, want)
		}
		gotType, gotData, err := store.Read(h)
		if err != nil {
			t.Fatalf("read stored entry %d: %v", i, err)
		}
		if gotType != objType || !bytes.Equal(gotData, e.payload) {
			t.Errorf("entry %d: got (%q, %q)", i, gotType, gotData)
		}
	}
}

func TestUnpackLocatesSignaturePastPreamble(t *testing.T) {
	store := tempStore(t)
	entry := &packTestEntry{objType: PackBlob, payload: []byte("after preamble")}
	pack := buildTestPack(t, []*packTestEntry{entry})

	// Smart-protocol responses carry pkt-line framing before the pack.
	data := append([]byte("0008NAK\n"), pack...)
	res, err := Unpack(data, store)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(res.Stored) != 1 {
		t.Errorf("stored: got %d, want 1", len(res.Stored))
	}
}

func TestUnpackSkipsCorruptObject(t *testing.T) {
	store := tempStore(t)
	entries := []*packTestEntry{
		{objType: PackBlob, payload: []byte("intact one")},
		{objType: PackBlob, payload: []byte("this one gets mangled")},
		{objType: PackBlob, payload: []byte("intact two")},
	}
	pack := buildTestPack(t, entries)

	// Flip the middle object's zlib trailer byte: the stream still
	// consumes its full span, so the decoder can step past it.
	pack[entries[1].payloadEnd-1] ^= 0xff

	res, err := Unpack(pack, store)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(res.Stored) != 2 {
		t.Errorf("stored: got %d, want 2", len(res.Stored))
	}
	if res.SkippedCorrupt != 1 {
		t.Errorf("SkippedCorrupt: got %d, want 1", res.SkippedCorrupt)
	}
	if !store.Has(HashObject(TypeBlob, entries[0].payload)) || !store.Has(HashObject(TypeBlob, entries[2].payload)) {
		t.Error("intact objects missing from store")
	}
	if store.Has(HashObject(TypeBlob, entries[1].payload)) {
		t.Error("mangled object was stored")
	}
}

func TestUnpackSkipsSizeMismatch(t *testing.T) {
	store := tempStore(t)
	entries := []*packTestEntry{
		{objType: PackBlob, payload: []byte("sized wrong")},
		{objType: PackBlob, payload: []byte("sized right")},
	}
	pack := buildTestPack(t, entries)

	// Overstate the first entry's declared size by rewriting its header
	// byte (payload is short enough for a single-byte header).
	if len(entries[0].payload) >= 16 {
		t.Fatal("test payload must fit a single-byte size")
	}
	pack[packHeaderSize] = byte(PackBlob)<<4 | byte(len(entries[0].payload)-1)

	res, err := Unpack(pack, store)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(res.Stored) != 1 || res.SkippedCorrupt != 1 {
		t.Errorf("result: %+v", res)
	}
}

func TestUnpackSkipsDeltas(t *testing.T) {
	store := tempStore(t)
	entries := []*packTestEntry{
		{objType: PackBlob, payload: []byte("base object")},
		{objType: PackRefDelta, payload: []byte("ref delta payload")},
		{objType: PackOfsDelta, payload: []byte("ofs delta payload")},
		{objType: PackBlob, payload: []byte("after the deltas")},
	}
	pack := buildTestPack(t, entries)

	res, err := Unpack(pack, store)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(res.Stored) != 2 {
		t.Errorf("stored: got %d, want 2", len(res.Stored))
	}
	if res.SkippedDeltas != 2 {
		t.Errorf("SkippedDeltas: got %d, want 2", res.SkippedDeltas)
	}
	// The cursor stayed exact across both delta entries.
	if !store.Has(HashObject(TypeBlob, []byte("after the deltas"))) {
		t.Error("object after deltas missing from store")
	}
}

func TestUnpackNoSignature(t *testing.T) {
	store := tempStore(t)
	if _, err := Unpack([]byte("this is not a pack stream"), store); !errors.Is(err, ErrBadPackSignature) {
		t.Errorf("got %v, want ErrBadPackSignature", err)
	}
}

func TestUnpackTruncatedHeader(t *testing.T) {
	store := tempStore(t)
	if _, err := Unpack([]byte("PACK\x00\x00\x00\x02"), store); !errors.Is(err, ErrTruncatedPack) {
		t.Errorf("got %v, want ErrTruncatedPack", err)
	}
}

func TestUnpackTruncatedEntry(t *testing.T) {
	store := tempStore(t)
	entry := &packTestEntry{objType: PackBlob, payload: []byte("will be cut off")}
	pack := buildTestPack(t, []*packTestEntry{entry})

	// Drop the entry entirely, keeping only the 12-byte pack header.
	if _, err := Unpack(pack[:packHeaderSize], store); !errors.Is(err, ErrTruncatedPack) {
		t.Errorf("got %v, want ErrTruncatedPack", err)
	}
}
