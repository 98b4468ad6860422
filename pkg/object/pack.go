package object

import (
	"encoding/binary"
	"fmt"
)

const packHeaderSize = 12

var packMagic = [4]byte{'P', 'A', 'C', 'K'}

// PackObjectType is the Git pack object type encoding used in object entry
// headers. Values match the canonical Git wire format.
type PackObjectType uint8

const (
	PackCommit   PackObjectType = 1
	PackTree     PackObjectType = 2
	PackBlob     PackObjectType = 3
	PackTag      PackObjectType = 4
	PackOfsDelta PackObjectType = 6
	PackRefDelta PackObjectType = 7
)

// ObjectType maps a pack entry type to the stored object type. ok is false
// for delta types, which have no standalone stored form.
func (t PackObjectType) ObjectType() (ObjectType, bool) {
	switch t {
	case PackCommit:
		return TypeCommit, true
	case PackTree:
		return TypeTree, true
	case PackBlob:
		return TypeBlob, true
	case PackTag:
		return TypeTag, true
	default:
		return "", false
	}
}

// PackHeader is the fixed-size Git pack header.
//
// Bytes:
//   - 0..3:  "PACK"
//   - 4..7:  version (big-endian)
//   - 8..11: number of objects (big-endian)
type PackHeader struct {
	Version    uint32
	NumObjects uint32
}

// UnmarshalPackHeader parses a canonical Git pack header. The input must
// begin at the "PACK" magic.
func UnmarshalPackHeader(data []byte) (*PackHeader, error) {
	if len(data) < packHeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedPack, packHeaderSize, len(data))
	}
	if string(data[:4]) != string(packMagic[:]) {
		return nil, fmt.Errorf("%w: magic %q", ErrBadPackSignature, data[:4])
	}
	return &PackHeader{
		Version:    binary.BigEndian.Uint32(data[4:8]),
		NumObjects: binary.BigEndian.Uint32(data[8:12]),
	}, nil
}

// decodePackEntryHeader decodes the variable-length object entry header:
// the first byte carries 3 type bits and the low 4 size bits; while the
// high bit is set, each following byte contributes 7 more size bits at an
// increasing shift. Returns object type, declared uncompressed size, and
// bytes consumed.
func decodePackEntryHeader(data []byte) (PackObjectType, uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, 0, fmt.Errorf("%w: entry header", ErrTruncatedPack)
	}

	b := data[0]
	objType := PackObjectType((b >> 4) & 0x7)
	size := uint64(b & 0x0f)
	shift := uint(4)
	consumed := 1

	for b&0x80 != 0 {
		if consumed >= len(data) {
			return 0, 0, 0, fmt.Errorf("%w: entry header", ErrTruncatedPack)
		}
		b = data[consumed]
		size |= uint64(b&0x7f) << shift
		shift += 7
		consumed++
	}

	return objType, size, consumed, nil
}

// decodeOfsDeltaDistance decodes the backward base distance that precedes
// an OFS_DELTA payload. Only the consumed length matters to a decoder that
// does not resolve deltas, but the distance is returned for completeness.
func decodeOfsDeltaDistance(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: ofs-delta distance", ErrTruncatedPack)
	}
	i := 0
	c := data[i]
	i++
	offset := uint64(c & 0x7f)
	for c&0x80 != 0 {
		if i >= len(data) {
			return 0, 0, fmt.Errorf("%w: ofs-delta distance", ErrTruncatedPack)
		}
		c = data[i]
		i++
		offset = ((offset + 1) << 7) | uint64(c&0x7f)
	}
	return offset, i, nil
}
