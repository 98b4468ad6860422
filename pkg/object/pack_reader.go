package object

import (
	"bytes"
	"fmt"
)

// UnpackResult reports what Unpack extracted from a pack stream.
type UnpackResult struct {
	Version        uint32
	NumObjects     uint32 // declared object count
	Stored         []Hash // ids written to the store, in pack order
	SkippedCorrupt int    // objects dropped because their stream was bad
	SkippedDeltas  int    // delta objects skipped (bases not resolved)
}

// Unpack decodes a received pack byte stream and stores each standalone
// object it contains. The "PACK" magic is located anywhere in the input, so
// a smart-protocol response with its preamble can be fed in whole.
//
// A single object whose zlib stream fails to decompress is skipped when the
// stream's input-byte boundary is still known, so one bad object does not
// prevent extracting the rest; such objects are counted in SkippedCorrupt.
// Delta entries (OFS_DELTA/REF_DELTA) are not reconstructed: their base
// reference and compressed payload are skipped to keep the cursor exact,
// and the entries are counted in SkippedDeltas.
//
// A missing signature, a truncated header, or an unknowable stream boundary
// aborts the whole decode. The trailing pack checksum is not verified.
func Unpack(data []byte, store *Store) (*UnpackResult, error) {
	start := bytes.Index(data, packMagic[:])
	if start < 0 {
		return nil, fmt.Errorf("unpack: %w: no PACK marker", ErrBadPackSignature)
	}
	payload := data[start:]

	header, err := UnmarshalPackHeader(payload)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}

	res := &UnpackResult{
		Version:    header.Version,
		NumObjects: header.NumObjects,
	}

	cursor := packHeaderSize
	for i := uint32(0); i < header.NumObjects; i++ {
		objType, size, n, err := decodePackEntryHeader(payload[cursor:])
		if err != nil {
			return nil, fmt.Errorf("unpack entry %d: %w", i, err)
		}
		cursor += n

		switch objType {
		case PackCommit, PackTree, PackBlob, PackTag:
			raw, consumed, err := DecompressOne(payload[cursor:])
			if err != nil {
				if consumed == 0 {
					return nil, fmt.Errorf("unpack entry %d: stream boundary lost: %w", i, err)
				}
				cursor += consumed
				res.SkippedCorrupt++
				continue
			}
			cursor += consumed

			if uint64(len(raw)) != size {
				// Header size disagrees with the stream; the object is
				// untrustworthy but the cursor is still exact.
				res.SkippedCorrupt++
				continue
			}

			storedType, _ := objType.ObjectType()
			h, err := store.Write(storedType, raw)
			if err != nil {
				return nil, fmt.Errorf("unpack entry %d: %w", i, err)
			}
			res.Stored = append(res.Stored, h)

		case PackRefDelta:
			if len(payload[cursor:]) < RawHashSize {
				return nil, fmt.Errorf("unpack entry %d: %w: ref-delta base", i, ErrTruncatedPack)
			}
			cursor += RawHashSize
			if err := skipDeltaPayload(payload, &cursor, i); err != nil {
				return nil, err
			}
			res.SkippedDeltas++

		case PackOfsDelta:
			_, n, err := decodeOfsDeltaDistance(payload[cursor:])
			if err != nil {
				return nil, fmt.Errorf("unpack entry %d: %w", i, err)
			}
			cursor += n
			if err := skipDeltaPayload(payload, &cursor, i); err != nil {
				return nil, err
			}
			res.SkippedDeltas++

		default:
			return nil, fmt.Errorf("unpack entry %d: %w: unknown object type %d", i, ErrCorruptObject, objType)
		}
	}

	return res, nil
}

// skipDeltaPayload advances the cursor past an unresolved delta's
// compressed payload. The payload is decompressed only to learn its input
// length; the output is discarded.
func skipDeltaPayload(payload []byte, cursor *int, entry uint32) error {
	_, consumed, err := DecompressOne(payload[*cursor:])
	if err != nil && consumed == 0 {
		return fmt.Errorf("unpack entry %d: delta boundary lost: %w", entry, err)
	}
	*cursor += consumed
	return nil
}
