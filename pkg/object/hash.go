package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// RawHashSize is the length of a binary object id.
const RawHashSize = sha1.Size

// HexHashSize is the length of a hex-encoded object id.
const HexHashSize = RawHashSize * 2

// HashBytes computes the raw SHA-1 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the envelope "type len\0content",
// matching Git's object hashing.
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ParseHash validates a 40-character lowercase hex string and returns it as
// a Hash. Fails with ErrMalformedHash on bad length or non-hex input.
func ParseHash(s string) (Hash, error) {
	if len(s) != HexHashSize {
		return "", fmt.Errorf("%w: length %d, want %d", ErrMalformedHash, len(s), HexHashSize)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMalformedHash, err)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// HashFromRaw converts a 20-byte binary digest into its hex Hash form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != RawHashSize {
		return "", fmt.Errorf("%w: raw length %d, want %d", ErrMalformedHash, len(raw), RawHashSize)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Raw returns the 20-byte binary form of the hash. Fails with
// ErrMalformedHash if the hash is not 40 hex characters.
func (h Hash) Raw() ([]byte, error) {
	if len(h) != HexHashSize {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrMalformedHash, len(h), HexHashSize)
	}
	raw, err := hex.DecodeString(string(h))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedHash, err)
	}
	return raw, nil
}
