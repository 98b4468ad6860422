package remote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
)

// AdvertisedRef is one ref line from a refs advertisement.
type AdvertisedRef struct {
	Name string
	Hash object.Hash
}

// ParseAdvertisement decodes a pkt-line refs advertisement into ref
// entries. Each pkt-line carries a 4-hex-digit length prefix that includes
// the prefix itself; "0000" is a flush marker with no payload. The
// "# service=..." banner and the capability list after the first ref's NUL
// are discarded.
func ParseAdvertisement(data []byte) ([]AdvertisedRef, error) {
	var refs []AdvertisedRef

	for len(data) > 0 {
		if len(data) < 4 {
			return nil, fmt.Errorf("parse advertisement: truncated pkt-line length")
		}
		n, err := strconv.ParseUint(string(data[:4]), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("parse advertisement: bad pkt-line length %q", data[:4])
		}

		// Flush packet.
		if n == 0 {
			data = data[4:]
			continue
		}
		if n < 4 || int(n) > len(data) {
			return nil, fmt.Errorf("parse advertisement: pkt-line length %d out of range", n)
		}

		line := string(data[4:n])
		data = data[n:]

		line = strings.TrimSuffix(line, "\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// First ref line carries "\0capability list".
		if nul := strings.IndexByte(line, 0); nul >= 0 {
			line = line[:nul]
		}

		hexPart, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		h, err := object.ParseHash(hexPart)
		if err != nil {
			continue
		}
		refs = append(refs, AdvertisedRef{Name: name, Hash: h})
	}

	return refs, nil
}

// HeadCommit picks the commit id a clone should start from, preferring
// refs/heads/main, then refs/heads/master, then HEAD.
func HeadCommit(refs []AdvertisedRef) (object.Hash, error) {
	for _, want := range []string{"refs/heads/main", "refs/heads/master", "HEAD"} {
		for _, ref := range refs {
			if ref.Name == want {
				return ref.Hash, nil
			}
		}
	}
	return "", fmt.Errorf("no suitable head ref in advertisement (%d refs)", len(refs))
}
