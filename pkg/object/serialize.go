package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj into the canonical binary tree encoding:
// for each entry "<mode> <name>\0" followed by the 20 raw bytes of the
// entry hash. No separators between entries, no trailing marker. Entries
// must already be sorted byte-wise by Name; ordering is the caller's
// responsibility and is not re-applied here.
func MarshalTree(tr *TreeObj) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range tr.Entries {
		raw, err := e.Hash.Raw()
		if err != nil {
			return nil, fmt.Errorf("marshal tree entry %q: %w", e.Name, err)
		}
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// UnmarshalTree parses the binary tree encoding back into entries, in the
// order they appear. An empty payload is an empty tree. Fails with
// ErrCorruptObject when the payload ends mid-entry.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	for len(data) > 0 {
		spaceIdx := bytes.IndexByte(data, ' ')
		if spaceIdx < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: no space after mode", ErrCorruptObject)
		}
		mode := string(data[:spaceIdx])
		data = data[spaceIdx+1:]

		nulIdx := bytes.IndexByte(data, 0)
		if nulIdx < 0 {
			return nil, fmt.Errorf("unmarshal tree: %w: unterminated name", ErrCorruptObject)
		}
		name := string(data[:nulIdx])
		data = data[nulIdx+1:]

		if len(data) < RawHashSize {
			return nil, fmt.Errorf("unmarshal tree: %w: truncated hash for %q", ErrCorruptObject, name)
		}
		h, err := HashFromRaw(data[:RawHashSize])
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: %w", err)
		}
		data = data[RawHashSize:]

		tr.Entries = append(tr.Entries, TreeEntry{
			Mode: mode,
			Name: name,
			Hash: h,
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj into the canonical commit payload:
//
//	tree <hex>
//	parent <hex>    (omitted for root commits)
//	author <identity> <unix-seconds> +0000
//	committer <identity> <unix-seconds> +0000
//
//	<message>
//
// The message always ends with a newline.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.TreeHash))
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", string(c.Parent))
	}
	fmt.Fprintf(&buf, "author %s %d +0000\n", c.Author, c.AuthorTime)
	fmt.Fprintf(&buf, "committer %s %d +0000\n", c.Committer, c.CommitterTime)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	if !strings.HasSuffix(c.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: %w: missing header/message separator", ErrCorruptObject)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &CommitObj{Message: message}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: %w: malformed header line %q", ErrCorruptObject, line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: tree: %w", err)
			}
			c.TreeHash = h
		case "parent":
			if c.Parent != "" {
				return nil, fmt.Errorf("unmarshal commit: %w: multiple parents unsupported", ErrCorruptObject)
			}
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: parent: %w", err)
			}
			c.Parent = h
		case "author":
			ident, ts, err := parseIdentityLine(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: author: %w", err)
			}
			c.Author = ident
			c.AuthorTime = ts
		case "committer":
			ident, ts, err := parseIdentityLine(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: committer: %w", err)
			}
			c.Committer = ident
			c.CommitterTime = ts
		default:
			return nil, fmt.Errorf("unmarshal commit: %w: unknown header key %q", ErrCorruptObject, key)
		}
	}
	return c, nil
}

// parseIdentityLine splits "<identity> <unix-seconds> <timezone>" from the
// right, since the identity itself contains spaces.
func parseIdentityLine(val string) (string, int64, error) {
	fields := strings.Split(val, " ")
	if len(fields) < 3 {
		return "", 0, fmt.Errorf("%w: malformed identity %q", ErrCorruptObject, val)
	}
	ts, err := strconv.ParseInt(fields[len(fields)-2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad timestamp in %q", ErrCorruptObject, val)
	}
	ident := strings.Join(fields[:len(fields)-2], " ")
	return ident, ts, nil
}
