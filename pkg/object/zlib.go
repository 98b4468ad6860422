package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compress deflates data into a complete zlib stream at the default
// compression level.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("deflate close: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressAll inflates a complete zlib stream. sizeHint pre-sizes the
// output buffer; the output grows past it when the hint is low. Fails with
// ErrCorruptStream on a truncated or malformed stream.
func DecompressAll(data []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}
	defer zr.Close()

	if sizeHint < 0 {
		sizeHint = 0
	}
	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}
	return buf.Bytes(), nil
}

// DecompressOne inflates exactly one zlib stream embedded at the start of
// data and reports how many input bytes the stream occupied, so a caller
// walking back-to-back streams can advance to the next one.
//
// The consumed count is valid even when decompression fails partway, as
// long as it is non-zero; a zero count means the stream boundary is
// unknowable and the caller cannot continue.
//
// bytes.Reader satisfies io.ByteReader, so the inflater reads its input
// byte-wise and never pulls bytes past the end of the stream.
func DecompressOne(data []byte) (out []byte, consumed int, err error) {
	sub := bytes.NewReader(data)
	zr, err := zlib.NewReader(sub)
	if err != nil {
		return nil, len(data) - sub.Len(), fmt.Errorf("%w: %s", ErrCorruptStream, err)
	}

	var buf bytes.Buffer
	_, copyErr := io.Copy(&buf, zr)
	closeErr := zr.Close()
	consumed = len(data) - sub.Len()

	if copyErr != nil {
		return nil, consumed, fmt.Errorf("%w: %s", ErrCorruptStream, copyErr)
	}
	if closeErr != nil {
		return nil, consumed, fmt.Errorf("%w: %s", ErrCorruptStream, closeErr)
	}
	return buf.Bytes(), consumed, nil
}
