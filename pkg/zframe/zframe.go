// Package zframe compresses and decompresses whole buffers in the zlib
// framing used by scene scripts: a 2-byte header followed by a raw deflate
// stream. The trailing checksum is written but not verified on read.
package zframe

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// HeaderSize is the length of the zlib header skipped before inflating.
const HeaderSize = 2

var (
	// ErrShortHeader is returned when the input cannot hold the zlib header.
	ErrShortHeader = errors.New("zlib header truncated")

	// ErrTooLarge is returned when inflated data exceeds the caller's limit.
	ErrTooLarge = errors.New("decompressed data exceeds limit")
)

// Compress returns data as a zlib stream.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("create zlib writer: %w", err)
	}

	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zlib writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress skips the zlib header of data and inflates the deflate stream
// that follows. A limit greater than zero caps the inflated size.
func Decompress(data []byte, limit int64) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(data))
	}

	fr := flate.NewReader(bytes.NewReader(data[HeaderSize:]))
	defer fr.Close()

	var src io.Reader = fr
	if limit > 0 {
		src = io.LimitReader(fr, limit+1)
	}

	out, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	if limit > 0 && int64(len(out)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return out, nil
}
