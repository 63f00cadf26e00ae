package cst

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/yaklabco/cstpatch/pkg/textenc"
	"github.com/yaklabco/cstpatch/pkg/zframe"
)

// Container layout constants.
const (
	// Signature opens every script file.
	Signature = "CatScene"

	// HeaderSize is the size of the file header and of the body header.
	HeaderSize = 16

	// DefaultMaxBodySize caps the decompressed body.
	DefaultMaxBodySize = 64 << 20

	lineMarker     = 1
	lineOverhead   = 3 // marker, type, terminator
	blockRecord    = 8
	lineTableEntry = 4
)

// Codec converts between script files and Script values.
// The zero value is not usable; create one with NewCodec.
type Codec struct {
	// Encoding decodes and encodes every line's text.
	Encoding textenc.Encoding

	// MaxBodySize limits the decompressed body. Zero or less disables the limit.
	MaxBodySize int64
}

// NewCodec returns a Codec using enc, or Shift_JIS when enc is nil.
func NewCodec(enc textenc.Encoding) *Codec {
	if enc == nil {
		enc = textenc.ShiftJIS()
	}
	return &Codec{Encoding: enc, MaxBodySize: DefaultMaxBodySize}
}

// ReadFrom reads a whole script from r. label annotates every produced line.
func (c *Codec) ReadFrom(r io.Reader, label string) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return c.Decode(data, label)
}

// Decode parses a complete script file.
func (c *Codec) Decode(data []byte, label string) (*Script, error) {
	if len(data) < HeaderSize {
		return nil, formatErrorf(0, "file header truncated: %d of %d bytes", len(data), HeaderSize)
	}
	if !bytes.Equal(data[:len(Signature)], []byte(Signature)) {
		return nil, formatErrorf(0, "signature mismatch: got %q", data[:len(Signature)])
	}

	compressedSize := binary.LittleEndian.Uint32(data[8:12])
	uncompressedSize := binary.LittleEndian.Uint32(data[12:16])

	body := data[HeaderSize:]
	if compressedSize != 0 {
		if uint64(compressedSize) > uint64(len(body)) {
			return nil, formatErrorf(8, "compressed size %d exceeds %d available bytes", compressedSize, len(body))
		}
		inflated, err := zframe.Decompress(body[:compressedSize], c.MaxBodySize)
		if err != nil {
			return nil, &FormatError{Offset: HeaderSize, Msg: "decompress body", Err: err}
		}
		body = inflated
	}

	return c.parseBody(body, uncompressedSize, label)
}

// parseBody interprets the (decompressed) body. Offsets stored in the body
// header are relative to the end of that header.
func (c *Codec) parseBody(body []byte, uncompressedSize uint32, label string) (*Script, error) {
	if len(body) < HeaderSize {
		return nil, formatErrorf(0, "body header truncated: %d of %d bytes", len(body), HeaderSize)
	}

	dataLength := uint64(binary.LittleEndian.Uint32(body[0:4])) + HeaderSize
	blockCount := uint64(binary.LittleEndian.Uint32(body[4:8]))
	tableStart := uint64(binary.LittleEndian.Uint32(body[8:12])) + HeaderSize
	dataStart := uint64(binary.LittleEndian.Uint32(body[12:16])) + HeaderSize

	if uncompressedSize != 0 && uint64(uncompressedSize) != dataLength {
		return nil, formatErrorf(0, "declared uncompressed size %d does not match data length %d",
			uncompressedSize, dataLength)
	}
	if dataLength > uint64(len(body)) {
		return nil, formatErrorf(0, "data length %d exceeds body of %d bytes", dataLength, len(body))
	}
	body = body[:dataLength]

	if dataStart < tableStart || dataStart > dataLength {
		return nil, formatErrorf(12, "line data offset %d outside [%d, %d]", dataStart, tableStart, dataLength)
	}
	tableLength := dataStart - tableStart
	if tableLength%lineTableEntry != 0 {
		return nil, formatErrorf(8, "line table length %d is not a multiple of %d", tableLength, lineTableEntry)
	}
	if HeaderSize+blockCount*blockRecord > tableStart {
		return nil, formatErrorf(4, "block table of %d records overruns line table at %d", blockCount, tableStart)
	}
	lineCount := tableLength / lineTableEntry

	script := &Script{
		Blocks: make([]Block, 0, blockCount),
		Lines:  make([]*Line, 0, lineCount),
	}

	for i := range blockCount {
		pos := HeaderSize + i*blockRecord
		script.Blocks = append(script.Blocks, Block{
			Length: binary.LittleEndian.Uint32(body[pos:]),
			Start:  binary.LittleEndian.Uint32(body[pos+4:]),
		})
	}

	for i := range lineCount {
		entry := tableStart + i*lineTableEntry
		pos := dataStart + uint64(binary.LittleEndian.Uint32(body[entry:]))
		if pos+2 > dataLength {
			return nil, formatErrorf(entry, "line %d: offset points past end of data", i)
		}
		if marker := body[pos]; marker != lineMarker {
			return nil, formatErrorf(pos, "line %d: expected marker byte %d, got %d", i, lineMarker, marker)
		}

		raw := body[pos+2:]
		if end := bytes.IndexByte(raw, 0); end >= 0 {
			raw = raw[:end]
		}
		content, err := c.Encoding.Decode(raw)
		if err != nil {
			return nil, &FormatError{Offset: int64(pos), Msg: fmt.Sprintf("line %d: decode text", i), Err: err} //nolint:gosec // bounded by body length
		}

		script.Lines = append(script.Lines, &Line{
			Script:  label,
			ID:      int(i), //nolint:gosec // bounded by body length
			Type:    LineType(body[pos+1]),
			Content: content,
		})
	}

	return script, nil
}

// WriteTo encodes s and writes it to w in one call.
func (c *Codec) WriteTo(w io.Writer, s *Script, compress bool) (int64, error) {
	data, err := c.Encode(s, compress)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("write script: %w", err)
	}
	return int64(n), nil
}

// Encode serializes s, recomputing every offset. With compress set the body
// is zlib-compressed and the header carries the compressed size; otherwise it
// carries the uncompressed body size.
func (c *Codec) Encode(s *Script, compress bool) ([]byte, error) {
	body, err := c.encodeBody(s)
	if err != nil {
		return nil, err
	}

	header := make([]byte, 0, HeaderSize)
	header = append(header, Signature...)

	if !compress {
		header = binary.LittleEndian.AppendUint32(header, 0)
		header = binary.LittleEndian.AppendUint32(header, uint32(len(body))) //nolint:gosec // checked in encodeBody
		return append(header, body...), nil
	}

	packed, err := zframe.Compress(body)
	if err != nil {
		return nil, fmt.Errorf("compress body: %w", err)
	}
	if uint64(len(packed)) > math.MaxUint32 {
		return nil, fmt.Errorf("compressed body of %d bytes does not fit the header", len(packed))
	}
	header = binary.LittleEndian.AppendUint32(header, uint32(len(packed)))
	header = binary.LittleEndian.AppendUint32(header, 0)
	return append(header, packed...), nil
}

func (c *Codec) encodeBody(s *Script) ([]byte, error) {
	encoded := make([][]byte, len(s.Lines))
	dataSize := 0
	for i, line := range s.Lines {
		text, err := c.Encoding.Encode(line.Content)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", line.Location(), err)
		}
		if bytes.IndexByte(text, 0) >= 0 {
			return nil, fmt.Errorf("encode %s: text contains a NUL byte", line.Location())
		}
		encoded[i] = text
		dataSize += len(text) + lineOverhead
	}

	size := HeaderSize + len(s.Blocks)*blockRecord + len(s.Lines)*lineTableEntry + dataSize
	if uint64(size) > math.MaxUint32 {
		return nil, fmt.Errorf("script body of %d bytes does not fit the header", size)
	}

	body := make([]byte, HeaderSize, size)
	for i := range body {
		body[i] = 0xFF
	}

	for _, block := range s.Blocks {
		body = binary.LittleEndian.AppendUint32(body, block.Length)
		body = binary.LittleEndian.AppendUint32(body, block.Start)
	}

	lineTableOffset := len(body)
	var offset uint32
	for _, text := range encoded {
		body = binary.LittleEndian.AppendUint32(body, offset)
		offset += uint32(len(text) + lineOverhead) //nolint:gosec // total size checked above
	}

	lineDataOffset := len(body)
	for i, line := range s.Lines {
		body = append(body, lineMarker, byte(line.Type))
		body = append(body, encoded[i]...)
		body = append(body, 0)
	}

	binary.LittleEndian.PutUint32(body[0:], uint32(len(body)-HeaderSize))       //nolint:gosec // checked above
	binary.LittleEndian.PutUint32(body[4:], uint32(len(s.Blocks)))              //nolint:gosec // checked above
	binary.LittleEndian.PutUint32(body[8:], uint32(lineTableOffset-HeaderSize)) //nolint:gosec // checked above
	binary.LittleEndian.PutUint32(body[12:], uint32(lineDataOffset-HeaderSize)) //nolint:gosec // checked above

	return body, nil
}
