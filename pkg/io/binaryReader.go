// Package io provides the binary reading and writing helpers used by the
// transaction codec: little-endian integers, Bitcoin-style variable-length
// integers and sticky error handling.
package io

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned when the underlying reader runs out of data in
// the middle of a field.
var ErrTruncated = errors.New("truncated input")

// MaxArraySize is the maximum size of an array which can be decoded. It is
// a sanity bound, not a consensus rule.
const MaxArraySize = 0x1000000

// BinReader is a convenient wrapper around an io.Reader and an err object.
// Used to simplify error handling when reading into a struct with many
// fields. Once an error happens all further reads are no-ops.
type BinReader struct {
	r   io.Reader
	u64 []byte
	u32 []byte
	u16 []byte
	u8  []byte
	Err error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	u64 := make([]byte, 8)
	u32 := u64[:4]
	u16 := u64[:2]
	u8 := u64[:1]
	return &BinReader{r: ior, u64: u64, u32: u32, u16: u16, u8: u8}
}

// NewBinReaderFromBuf makes a BinReader from byte buffer.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(newBufReader(b))
}

// bufReader is a minimal reader over a byte slice. Unlike bytes.Reader it
// lets BinReader distinguish a clean end of data (io.EOF) from a short read
// in the middle of a field.
type bufReader struct {
	b   []byte
	off int
}

func newBufReader(b []byte) *bufReader { return &bufReader{b: b} }

func (r *bufReader) Read(p []byte) (int, error) {
	if r.off >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.off:])
	r.off += n
	return n, nil
}

// ReadU64LE reads a little-endian encoded uint64 value from the underlying
// io.Reader. On read failures it returns zero.
func (r *BinReader) ReadU64LE() uint64 {
	r.ReadBytes(r.u64)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(r.u64)
}

// ReadU32LE reads a little-endian encoded uint32 value from the underlying
// io.Reader. On read failures it returns zero.
func (r *BinReader) ReadU32LE() uint32 {
	r.ReadBytes(r.u32)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(r.u32)
}

// ReadU16LE reads a little-endian encoded uint16 value from the underlying
// io.Reader. On read failures it returns zero.
func (r *BinReader) ReadU16LE() uint16 {
	r.ReadBytes(r.u16)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(r.u16)
}

// ReadB reads a byte from the underlying io.Reader. On read failures it
// returns zero.
func (r *BinReader) ReadB() byte {
	r.ReadBytes(r.u8)
	if r.Err != nil {
		return 0
	}
	return r.u8[0]
}

// ReadBytes copies a fixed-size buffer from the reader to provided slice.
// A partial read surfaces as ErrTruncated.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	n, err := io.ReadFull(r.r, buf)
	if err == io.ErrUnexpectedEOF || (err == io.EOF && n > 0) {
		err = fmt.Errorf("%w: want %d bytes, got %d", ErrTruncated, len(buf), n)
	}
	r.Err = err
}

// ReadVarUint reads a Bitcoin-style variable-length integer from the
// underlying reader: a single byte below 0xFD holds the value itself,
// 0xFD/0xFE/0xFF prefix a little-endian u16/u32/u64.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}

	var b = r.ReadB()

	if b == 0xfd {
		return uint64(r.ReadU16LE())
	}
	if b == 0xfe {
		return uint64(r.ReadU32LE())
	}
	if b == 0xff {
		return r.ReadU64LE()
	}

	return uint64(b)
}

// ReadVarBytes reads the next set of bytes from the underlying reader.
// ReadVarUint is used to determine how large that slice is.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if n > uint64(ms) {
		r.Err = fmt.Errorf("byte-slice length %d exceeds the limit of %d", n, ms)
		return nil
	}
	if r.Err != nil {
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	if r.Err != nil {
		return nil
	}
	return b
}
