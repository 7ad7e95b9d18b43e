package io

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mocks io.Reader and io.Writer, always fails to Write() or Read().
type badRW struct{}

func (w *badRW) Write(p []byte) (int, error) {
	return 0, errors.New("it always fails")
}

func (w *badRW) Read(p []byte) (int, error) {
	return w.Write(p)
}

func TestWriteU64LE(t *testing.T) {
	var (
		val     uint64 = 0xbadc0de15a11dead
		readval uint64
		bin     = []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU64LE(val)
	assert.Nil(t, bw.Error())
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU64LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteU32LE(t *testing.T) {
	var (
		val     uint32 = 0xdeadbeef
		readval uint32
		bin     = []byte{0xef, 0xbe, 0xad, 0xde}
	)
	bw := NewBufBinWriter()
	bw.WriteU32LE(val)
	assert.Nil(t, bw.Error())
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU32LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteU16LE(t *testing.T) {
	var (
		val     uint16 = 0xbabe
		readval uint16
		bin     = []byte{0xbe, 0xba}
	)
	bw := NewBufBinWriter()
	bw.WriteU16LE(val)
	assert.Nil(t, bw.Error())
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU16LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteByte(t *testing.T) {
	var (
		val     byte = 0xa5
		readval byte
		bin     = []byte{0xa5}
	)
	bw := NewBufBinWriter()
	bw.WriteB(val)
	assert.Nil(t, bw.Error())
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadB()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestWriteVarUint1(t *testing.T) {
	var val = uint64(1)
	bw := NewBufBinWriter()
	bw.WriteVarUint(val)
	assert.Nil(t, bw.Error())
	buf := bw.Bytes()
	assert.Equal(t, 1, len(buf))
	assert.Equal(t, byte(1), buf[0])
}

func TestWriteVarUint1000(t *testing.T) {
	var val = uint64(1000)
	bw := NewBufBinWriter()
	bw.WriteVarUint(val)
	assert.Nil(t, bw.Error())
	buf := bw.Bytes()
	assert.Equal(t, 3, len(buf))
	assert.Equal(t, byte(0xfd), buf[0])
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarUint()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, res)
}

func TestWriteVarUint100000(t *testing.T) {
	var val = uint64(100000)
	bw := NewBufBinWriter()
	bw.WriteVarUint(val)
	assert.Nil(t, bw.Error())
	buf := bw.Bytes()
	assert.Equal(t, 5, len(buf))
	assert.Equal(t, byte(0xfe), buf[0])
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarUint()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, res)
}

func TestWriteVarUint1000000000000(t *testing.T) {
	var val = uint64(1000000000000)
	bw := NewBufBinWriter()
	bw.WriteVarUint(val)
	assert.Nil(t, bw.Error())
	buf := bw.Bytes()
	assert.Equal(t, 9, len(buf))
	assert.Equal(t, byte(0xff), buf[0])
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarUint()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, res)
}

// Boundary values must pick the smallest encoding that fits.
func TestWriteVarUintBoundaries(t *testing.T) {
	for val, size := range map[uint64]int{
		0xfc:        1,
		0xfd:        3,
		0xffff:      3,
		0x10000:     5,
		0xffffffff:  5,
		0x100000000: 9,
	} {
		bw := NewBufBinWriter()
		bw.WriteVarUint(val)
		require.Nil(t, bw.Error())
		buf := bw.Bytes()
		require.Equal(t, size, len(buf), "value 0x%x", val)
		br := NewBinReaderFromBuf(buf)
		require.Equal(t, val, br.ReadVarUint())
		require.Nil(t, br.Err)
	}
}

func TestWriteVarBytes(t *testing.T) {
	var bin = []byte{0xde, 0xad, 0xbe, 0xef}
	bw := NewBufBinWriter()
	bw.WriteVarBytes(bin)
	assert.Nil(t, bw.Error())
	buf := bw.Bytes()
	assert.Equal(t, 5, len(buf))
	assert.Equal(t, byte(4), buf[0])
	br := NewBinReaderFromBuf(buf)
	res := br.ReadVarBytes()
	assert.Nil(t, br.Err)
	assert.Equal(t, bin, res)
}

func TestReadLEErrors(t *testing.T) {
	bin := []byte{0xad, 0xde, 0x11, 0x5a, 0xe1, 0x0d, 0xdc, 0xba}
	br := NewBinReaderFromBuf(bin)
	// Drain the buffer.
	_ = br.ReadU64LE()

	assert.Equal(t, uint64(0), br.ReadU64LE())
	assert.Equal(t, uint32(0), br.ReadU32LE())
	assert.Equal(t, uint16(0), br.ReadU16LE())
	assert.Equal(t, byte(0), br.ReadB())
	assert.Error(t, br.Err)
}

func TestReadTruncated(t *testing.T) {
	// Three bytes where four are needed: a short read in the middle of a
	// field must surface as ErrTruncated, not as a clean EOF.
	br := NewBinReaderFromBuf([]byte{0x01, 0x02, 0x03})
	_ = br.ReadU32LE()
	require.ErrorIs(t, br.Err, ErrTruncated)
}

func TestReadVarBytesLimit(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{0x05, 1, 2, 3, 4, 5})
	_ = br.ReadVarBytes(4)
	require.Error(t, br.Err)

	br = NewBinReaderFromBuf([]byte{0x05, 1, 2, 3, 4, 5})
	res := br.ReadVarBytes(5)
	require.NoError(t, br.Err)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, res)
}

func TestBufBinWriterErr(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU32LE(0)
	assert.Nil(t, bw.Error())
	// inject error
	bw.Err = errors.New("oopsie")
	res := bw.Bytes()
	assert.Error(t, bw.Error())
	assert.Nil(t, res)
}

func TestBufBinWriterReset(t *testing.T) {
	bw := NewBufBinWriter()
	for i := 0; i < 3; i++ {
		bw.WriteU32LE(uint32(i))
		assert.Nil(t, bw.Error())
		_ = bw.Bytes()
		assert.Error(t, bw.Error())
		bw.Reset()
		assert.Nil(t, bw.Error())
	}
}

func TestWriterErrHandling(t *testing.T) {
	var badio = &badRW{}
	bw := NewBinWriterFromIO(badio)
	bw.WriteU32LE(0)
	assert.Error(t, bw.Err)
	// these should work (without panic), preserving the Err
	bw.WriteU32LE(0)
	bw.WriteVarUint(0)
	bw.WriteVarBytes([]byte{0x55, 0xaa})
	assert.Error(t, bw.Err)
}

func TestReaderErrHandling(t *testing.T) {
	var badio = &badRW{}
	br := NewBinReaderFromIO(badio)
	_ = br.ReadU32LE()
	assert.Error(t, br.Err)
	// these should work (without panic), preserving the Err
	_ = br.ReadU32LE()
	_ = br.ReadVarUint()
	_ = br.ReadVarBytes()
	assert.Error(t, br.Err)
}
