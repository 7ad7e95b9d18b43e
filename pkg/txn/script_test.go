package txn

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/txcrack/pkg/io"
)

func collectItems(t *testing.T, s Script) []Item {
	var items []Item
	it := s.Iterate()
	for item, ok := it.Next(); ok; item, ok = it.Next() {
		items = append(items, item)
	}
	require.NoError(t, it.Err())
	return items
}

func TestIterateP2PKHOutput(t *testing.T) {
	// DUP HASH160 <20 bytes> EQUALVERIFY CHECKSIG
	tx := decodeTx(t, rawNonceReuseTxs[0])
	items := collectItems(t, tx.Outputs[0].Script)
	require.Equal(t, 5, len(items))
	assert.Equal(t, KindOpcode, items[0].Kind)
	assert.Equal(t, byte(0x76), items[0].Value)
	assert.Equal(t, KindOpcode, items[1].Kind)
	assert.Equal(t, byte(0xa9), items[1].Value)
	assert.Equal(t, KindData, items[2].Kind)
	assert.Equal(t, 20, len(items[2].Data))
	assert.Equal(t, byte(0x88), items[3].Value)
	assert.Equal(t, byte(0xac), items[4].Value)
}

func TestIterateScriptSig(t *testing.T) {
	// <signature> <pubkey>
	tx := decodeTx(t, rawNonceReuseTxs[0])
	items := collectItems(t, tx.Inputs[0].Script)
	require.Equal(t, 2, len(items))
	assert.Equal(t, KindData, items[0].Kind)
	assert.Equal(t, 0x48, len(items[0].Data))
	assert.Equal(t, byte(0x30), items[0].Data[0])
	assert.Equal(t, KindData, items[1].Kind)
	assert.Equal(t, 0x41, len(items[1].Data))
}

func TestIterateConstants(t *testing.T) {
	// OP_1 .. OP_16
	var code []byte
	for b := byte(81); b <= 96; b++ {
		code = append(code, b)
	}
	items := collectItems(t, NewScript(code))
	require.Equal(t, 16, len(items))
	for i, item := range items {
		assert.Equal(t, KindConstant, item.Kind)
		assert.Equal(t, byte(i+1), item.Value)
	}
}

func TestIteratePushdata(t *testing.T) {
	payload := bytes.Repeat([]byte{0xaa}, 300)

	// PUSHDATA1
	code := append([]byte{76, 5}, payload[:5]...)
	items := collectItems(t, NewScript(code))
	require.Equal(t, 1, len(items))
	assert.Equal(t, payload[:5], items[0].Data)

	// PUSHDATA2, length 300 little-endian
	code = append([]byte{77, 0x2c, 0x01}, payload...)
	items = collectItems(t, NewScript(code))
	require.Equal(t, 1, len(items))
	assert.Equal(t, payload, items[0].Data)

	// PUSHDATA4
	code = append([]byte{78, 0x2c, 0x01, 0x00, 0x00}, payload...)
	items = collectItems(t, NewScript(code))
	require.Equal(t, 1, len(items))
	assert.Equal(t, payload, items[0].Data)
}

func TestIterateEmptyPush(t *testing.T) {
	items := collectItems(t, NewScript([]byte{0x00}))
	require.Equal(t, 1, len(items))
	assert.Equal(t, KindData, items[0].Kind)
	assert.Equal(t, 0, len(items[0].Data))
}

func TestIterateTruncatedPush(t *testing.T) {
	// A push declaring more bytes than remain must terminate without
	// panicking.
	it := NewScript([]byte{10, 0x01, 0x02}).Iterate()
	_, ok := it.Next()
	assert.False(t, ok)

	// Same through the PUSHDATA2 route.
	it = NewScript([]byte{77, 0xff, 0xff, 0x00}).Iterate()
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIterateEmptyScript(t *testing.T) {
	it := NewScript(nil).Iterate()
	_, ok := it.Next()
	assert.False(t, ok)
	assert.NoError(t, it.Err())
}

func TestScriptSerialization(t *testing.T) {
	s := NewScript([]byte{0x51, 0x52})
	w := io.NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	require.NoError(t, w.Err)
	assert.Equal(t, []byte{0x02, 0x51, 0x52}, w.Bytes())
}
