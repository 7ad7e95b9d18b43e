package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/txcrack/internal/testserdes"
)

func TestDecodeEncodeLegacy(t *testing.T) {
	for i, rawHex := range rawNonceReuseTxs {
		raw := unhex(t, rawHex)
		tx, err := NewTransactionFromBytes(raw)
		require.NoError(t, err, "tx %d", i)
		assert.False(t, tx.HasWitness())
		assert.Equal(t, uint32(1), tx.Version)

		out, err := tx.Bytes()
		require.NoError(t, err)
		assert.Equal(t, raw, out, "tx %d must re-encode byte-exactly", i)

		noWit, err := tx.BytesNoWitness()
		require.NoError(t, err)
		assert.Equal(t, raw, noWit, "legacy txs have no witness to strip")
	}
}

func TestDecodeLegacyStructure(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[0])
	require.Equal(t, 2, len(tx.Inputs))
	require.Equal(t, 1, len(tx.Outputs))
	assert.Equal(t, uint64(10000000), tx.Outputs[0].Value)
	assert.Equal(t, uint32(0), tx.Inputs[0].PrevIndex)
	assert.Equal(t, uint32(1), tx.Inputs[1].PrevIndex)
	assert.Equal(t, tx.Inputs[0].PrevHash, tx.Inputs[1].PrevHash,
		"both inputs spend the same transaction")
	assert.Equal(t, uint32(0xffffffff), tx.Inputs[0].Sequence)
	assert.Equal(t, uint32(0), tx.LockTime)
}

func TestDecodeEncodeSegwit(t *testing.T) {
	raw := unhex(t, rawBIP143Tx)
	tx, err := NewTransactionFromBytes(raw)
	require.NoError(t, err)
	assert.True(t, tx.HasWitness())
	require.Equal(t, 2, len(tx.Inputs))
	require.Equal(t, 2, len(tx.Witnesses))
	assert.Equal(t, 0, len(tx.Witnesses[0].Stack))
	assert.Equal(t, 2, len(tx.Witnesses[1].Stack))
	assert.Equal(t, unhex(t, bip143PubKeyHex), tx.Witnesses[1].Stack[1])
	assert.Equal(t, uint32(17), tx.LockTime)

	out, err := tx.Bytes()
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestTxidIgnoresWitness(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)
	id1, err := tx.Hash()
	require.NoError(t, err)

	// Mangle the witness data; the id must not move.
	tx.Witnesses[1].Stack[0][5] ^= 0xff
	id2, err := tx.Hash()
	require.NoError(t, err)
	assert.True(t, id1.Equals(id2))

	// Stripping the witness entirely doesn't move it either.
	tx.Witnesses = nil
	id3, err := tx.Hash()
	require.NoError(t, err)
	assert.True(t, id1.Equals(id3))
}

func TestNoWitnessEncodingDropsMarker(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)
	stripped, err := tx.BytesNoWitness()
	require.NoError(t, err)

	tx2, err := NewTransactionFromBytes(stripped)
	require.NoError(t, err)
	assert.False(t, tx2.HasWitness())
	assert.Equal(t, len(tx.Inputs), len(tx2.Inputs))
	assert.Equal(t, tx.LockTime, tx2.LockTime)
}

func TestDecodeTruncated(t *testing.T) {
	raw := unhex(t, rawNonceReuseTxs[0])
	for _, cut := range []int{1, 5, 41, 100, len(raw) - 1} {
		_, err := NewTransactionFromBytes(raw[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestDecodeBadSegwitFlag(t *testing.T) {
	// version || marker 0x00 || flag 0x00 is invalid.
	_, err := NewTransactionFromBytes([]byte{1, 0, 0, 0, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrBadSegwitFlag)
}

func TestSerializableRoundTrip(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[1])
	testserdes.EncodeDecodeBinary(t, tx, new(Transaction))
}

func TestInputOutputRoundTrip(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[0])
	testserdes.EncodeDecodeBinary(t, &tx.Inputs[0], new(Input))
	testserdes.EncodeDecodeBinary(t, &tx.Outputs[0], new(Output))
}

func TestWitnessRoundTrip(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)
	testserdes.EncodeDecodeBinary(t, &tx.Witnesses[1], new(Witness))
}
