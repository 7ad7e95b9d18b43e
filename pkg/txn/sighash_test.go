package txn

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/txcrack/pkg/crypto/ecdsa"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/crypto/keys"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// p2pkhScript builds the canonical P2PKH locking script for a serialized
// pubkey, the script the colliding transactions were actually paying to.
func p2pkhScript(pub []byte) Script {
	h := hash.Hash160(pub)
	b := append([]byte{0x76, 0xa9, 0x14}, h.BytesBE()...)
	return NewScript(append(b, 0x88, 0xac))
}

// The strongest digest check available offline: the real signature from
// the transaction must verify against the digest we reconstruct. A single
// flipped bit anywhere in the serialization breaks it.
func TestLegacySigHashVerifies(t *testing.T) {
	e := ecdsa.Secp256k1()
	pubBytes := unhex(t, reusedPubKeyHex)
	pub, err := keys.NewPublicKeyFromBytes(pubBytes)
	require.NoError(t, err)

	for _, tc := range []struct {
		rawIdx int
		input  int
	}{
		{1, 0}, // second transaction, single input
		{2, 0}, // third transaction, single input
	} {
		tx := decodeTx(t, rawNonceReuseTxs[tc.rawIdx])
		items := collectItems(t, tx.Inputs[tc.input].Script)
		require.Equal(t, 2, len(items))
		sig, err := DecodeSignature(items[0].Data)
		require.NoError(t, err)
		require.Equal(t, pubBytes, items[1].Data)

		m, err := tx.SigHashLegacy(sig.HashType, tc.input, p2pkhScript(pubBytes))
		require.NoError(t, err)

		mInt := new(big.Int).SetBytes(m.BytesBE())
		assert.True(t, e.Verify(mInt, pub.P, sig.RInt(), sig.SInt()),
			"tx %d input %d digest must validate the embedded signature", tc.rawIdx, tc.input)
	}
}

func TestLegacySigHashScriptPlacement(t *testing.T) {
	// Zeroing scripts of other inputs is part of the algorithm: digests
	// for the two inputs of the same transaction must differ.
	tx := decodeTx(t, rawNonceReuseTxs[0])
	script := p2pkhScript(unhex(t, reusedPubKeyHex))

	m0, err := tx.SigHashLegacy(SigHashAll, 0, script)
	require.NoError(t, err)
	m1, err := tx.SigHashLegacy(SigHashAll, 1, script)
	require.NoError(t, err)
	assert.False(t, m0.Equals(m1))

	// And the original transaction is left untouched.
	out, err := tx.Bytes()
	require.NoError(t, err)
	assert.Equal(t, unhex(t, rawNonceReuseTxs[0]), out)
}

func TestSigHashSingleBug(t *testing.T) {
	// One output, two inputs: SINGLE on input 1 has no matching output
	// and must return the constant 0x01 || 0x00*31.
	tx := decodeTx(t, rawNonceReuseTxs[0])
	require.True(t, len(tx.Outputs) < 2)

	want := util.Uint256{0x01}
	for _, ht := range []HashType{SigHashSingle, SigHashSingle | SigHashAnyoneCanPay} {
		m, err := tx.SigHashLegacy(ht, 1, Script{})
		require.NoError(t, err)
		assert.True(t, m.Equals(want))
	}

	// Input 0 has a matching output and takes the normal path.
	m, err := tx.SigHashLegacy(SigHashSingle, 0, Script{})
	require.NoError(t, err)
	assert.False(t, m.Equals(want))
}

func TestSigHashUnsupportedType(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[0])
	for _, ht := range []HashType{0, 4, 5, 31, 0x80, 0x84} {
		_, err := tx.SigHashLegacy(ht, 0, Script{})
		assert.ErrorIs(t, err, ErrUnsupportedHashType, "hashtype 0x%02x", byte(ht))
	}
}

func TestSigHashBadIndex(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[0])
	_, err := tx.SigHashLegacy(SigHashAll, 2, Script{})
	assert.ErrorIs(t, err, ErrBadInputIndex)
	_, err = tx.SigHashLegacy(SigHashAll, -1, Script{})
	assert.ErrorIs(t, err, ErrBadInputIndex)
	_, err = tx.SigHashWitness(SigHashAll, 2, 0, Script{})
	assert.ErrorIs(t, err, ErrBadInputIndex)
}

func TestSigHashNoneTruncatesOutputs(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[1])
	mAll, err := tx.SigHashLegacy(SigHashAll, 0, Script{})
	require.NoError(t, err)
	mNone, err := tx.SigHashLegacy(SigHashNone, 0, Script{})
	require.NoError(t, err)
	assert.False(t, mAll.Equals(mNone))
}

func TestSigHashAnyoneCanPay(t *testing.T) {
	tx := decodeTx(t, rawNonceReuseTxs[0])
	script := p2pkhScript(unhex(t, reusedPubKeyHex))

	m, err := tx.SigHashLegacy(SigHashAll|SigHashAnyoneCanPay, 1, script)
	require.NoError(t, err)
	plain, err := tx.SigHashLegacy(SigHashAll, 1, script)
	require.NoError(t, err)
	assert.False(t, m.Equals(plain))
}

// The BIP143 P2WPKH test vector, byte for byte.
func TestWitnessSigHashBIP143(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)

	assert.Equal(t, bip143HashPrevout, tx.prevoutsHash().StringBE())

	m, err := tx.SigHashWitness(SigHashAll, 1, bip143SpentValue, Script{})
	require.NoError(t, err)
	assert.Equal(t, bip143SigHashHex, m.StringBE())
}

// Scenario: the witness digest validates the witness signature and FindPK
// recovers the witness pubkey from it.
func TestWitnessSigHashFindPK(t *testing.T) {
	e := ecdsa.Secp256k1()
	tx := decodeTx(t, rawBIP143Tx)

	sig, err := DecodeSignature(tx.Witnesses[1].Stack[0])
	require.NoError(t, err)
	require.Equal(t, SigHashAll, sig.HashType)
	pub, err := keys.NewPublicKeyFromBytes(tx.Witnesses[1].Stack[1])
	require.NoError(t, err)

	m, err := tx.SigHashWitness(sig.HashType, 1, bip143SpentValue, Script{})
	require.NoError(t, err)
	mInt := new(big.Int).SetBytes(m.BytesBE())
	assert.True(t, e.Verify(mInt, pub.P, sig.RInt(), sig.SInt()))

	found := false
	for flag := uint(0); flag < 2; flag++ {
		cand, err := e.FindPK(mInt, sig.RInt(), sig.SInt(), flag)
		if err != nil {
			continue
		}
		if cand.Equals(pub.P) {
			found = true
		}
	}
	assert.True(t, found, "FindPK must recover the witness pubkey")
}

func TestWitnessScriptCode(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)
	require.Equal(t, WitnessP2WPKH, tx.Witnesses[1].Type())
	assert.Equal(t, bip143ScriptCode,
		hash.Hash160(tx.Witnesses[1].Stack[1]).String())
}

func TestWitnessFallbackToLegacy(t *testing.T) {
	// Input 0 carries no witness data: its shape has no scriptCode rule
	// and the digest degrades to the legacy ALL digest.
	tx := decodeTx(t, rawBIP143Tx)
	require.Equal(t, WitnessUnknown, tx.Witnesses[0].Type())

	script := NewScript([]byte{0x51})
	m, err := tx.SigHashWitness(SigHashAll, 0, 1000, script)
	require.NoError(t, err)
	legacy, err := tx.SigHashLegacy(SigHashAll, 0, script)
	require.NoError(t, err)
	assert.True(t, m.Equals(legacy))
}

func TestWitnessSigHashNoWitnessTx(t *testing.T) {
	// Calling the witness digest on a legacy transaction uses the
	// provided script as scriptCode; it must at least differ per value.
	tx := decodeTx(t, rawNonceReuseTxs[1])
	script := p2pkhScript(unhex(t, reusedPubKeyHex))
	m1, err := tx.SigHashWitness(SigHashAll, 0, 1, script)
	require.NoError(t, err)
	m2, err := tx.SigHashWitness(SigHashAll, 0, 2, script)
	require.NoError(t, err)
	assert.False(t, m1.Equals(m2))
}

func TestWitnessSigHashModes(t *testing.T) {
	tx := decodeTx(t, rawBIP143Tx)
	seen := make(map[string]bool)
	for _, ht := range []HashType{
		SigHashAll, SigHashNone, SigHashSingle,
		SigHashAll | SigHashAnyoneCanPay,
		SigHashNone | SigHashAnyoneCanPay,
		SigHashSingle | SigHashAnyoneCanPay,
	} {
		m, err := tx.SigHashWitness(ht, 1, bip143SpentValue, Script{})
		require.NoError(t, err)
		assert.False(t, seen[m.StringBE()], "digest for 0x%02x collides", byte(ht))
		seen[m.StringBE()] = true
	}
}
