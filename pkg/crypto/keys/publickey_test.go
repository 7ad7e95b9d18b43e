package keys

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/txcrack/pkg/crypto/curve"
)

// The compressed generator point: the canonical test key.
const genCompressed = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func TestDecodeFromString(t *testing.T) {
	pubKey, err := NewPublicKeyFromString(genCompressed)
	require.NoError(t, err)
	assert.Equal(t, genCompressed, hex.EncodeToString(pubKey.Bytes()))
}

func TestCompressedUncompressedRoundTrip(t *testing.T) {
	pub, err := NewPublicKeyFromString(genCompressed)
	require.NoError(t, err)

	full := pub.UncompressedBytes()
	assert.Equal(t, 65, len(full))
	assert.Equal(t, byte(0x04), full[0])

	pub2, err := NewPublicKeyFromBytes(full)
	require.NoError(t, err)
	assert.True(t, pub.Equal(pub2))
	assert.Equal(t, pub.Bytes(), pub2.Bytes())
}

func TestDecodeOddParity(t *testing.T) {
	c := curve.Secp256k1()
	// Whatever the parity of the y coordinate, compression must round
	// trip through the matching prefix.
	for k := int64(2); k < 8; k++ {
		p := c.G.Mul(bigFromInt64(k))
		pub := NewPublicKeyFromPoint(p)
		b := pub.Bytes()
		assert.Equal(t, byte(0x02+p.Y().Bit(0)), b[0])

		pub2, err := NewPublicKeyFromBytes(b)
		require.NoError(t, err)
		assert.True(t, pub.Equal(pub2))
		assert.True(t, pub2.P.IsOnCurve())
	}
}

func TestDecodeFailures(t *testing.T) {
	// bad prefix
	_, err := NewPublicKeyFromString("05" + genCompressed[2:])
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	// bad length
	_, err = NewPublicKeyFromString(genCompressed[:64])
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	// empty
	_, err = NewPublicKeyFromBytes(nil)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	// uncompressed point not on the curve
	bad := make([]byte, 65)
	bad[0] = 0x04
	bad[32] = 0x01
	bad[64] = 0x01
	_, err = NewPublicKeyFromBytes(bad)
	assert.ErrorIs(t, err, curve.ErrNotOnCurve)
}

func TestHash160(t *testing.T) {
	pub, err := NewPublicKeyFromString(genCompressed)
	require.NoError(t, err)
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", pub.Hash160().String())
}
