// Package keys handles Bitcoin-style key material: SEC-encoded public keys
// (compressed and uncompressed) and private keys with their WIF
// representation.
package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/txcrack/pkg/crypto/curve"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// ErrInvalidEncoding is returned for byte strings that are not a valid SEC
// public key encoding.
var ErrInvalidEncoding = errors.New("invalid public key encoding")

// secp256k1 is the only curve this package deals with.
var secp256k1 = curve.Secp256k1()

// coordLen is the byte length of a serialized coordinate.
const coordLen = 32

// PublicKey represents a public key on the secp256k1 curve.
type PublicKey struct {
	P curve.Point
}

// NewPublicKeyFromPoint wraps an existing curve point.
func NewPublicKeyFromPoint(p curve.Point) *PublicKey {
	return &PublicKey{P: p}
}

// NewPublicKeyFromBytes decodes a 33-byte compressed (0x02/0x03 prefix) or
// 65-byte uncompressed (0x04 prefix) public key.
func NewPublicKeyFromBytes(b []byte) (*PublicKey, error) {
	switch {
	case len(b) == 1+coordLen && (b[0] == 0x02 || b[0] == 0x03):
		p, err := secp256k1.Decompress(new(big.Int).SetBytes(b[1:]), uint(b[0]&1))
		if err != nil {
			return nil, err
		}
		return &PublicKey{P: p}, nil
	case len(b) == 1+2*coordLen && b[0] == 0x04:
		p := secp256k1.Point(
			new(big.Int).SetBytes(b[1:1+coordLen]),
			new(big.Int).SetBytes(b[1+coordLen:]))
		if !p.IsOnCurve() {
			return nil, curve.ErrNotOnCurve
		}
		return &PublicKey{P: p}, nil
	default:
		return nil, fmt.Errorf("%w: %d bytes, prefix 0x%02x", ErrInvalidEncoding, len(b), prefixOf(b))
	}
}

func prefixOf(b []byte) byte {
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

// NewPublicKeyFromString decodes a hex-encoded public key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPublicKeyFromBytes(b)
}

// Bytes returns the 33-byte compressed encoding of the key.
func (p *PublicKey) Bytes() []byte {
	prefix := byte(0x02 + p.P.Y().Bit(0))
	return append([]byte{prefix}, p.P.X().FillBytes(make([]byte, coordLen))...)
}

// UncompressedBytes returns the 65-byte uncompressed encoding of the key.
func (p *PublicKey) UncompressedBytes() []byte {
	b := make([]byte, 1+2*coordLen)
	b[0] = 0x04
	p.P.X().FillBytes(b[1 : 1+coordLen])
	p.P.Y().FillBytes(b[1+coordLen:])
	return b
}

// Hash160 returns HASH160 of the compressed encoding.
func (p *PublicKey) Hash160() util.Uint160 {
	return hash.Hash160(p.Bytes())
}

// Equal reports whether both keys are the same curve point.
func (p *PublicKey) Equal(other *PublicKey) bool {
	return p.P.Equals(other.P)
}

// String implements the stringer interface.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}
