package keys

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/txcrack/pkg/crypto/ecdsa"
)

// ErrInvalidKeyRange is returned for private keys outside of [1, n-1].
var ErrInvalidKeyRange = errors.New("private key out of range")

var engine = ecdsa.Secp256k1()

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	d *big.Int
}

// NewPrivateKeyFromBytes creates a key from its 32-byte big-endian
// representation.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != coordLen {
		return nil, fmt.Errorf("invalid private key length %d", len(b))
	}
	return NewPrivateKeyFromInt(new(big.Int).SetBytes(b))
}

// NewPrivateKeyFromInt creates a key from an integer in [1, n-1].
func NewPrivateKeyFromInt(d *big.Int) (*PrivateKey, error) {
	if d.Sign() <= 0 || d.Cmp(secp256k1.N) >= 0 {
		return nil, ErrInvalidKeyRange
	}
	return &PrivateKey{d: new(big.Int).Set(d)}, nil
}

// Bytes returns the 32-byte big-endian representation of the key.
func (k *PrivateKey) Bytes() []byte {
	return k.d.FillBytes(make([]byte, coordLen))
}

// Int returns a copy of the key value.
func (k *PrivateKey) Int() *big.Int {
	return new(big.Int).Set(k.d)
}

// PublicKey derives the public key as G·d.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{P: engine.PublicKey(k.d)}
}
