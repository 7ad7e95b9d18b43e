// Package address renders and parses Bitcoin-style addresses: base58check
// P2PKH and bech32 P2WPKH. All functions take the network parameters
// explicitly, there is no process-wide version state.
package address

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/txcrack/pkg/chainparams"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/encoding/base58"
	"github.com/nspcc-dev/txcrack/pkg/encoding/bech32"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// ErrBadAddress is returned for strings that don't parse as an address.
var ErrBadAddress = errors.New("invalid address")

// Uint160ToString returns the base58check P2PKH address for the given
// HASH160 under the given network.
func Uint160ToString(u util.Uint160, p chainparams.Params) string {
	buf := append([]byte{p.AddressVersion}, u.BytesBE()...)
	return base58.CheckEncode(buf)
}

// StringToUint160 parses a base58check address back into its version byte
// and HASH160.
func StringToUint160(s string) (byte, util.Uint160, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return 0, util.Uint160{}, fmt.Errorf("%w: %s", ErrBadAddress, err)
	}
	if len(b) != util.Uint160Size+1 {
		return 0, util.Uint160{}, fmt.Errorf("%w: invalid length %d", ErrBadAddress, len(b))
	}
	u, err := util.Uint160DecodeBytesBE(b[1:])
	return b[0], u, err
}

// Uint160ToBech32 returns the native segwit v0 (P2WPKH) address for the
// given HASH160.
func Uint160ToBech32(u util.Uint160, p chainparams.Params) string {
	return bech32.Encode(p.HRP, 0, u.BytesBE())
}

// Bech32ToUint160 parses a segwit address back into its witness program.
// Only 20-byte v0 programs are accepted here.
func Bech32ToUint160(s string) (string, util.Uint160, error) {
	hrp, tag, data, err := bech32.Decode(s)
	if err != nil {
		return "", util.Uint160{}, fmt.Errorf("%w: %s", ErrBadAddress, err)
	}
	if tag != 0 {
		return "", util.Uint160{}, fmt.Errorf("%w: witness version %d", ErrBadAddress, tag)
	}
	u, err := util.Uint160DecodeBytesBE(data)
	return hrp, u, err
}

// FromPubKeyBytes renders the P2PKH address of a serialized public key
// exactly as given (compressed and uncompressed keys hash differently).
func FromPubKeyBytes(pub []byte, p chainparams.Params) string {
	return Uint160ToString(hash.Hash160(pub), p)
}
