package keys

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/txcrack/pkg/encoding/base58"
)

// ErrBadWIF is returned for strings that don't decode to a wallet import
// format payload.
var ErrBadWIF = errors.New("invalid WIF")

// WIF represents a wallet import format: a private key with the network
// version byte it was encoded under and the compression flag for the
// derived public key.
type WIF struct {
	Version    byte
	Compressed bool
	PrivateKey *PrivateKey
	S          string
}

// WIFEncode encodes the given private key into a WIF string under the given
// version byte (0x80 for Bitcoin mainnet). When compressed is true a 0x01
// suffix byte marks that the key maps to a compressed public key.
func WIFEncode(key *PrivateKey, version byte, compressed bool) string {
	buf := make([]byte, 0, 2+coordLen)
	buf = append(buf, version)
	buf = append(buf, key.Bytes()...)
	if compressed {
		buf = append(buf, 0x01)
	}
	return base58.CheckEncode(buf)
}

// WIFDecode decodes the given WIF string. A zero expected version accepts
// any version byte, otherwise a mismatch is an error.
func WIFDecode(wif string, version byte) (*WIF, error) {
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadWIF, err)
	}

	w := &WIF{S: wif}
	switch len(b) {
	case 33: // version byte + key
	case 34:
		if b[33] != 0x01 {
			return nil, fmt.Errorf("%w: unexpected suffix byte 0x%02x", ErrBadWIF, b[33])
		}
		w.Compressed = true
	default:
		return nil, fmt.Errorf("%w: invalid length %d", ErrBadWIF, len(b))
	}
	w.Version = b[0]
	if version != 0 && b[0] != version {
		return nil, fmt.Errorf("%w: expected version 0x%02x, got 0x%02x", ErrBadWIF, version, b[0])
	}
	w.PrivateKey, err = NewPrivateKeyFromBytes(b[1:33])
	if err != nil {
		return nil, err
	}
	return w, nil
}
