// Package base58 wraps the mr-tron/base58 library adding Base58Check
// support: a 4-byte double-SHA-256 checksum suffix over the payload.
package base58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
)

// checksumSize is the number of checksum bytes appended by CheckEncode.
const checksumSize = 4

// ErrBadChecksum is returned by CheckDecode for payloads whose checksum
// suffix does not match.
var ErrBadChecksum = errors.New("invalid base58 checksum")

// Encode encodes a byte slice to be a base58 encoded string.
func Encode(bytes []byte) string {
	return base58.Encode(bytes)
}

// Decode decodes a base58 encoded string.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckEncode encodes b into a base58 string with a 4-byte checksum
// appended.
func CheckEncode(b []byte) string {
	b = append(b, hash.Checksum(b)...)

	return base58.Encode(b)
}

// CheckDecode decodes the given string and checks the embedded checksum.
func CheckDecode(s string) (b []byte, err error) {
	b, err = base58.Decode(s)
	if err != nil {
		return nil, err
	}

	if len(b) < checksumSize+1 {
		return nil, fmt.Errorf("%w: invalid length %d", ErrBadChecksum, len(b))
	}
	if !bytes.Equal(hash.Checksum(b[:len(b)-checksumSize]), b[len(b)-checksumSize:]) {
		return nil, ErrBadChecksum
	}
	return b[:len(b)-checksumSize], nil
}
