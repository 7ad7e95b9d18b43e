// Package hash contains the hashing functions used throughout the module:
// SHA-256, double SHA-256 and RIPEMD-160 over SHA-256 (HASH160).
package hash

import (
	"crypto/sha256"

	"github.com/nspcc-dev/txcrack/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // SA1019: HASH160 is defined over RIPEMD-160.
)

// Sha256 hashes the incoming byte slice using the sha256 algorithm.
func Sha256(data []byte) util.Uint256 {
	hash := sha256.Sum256(data)
	return hash
}

// DoubleSha256 performs sha256 twice on the given data. This is what
// Bitcoin-style chains use for transaction ids, sighashes and address
// checksums.
func DoubleSha256(data []byte) util.Uint256 {
	var hash util.Uint256

	h1 := Sha256(data)
	hash = Sha256(h1.BytesBE())
	return hash
}

// RipeMD160 performs the RIPEMD160 hash algorithm on the given data.
func RipeMD160(data []byte) util.Uint160 {
	var hash util.Uint160
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)

	hasher.Sum(hash[:0])
	return hash
}

// Hash160 performs sha256 and then ripemd160 on the given data. Known as
// HASH160, it is the form in which public keys and scripts appear inside
// addresses.
func Hash160(data []byte) util.Uint160 {
	h1 := Sha256(data)
	h2 := RipeMD160(h1.BytesBE())

	return h2
}

// Checksum returns the checksum for a given piece of data using DoubleSha256
// as the hash algorithm. It's the 4-byte suffix of Base58Check payloads.
func Checksum(data []byte) []byte {
	hash := DoubleSha256(data)
	return hash[:4]
}
