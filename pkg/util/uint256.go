package util

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32 byte hash value. The bytes are kept in the order they
// appear on the wire (which for transaction ids is the reverse of the
// conventional display order).
type Uint256 [Uint256Size]uint8

// Uint256DecodeStringLE attempts to decode the given string (in LE
// representation, i.e. the conventional txid display order) into a Uint256.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	if len(s) != Uint256Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint256Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesBE(Reverse(b))
}

// Uint256DecodeBytesBE attempts to decode the given bytes (wire order) into
// a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns a byte slice representation of u in wire order.
func (u Uint256) BytesBE() []byte {
	return u[:]
}

// BytesLE returns a reversed byte representation of u.
func (u Uint256) BytesLE() []byte {
	return Reverse(u[:])
}

// Reverse returns a reversed copy of the given byte slice.
func Reverse(b []byte) []byte {
	dest := make([]byte, len(b))
	for i, j := 0, len(b)-1; i <= j; i, j = i+1, j-1 {
		dest[i], dest[j] = b[j], b[i]
	}
	return dest
}

// Equals returns true if both Uint256 values are the same.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// String implements the stringer interface. It prints the value in the
// conventional txid display order.
func (u Uint256) String() string {
	return u.StringLE()
}

// StringBE returns a string representation of u in wire order.
func (u Uint256) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE returns the reversed (display order) string representation of u.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// Reverse reverses the Uint256 object.
func (u Uint256) Reverse() Uint256 {
	res, _ := Uint256DecodeBytesBE(u.BytesLE())
	return res
}

// CompareTo compares two Uint256 with each other. Possible output: 1, -1, 0.
func (u Uint256) CompareTo(other Uint256) int {
	return bytes.Compare(u.BytesBE(), other.BytesBE())
}
