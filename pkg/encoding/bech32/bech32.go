// Package bech32 implements the bech32 address encoding: a human-readable
// part, a 5-bit data alphabet and a BCH checksum (BIP 173).
package bech32

import (
	"errors"
	"fmt"
	"strings"
)

const alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// checksumConst distinguishes bech32 from bech32m (which uses 0x2bc830a3,
// see BIP 350; witness v1+ is out of scope here).
const checksumConst = 1

const checksumLen = 6

var generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// ErrInvalidString is returned for strings that are not bech32: characters
// outside the alphabet or a failing checksum.
var ErrInvalidString = errors.New("invalid bech32 string")

func polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	res := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		res = append(res, hrp[i]>>5)
	}
	res = append(res, 0)
	for i := 0; i < len(hrp); i++ {
		res = append(res, hrp[i]&31)
	}
	return res
}

// VerifyChecksum checks the 6-quintet checksum at the end of data against
// the human-readable part.
func VerifyChecksum(hrp string, data []byte) bool {
	return polymod(append(hrpExpand(hrp), data...)) == checksumConst
}

func createChecksum(hrp string, data []byte) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, make([]byte, checksumLen)...)
	pm := polymod(values) ^ checksumConst
	chk := make([]byte, checksumLen)
	for i := 0; i < checksumLen; i++ {
		chk[i] = byte(pm >> uint(5*(5-i)) & 31)
	}
	return chk
}

// bytesToQuints regroups 8-bit bytes into 5-bit quintets, padding the last
// quintet with zero bits.
func bytesToQuints(data []byte) []byte {
	var (
		acc  uint32
		bits uint
		res  = make([]byte, 0, (len(data)*8+4)/5)
	)
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			res = append(res, byte(acc>>bits&31))
		}
	}
	if bits > 0 {
		res = append(res, byte(acc<<(5-bits)&31))
	}
	return res
}

// quintsToBytes regroups 5-bit quintets back into bytes, dropping the
// padding bits of the final incomplete byte.
func quintsToBytes(quints []byte) []byte {
	var (
		acc  uint32
		bits uint
		res  = make([]byte, 0, len(quints)*5/8)
	)
	for _, q := range quints {
		acc = acc<<5 | uint32(q&31)
		bits += 5
		if bits >= 8 {
			bits -= 8
			res = append(res, byte(acc>>bits))
		}
	}
	return res
}

// Encode renders a bech32 string from the human-readable part, a tag
// quintet (the witness version for addresses) and the data bytes.
func Encode(hrp string, tag byte, data []byte) string {
	quints := append([]byte{tag % 32}, bytesToQuints(data)...)
	chk := createChecksum(hrp, quints)

	var sb strings.Builder
	if hrp != "" {
		sb.WriteString(hrp)
		sb.WriteByte('1')
	}
	for _, q := range append(quints, chk...) {
		sb.WriteByte(alphabet[q])
	}
	return sb.String()
}

// Decode parses a bech32 string back into (hrp, tag, data). The checksum
// is verified.
func Decode(s string) (hrp string, tag byte, data []byte, err error) {
	sep := strings.LastIndexByte(s, '1')
	body := s
	if sep >= 0 {
		hrp, body = s[:sep], s[sep+1:]
	}
	if len(body) < checksumLen+1 {
		return "", 0, nil, fmt.Errorf("%w: too short", ErrInvalidString)
	}
	quints := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		v := strings.IndexByte(alphabet, body[i])
		if v < 0 {
			return "", 0, nil, fmt.Errorf("%w: bad character %q", ErrInvalidString, body[i])
		}
		quints[i] = byte(v)
	}
	if !VerifyChecksum(hrp, quints) {
		return "", 0, nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidString)
	}
	payload := quints[:len(quints)-checksumLen]
	return hrp, payload[0], quintsToBytes(payload[1:]), nil
}
