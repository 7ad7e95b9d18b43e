package txn

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/txcrack/pkg/io"
)

// ErrBadSignature is returned when signature bytes are not a DER sequence
// of two integers nor the 65-byte compact form.
var ErrBadSignature = errors.New("not a signature")

// compactSigLen is the length of the r||s||hashtype compact encoding.
const compactSigLen = 0x41

// Signature holds the two ECDSA scalars of a transaction signature,
// normalized to 32 bytes each, along with the hashtype the signature
// covers.
type Signature struct {
	R        [32]byte
	S        [32]byte
	HashType HashType
}

// DecodeSignature extracts (r, s, hashtype) from signature bytes. Two
// encodings are accepted: DER (0x30-tagged sequence of two 0x02-tagged
// integers with a trailing hashtype byte) and, when the input is exactly 65
// bytes, the compact r[32] || s[32] || hashtype form. A missing or zero
// hashtype is substituted with ALL.
func DecodeSignature(data []byte) (*Signature, error) {
	sig := &Signature{}
	if len(data) == compactSigLen {
		copy(sig.R[:], data[0:32])
		copy(sig.S[:], data[32:64])
		sig.HashType = HashType(data[64])
		return sig, nil
	}

	r := io.NewBinReaderFromBuf(data)
	if tag := r.ReadB(); tag != 0x30 {
		return nil, fmt.Errorf("%w: sequence tag 0x%02x", ErrBadSignature, tag)
	}
	r.ReadB() // total length, unchecked like everything else here
	rval, err := readDERInt(r)
	if err != nil {
		return nil, err
	}
	sval, err := readDERInt(r)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSignature, r.Err)
	}

	// The hashtype byte follows the DER body. Some encoders leave it out
	// and a zero value is ALL as well.
	ht := r.ReadB()
	if ht == 0 {
		ht = byte(SigHashAll)
	}
	sig.HashType = HashType(ht)
	normalize32(sig.R[:], rval)
	normalize32(sig.S[:], sval)
	return sig, nil
}

// readDERInt reads one 0x02-tagged integer of the sequence.
func readDERInt(r *io.BinReader) ([]byte, error) {
	if tag := r.ReadB(); tag != 0x02 {
		return nil, fmt.Errorf("%w: integer tag 0x%02x", ErrBadSignature, tag)
	}
	n := r.ReadB()
	buf := make([]byte, n)
	r.ReadBytes(buf)
	if r.Err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadSignature, r.Err)
	}
	return buf, nil
}

// normalize32 fits a DER integer into exactly 32 bytes: shorter values are
// left-padded with zeroes, longer ones (a DER sign byte) keep their last 32
// bytes.
func normalize32(dst, src []byte) {
	if len(src) > 32 {
		src = src[len(src)-32:]
	}
	copy(dst[32-len(src):], src)
}

// RInt returns r as a big integer.
func (sig *Signature) RInt() *big.Int {
	return new(big.Int).SetBytes(sig.R[:])
}

// SInt returns s as a big integer.
func (sig *Signature) SInt() *big.Int {
	return new(big.Int).SetBytes(sig.S[:])
}
