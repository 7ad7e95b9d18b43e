package txn

import (
	"errors"
	"fmt"
	"math"

	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/io"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// HashType is the signature hash type trailing every transaction
// signature: the low five bits select the base mode and 0x80 flags
// ANYONECANPAY.
type HashType byte

// Hash type values.
const (
	SigHashAll          HashType = 1
	SigHashNone         HashType = 2
	SigHashSingle       HashType = 3
	SigHashAnyoneCanPay HashType = 0x80

	baseMask HashType = 31
)

// ErrUnsupportedHashType is returned for base hash types outside of
// ALL/NONE/SINGLE.
var ErrUnsupportedHashType = errors.New("unsupported hashtype")

// ErrBadInputIndex is returned when the input index does not exist in the
// transaction.
var ErrBadInputIndex = errors.New("input index out of range")

// Base returns the base mode from the low bits.
func (ht HashType) Base() HashType {
	return ht & baseMask
}

// AnyoneCanPay reports whether the ANYONECANPAY bit is set.
func (ht HashType) AnyoneCanPay() bool {
	return ht&SigHashAnyoneCanPay != 0
}

// singleBugDigest is the digest signed under the SIGHASH_SINGLE
// out-of-range consensus quirk: the "one" value that the reference client
// hashed by accident and that is valid consensus forever after.
var singleBugDigest = util.Uint256{0x01}

// SigHashLegacy computes the pre-segwit message digest covered by a
// signature over the given input, with script being the scriptCode
// (normally the spent output's scriptPubKey).
func (t *Transaction) SigHashLegacy(ht HashType, index int, script Script) (util.Uint256, error) {
	if index < 0 || index >= len(t.Inputs) {
		return util.Uint256{}, fmt.Errorf("%w: %d", ErrBadInputIndex, index)
	}
	base := ht.Base()
	if base < SigHashAll || base > SigHashSingle {
		return util.Uint256{}, fmt.Errorf("%w: 0x%02x", ErrUnsupportedHashType, byte(ht))
	}

	if base == SigHashSingle && index >= len(t.Outputs) {
		// The documented SIGHASH_SINGLE bug: with no matching output the
		// reference client signs the constant 1.
		return singleBugDigest, nil
	}

	dup := t.sighashCopy()
	inIndex := index
	if ht.AnyoneCanPay() {
		// Only the signed input remains; the output rules below still go
		// by the original index.
		dup.Inputs = []Input{dup.Inputs[index]}
		inIndex = 0
	}

	for i := range dup.Inputs {
		if i == inIndex {
			dup.Inputs[i].Script = script
			continue
		}
		dup.Inputs[i].Script = Script{}
		if base == SigHashSingle || base == SigHashNone {
			dup.Inputs[i].Sequence = 0
		}
	}

	switch base {
	case SigHashNone:
		dup.Outputs = nil
	case SigHashSingle:
		dup.Outputs = dup.Outputs[:index+1]
		for i := range dup.Outputs[:index] {
			dup.Outputs[i].Script = Script{}
			dup.Outputs[i].Value = math.MaxUint64
		}
	}

	w := io.NewBufBinWriter()
	dup.EncodeBinaryNoWitness(w.BinWriter)
	w.WriteU32LE(uint32(ht))
	if w.Err != nil {
		return util.Uint256{}, w.Err
	}
	return hash.DoubleSha256(w.Bytes()), nil
}

// SigHashWitness computes the BIP143 message digest for the given input.
// value is the satoshi amount of the spent output, which the witness
// digest commits to. The scriptCode is derived from the input's witness
// shape (P2WPKH or P2WSH); for witness shapes without a scriptCode rule the
// function degrades to the legacy ALL digest over the provided script. For
// transactions without witness data the provided script is used directly
// as the scriptCode of the BIP143 preimage.
func (t *Transaction) SigHashWitness(ht HashType, index int, value uint64, script Script) (util.Uint256, error) {
	if index < 0 || index >= len(t.Inputs) {
		return util.Uint256{}, fmt.Errorf("%w: %d", ErrBadInputIndex, index)
	}
	var (
		base   = ht.Base()
		acp    = ht.AnyoneCanPay()
		single = base == SigHashSingle
		none   = base == SigHashNone
		zero   util.Uint256
	)

	w := io.NewBufBinWriter()
	w.WriteU32LE(t.Version)

	if acp {
		w.WriteBytes(zero[:])
	} else {
		w.WriteBytes(t.prevoutsHash().BytesBE())
	}
	if acp || single || none {
		w.WriteBytes(zero[:])
	} else {
		w.WriteBytes(t.sequenceHash().BytesBE())
	}

	in := &t.Inputs[index]
	w.WriteBytes(in.PrevHash[:])
	w.WriteU32LE(in.PrevIndex)

	if t.HasWitness() {
		if err := t.Witnesses[index].encodeScriptCode(w.BinWriter); err != nil {
			return t.SigHashLegacy(SigHashAll, index, script)
		}
	} else {
		script.EncodeBinary(w.BinWriter)
	}

	w.WriteU64LE(value)
	w.WriteU32LE(in.Sequence)

	switch {
	case single:
		if index < len(t.Outputs) {
			w.WriteBytes(t.singleOutputHash(index).BytesBE())
		} else {
			w.WriteBytes(zero[:])
		}
	case none:
		w.WriteBytes(zero[:])
	default:
		w.WriteBytes(t.outputsHash().BytesBE())
	}

	w.WriteU32LE(t.LockTime)
	w.WriteU32LE(uint32(ht))
	if w.Err != nil {
		return util.Uint256{}, w.Err
	}
	return hash.DoubleSha256(w.Bytes()), nil
}

// prevoutsHash is the BIP143 hashPrevouts: SHA256d over all outpoints.
func (t *Transaction) prevoutsHash() util.Uint256 {
	w := io.NewBufBinWriter()
	for i := range t.Inputs {
		w.WriteBytes(t.Inputs[i].PrevHash[:])
		w.WriteU32LE(t.Inputs[i].PrevIndex)
	}
	return hash.DoubleSha256(w.Bytes())
}

// sequenceHash is the BIP143 hashSequence: SHA256d over all sequence
// numbers.
func (t *Transaction) sequenceHash() util.Uint256 {
	w := io.NewBufBinWriter()
	for i := range t.Inputs {
		w.WriteU32LE(t.Inputs[i].Sequence)
	}
	return hash.DoubleSha256(w.Bytes())
}

// outputsHash is the BIP143 hashOutputs: SHA256d over all serialized
// outputs.
func (t *Transaction) outputsHash() util.Uint256 {
	w := io.NewBufBinWriter()
	for i := range t.Outputs {
		t.Outputs[i].EncodeBinary(w.BinWriter)
	}
	return hash.DoubleSha256(w.Bytes())
}

// singleOutputHash is hashOutputs under SINGLE: SHA256d of the one output
// matching the input index.
func (t *Transaction) singleOutputHash(index int) util.Uint256 {
	w := io.NewBufBinWriter()
	t.Outputs[index].EncodeBinary(w.BinWriter)
	return hash.DoubleSha256(w.Bytes())
}
