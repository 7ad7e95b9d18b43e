// Package txn implements the Bitcoin-style transaction codec: consensus
// serialization of transactions (legacy and segregated-witness form),
// script walking, signature decoding and sighash calculation.
package txn

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/io"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// ErrBadSegwitFlag is returned when the marker byte is present but the
// flag byte is zero.
var ErrBadSegwitFlag = errors.New("invalid segwit flag byte")

// Transaction is a decoded transaction. Instances are treated as immutable
// after decoding; the sighash engine works on copies.
type Transaction struct {
	Version uint32
	Inputs  []Input
	Outputs []Output
	// Witnesses align 1:1 with Inputs when the transaction was encoded
	// in segregated-witness form and are nil otherwise.
	Witnesses []Witness
	LockTime  uint32
}

// NewTransactionFromBytes decodes a transaction from its consensus
// serialization.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	t := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	t.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return t, nil
}

// HasWitness reports whether the transaction was carrying witness data.
func (t *Transaction) HasWitness() bool {
	return t.Witnesses != nil
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(r *io.BinReader) {
	t.Version = r.ReadU32LE()
	nrin := r.ReadVarUint()
	hasWitness := false
	if nrin == 0 && r.Err == nil {
		// Segwit marker: a zero input count is really the 0x00 marker,
		// followed by a non-zero flag and the true input count.
		flag := r.ReadB()
		if flag == 0 && r.Err == nil {
			r.Err = ErrBadSegwitFlag
			return
		}
		hasWitness = true
		nrin = r.ReadVarUint()
	}
	if r.Err != nil {
		return
	}
	if nrin > io.MaxArraySize {
		r.Err = fmt.Errorf("invalid input count %d", nrin)
		return
	}
	t.Inputs = make([]Input, nrin)
	for i := range t.Inputs {
		t.Inputs[i].DecodeBinary(r)
	}
	nrout := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if nrout > io.MaxArraySize {
		r.Err = fmt.Errorf("invalid output count %d", nrout)
		return
	}
	t.Outputs = make([]Output, nrout)
	for i := range t.Outputs {
		t.Outputs[i].DecodeBinary(r)
	}
	if hasWitness {
		t.Witnesses = make([]Witness, nrin)
		for i := range t.Witnesses {
			t.Witnesses[i].DecodeBinary(r)
		}
	}
	t.LockTime = r.ReadU32LE()
}

// EncodeBinary implements the io.Serializable interface, emitting the
// witness form when witness data is present.
func (t *Transaction) EncodeBinary(w *io.BinWriter) {
	t.encodeBinary(w, false)
}

// EncodeBinaryNoWitness serializes the transaction without the marker,
// flag and witness sections. This is the form that is hashed for the
// transaction id and for the legacy sighash.
func (t *Transaction) EncodeBinaryNoWitness(w *io.BinWriter) {
	t.encodeBinary(w, true)
}

func (t *Transaction) encodeBinary(w *io.BinWriter, excludeWitness bool) {
	withWitness := !excludeWitness && t.HasWitness()
	w.WriteU32LE(t.Version)
	if withWitness {
		w.WriteB(0x00)
		w.WriteB(0x01)
	}
	w.WriteVarUint(uint64(len(t.Inputs)))
	for i := range t.Inputs {
		t.Inputs[i].EncodeBinary(w)
	}
	w.WriteVarUint(uint64(len(t.Outputs)))
	for i := range t.Outputs {
		t.Outputs[i].EncodeBinary(w)
	}
	if withWitness {
		for i := range t.Witnesses {
			t.Witnesses[i].EncodeBinary(w)
		}
	}
	w.WriteU32LE(t.LockTime)
}

// Bytes returns the full consensus serialization of the transaction.
func (t *Transaction) Bytes() ([]byte, error) {
	w := io.NewBufBinWriter()
	t.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// BytesNoWitness returns the serialization without witness data.
func (t *Transaction) BytesNoWitness() ([]byte, error) {
	w := io.NewBufBinWriter()
	t.EncodeBinaryNoWitness(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Hash returns the transaction id: double SHA-256 over the witness-free
// serialization, which makes it invariant under witness malleation.
func (t *Transaction) Hash() (util.Uint256, error) {
	b, err := t.BytesNoWitness()
	if err != nil {
		return util.Uint256{}, err
	}
	return hash.DoubleSha256(b), nil
}

// sighashCopy clones the transaction for per-hashtype mutation. Inputs and
// outputs are fresh slices, scripts are shared until replaced and witness
// data is dropped since the sighash serialization never includes it.
func (t *Transaction) sighashCopy() *Transaction {
	dup := &Transaction{
		Version:  t.Version,
		Inputs:   make([]Input, len(t.Inputs)),
		Outputs:  make([]Output, len(t.Outputs)),
		LockTime: t.LockTime,
	}
	copy(dup.Inputs, t.Inputs)
	copy(dup.Outputs, t.Outputs)
	return dup
}
