package txn

import (
	"errors"

	"github.com/nspcc-dev/txcrack/pkg/crypto/hash"
	"github.com/nspcc-dev/txcrack/pkg/io"
)

// errUnsupportedWitness makes the sighash engine fall back to the legacy
// algorithm for witness shapes it does not know.
var errUnsupportedWitness = errors.New("unsupported witness type")

// WitnessType classifies a witness stack by its shape.
type WitnessType int

// Known witness types.
const (
	// WitnessUnknown is a witness shape the sighash engine has no
	// scriptCode rule for.
	WitnessUnknown WitnessType = iota
	// WitnessP2WPKH is a two-element [signature, pubkey] stack.
	WitnessP2WPKH
	// WitnessP2WSH is any other non-empty stack, its last element being
	// the witness script.
	WitnessP2WSH
)

// Witness is the per-input stack of byte strings serialized outside the
// signed transaction body.
type Witness struct {
	Stack [][]byte
}

// DecodeBinary implements the io.Serializable interface.
func (wit *Witness) DecodeBinary(r *io.BinReader) {
	n := r.ReadVarUint()
	if n > io.MaxArraySize {
		r.Err = errors.New("witness stack too large")
		return
	}
	if r.Err != nil {
		return
	}
	wit.Stack = make([][]byte, n)
	for i := range wit.Stack {
		wit.Stack[i] = r.ReadVarBytes()
	}
}

// EncodeBinary implements the io.Serializable interface.
func (wit *Witness) EncodeBinary(w *io.BinWriter) {
	w.WriteVarUint(uint64(len(wit.Stack)))
	for _, item := range wit.Stack {
		w.WriteVarBytes(item)
	}
}

// Type classifies the witness stack shape.
func (wit *Witness) Type() WitnessType {
	switch {
	case len(wit.Stack) == 2:
		return WitnessP2WPKH
	case len(wit.Stack) > 0:
		return WitnessP2WSH
	default:
		return WitnessUnknown
	}
}

// encodeScriptCode writes the BIP143 scriptCode for this witness. For
// P2WPKH that is the canonical 25-byte P2PKH script over HASH160 of the
// pushed pubkey, for P2WSH the witness script itself.
func (wit *Witness) encodeScriptCode(w *io.BinWriter) error {
	switch wit.Type() {
	case WitnessP2WPKH:
		h := hash.Hash160(wit.Stack[1])
		w.WriteB(0x19)
		w.WriteB(0x76) // DUP
		w.WriteB(0xa9) // HASH160
		w.WriteB(0x14)
		w.WriteBytes(h.BytesBE())
		w.WriteB(0x88) // EQUALVERIFY
		w.WriteB(0xac) // CHECKSIG
		return nil
	case WitnessP2WSH:
		w.WriteVarBytes(wit.Stack[len(wit.Stack)-1])
		return nil
	default:
		return errUnsupportedWitness
	}
}
