package txn

import (
	"github.com/nspcc-dev/txcrack/pkg/io"
	"github.com/nspcc-dev/txcrack/pkg/util"
)

// Input represents a transaction input: the outpoint it spends, the
// unlocking script and the sequence number.
type Input struct {
	// PrevHash is the id of the transaction holding the spent output,
	// in wire order.
	PrevHash util.Uint256
	// PrevIndex is the index of the spent output in that transaction.
	PrevIndex uint32
	// Script is the unlocking script (scriptSig).
	Script Script
	// Sequence is the input sequence number.
	Sequence uint32
}

// DecodeBinary implements the io.Serializable interface.
func (in *Input) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(in.PrevHash[:])
	in.PrevIndex = r.ReadU32LE()
	in.Script.DecodeBinary(r)
	in.Sequence = r.ReadU32LE()
}

// EncodeBinary implements the io.Serializable interface.
func (in *Input) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(in.PrevHash[:])
	w.WriteU32LE(in.PrevIndex)
	in.Script.EncodeBinary(w)
	w.WriteU32LE(in.Sequence)
}
