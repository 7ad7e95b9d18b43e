package txn

import (
	"github.com/nspcc-dev/txcrack/pkg/io"
)

// Output represents a transaction output: a satoshi amount locked by a
// script.
type Output struct {
	// Value is the amount in satoshi.
	Value uint64
	// Script is the locking script (scriptPubKey).
	Script Script
}

// DecodeBinary implements the io.Serializable interface.
func (out *Output) DecodeBinary(r *io.BinReader) {
	out.Value = r.ReadU64LE()
	out.Script.DecodeBinary(r)
}

// EncodeBinary implements the io.Serializable interface.
func (out *Output) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(out.Value)
	out.Script.EncodeBinary(w)
}
