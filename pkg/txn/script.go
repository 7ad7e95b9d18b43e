package txn

import (
	stdio "io"

	"github.com/nspcc-dev/txcrack/pkg/io"
)

// stdEOF marks a clean end of bytecode as opposed to a short read inside
// an item.
var stdEOF = stdio.EOF

// Script is a flat piece of script bytecode as carried in scriptSig and
// scriptPubKey fields. It is serialized with a varint length prefix.
type Script struct {
	Bytecode []byte
}

// NewScript wraps raw bytecode into a Script.
func NewScript(b []byte) Script {
	return Script{Bytecode: b}
}

// DecodeBinary implements the io.Serializable interface.
func (s *Script) DecodeBinary(r *io.BinReader) {
	s.Bytecode = r.ReadVarBytes()
}

// EncodeBinary implements the io.Serializable interface.
func (s *Script) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(s.Bytecode)
}

// ItemKind tags one item produced by script iteration.
type ItemKind byte

// Script item kinds.
const (
	// KindData is a pushed byte string.
	KindData ItemKind = iota
	// KindConstant is one of the small-integer opcodes OP_1..OP_16.
	KindConstant
	// KindOpcode is any other opcode.
	KindOpcode
)

// Item is a single element of script bytecode: a pushed byte string, a
// small-integer constant or a plain opcode (kept in Value).
type Item struct {
	Kind  ItemKind
	Data  []byte
	Value byte
}

// Iterator walks script bytecode item by item. Construct with
// Script.Iterate.
type Iterator struct {
	r   *io.BinReader
	err error
}

// Iterate returns a fresh iterator over the script's bytecode.
func (s Script) Iterate() *Iterator {
	return &Iterator{r: io.NewBinReaderFromBuf(s.Bytecode)}
}

// Next returns the next script item. The second return is false at the end
// of the script or on malformed bytecode; check Err to tell the two apart.
// A push running past the end of the script terminates iteration with an
// error, it never panics.
func (it *Iterator) Next() (Item, bool) {
	if it.err != nil {
		return Item{}, false
	}
	b := it.r.ReadB()
	if it.r.Err != nil {
		// A clean EOF at an item boundary is the end of the script.
		it.setErr()
		return Item{}, false
	}
	switch {
	case b < 79:
		var size uint32
		switch b {
		case 76:
			size = uint32(it.r.ReadB())
		case 77:
			size = uint32(it.r.ReadU16LE())
		case 78:
			size = it.r.ReadU32LE()
		default:
			size = uint32(b)
		}
		data := make([]byte, size)
		it.r.ReadBytes(data)
		if it.r.Err != nil {
			if it.r.Err == stdEOF {
				// The script ended inside the push, not at a boundary.
				it.r.Err = io.ErrTruncated
			}
			it.setErr()
			return Item{}, false
		}
		return Item{Kind: KindData, Data: data}, true
	case 81 <= b && b <= 96:
		return Item{Kind: KindConstant, Value: b - 80}, true
	default:
		return Item{Kind: KindOpcode, Value: b}, true
	}
}

// setErr records the reader error unless it is a clean end of data.
func (it *Iterator) setErr() {
	if err := it.r.Err; err != nil && err != stdEOF {
		it.err = err
	}
}

// Err returns the error that terminated iteration, if any. A script that
// simply ran out of bytes at an item boundary yields a nil error.
func (it *Iterator) Err() error {
	return it.err
}
