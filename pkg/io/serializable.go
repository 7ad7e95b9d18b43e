package io

// Serializable defines the binary encoding/decoding interface. Errors are
// returned via BinReader/BinWriter Err field. These functions must have
// safe behavior when the passed BinReader/BinWriter is in an error state.
// Invocations to these functions tend to be nested, with this mechanism
// only the top-level caller should handle an error once and all the
// underlying functions become simpler.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}
