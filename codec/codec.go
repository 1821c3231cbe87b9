// Package codec defines how cached values are (de)serialized to bytes before
// the engine's envelope and optional compression are applied.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
