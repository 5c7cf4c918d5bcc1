// Package codec provides pluggable (de)serialization of cached values.
//
// Codecs serve two roles in syncache: the shield layer uses them to persist
// fetch results as bytes, and Options.Isolate uses them to hand out deep
// copies of cached values so subscribers cannot alias live entry state.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
