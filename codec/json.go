package codec

import "encoding/json"

// JSON is the default value codec. It handles maps, slices, nested structs
// and nil without registration, at the cost of being the largest encoding.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
