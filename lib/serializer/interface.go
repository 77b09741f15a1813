package serializer

import "fmt"

// Record is one exported (type, key, value) triple. Value carries the
// literal source form of the stored value (e.g. `"cmd"`, `100`, `true`).
type Record struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Dump is a point-in-time snapshot of one store, optionally tagged with the
// section name it was loaded from.
type Dump struct {
	Section string   `json:"section,omitempty"`
	Records []Record `json:"records"`
}

// IDumpSerializer is the interface for all dump serializers
type IDumpSerializer interface {
	// Serialize serializes a Dump into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(d Dump) ([]byte, error)
	// Deserialize deserializes a byte array into a Dump
	// It takes a byte array and a pointer to a Dump as parameters
	// It returns an error if any
	Deserialize(b []byte, d *Dump) error
}

// New returns the serializer for a format name (json, gob or binary).
func New(format string) (IDumpSerializer, error) {
	switch format {
	case "json":
		return NewJSONSerializer(), nil
	case "gob":
		return NewGOBSerializer(), nil
	case "binary":
		return NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer format %q (legal: json, gob, binary)", format)
	}
}
