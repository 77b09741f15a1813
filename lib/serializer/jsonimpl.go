package serializer

import (
	"encoding/json"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IDumpSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IDumpSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IDumpSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(d Dump) ([]byte, error) {
	return json.Marshal(d)
}

func (j jsonSerializerImpl) Deserialize(b []byte, d *Dump) error {
	return json.Unmarshal(b, d)
}
