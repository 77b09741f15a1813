package serializer

import (
	"encoding/binary"
	"fmt"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IDumpSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IDumpSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional record fields are present
const (
	hasType  byte = 1 << 0
	hasKey   byte = 1 << 1
	hasValue byte = 1 << 2
)

// hasSection marks a dump that carries a section name
const hasSection byte = 1 << 0

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IDumpSerializer)
// --------------------------------------------------------------------------

func (s binarySerializerImpl) Serialize(d Dump) ([]byte, error) {
	// Calculate total size needed
	totalSize := s.sizeBytes(d)
	result := make([]byte, totalSize)

	// Header: dump flags, then record count
	var flags byte = 0
	if d.Section != "" {
		flags |= hasSection
	}
	result[0] = flags

	pos := 1
	binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(d.Records)))
	pos += 4

	if d.Section != "" {
		pos = writeString(result, pos, d.Section)
	}

	for _, r := range d.Records {
		var rf byte = 0
		if r.Type != "" {
			rf |= hasType
		}
		if r.Key != "" {
			rf |= hasKey
		}
		if r.Value != "" {
			rf |= hasValue
		}
		result[pos] = rf
		pos++

		if r.Type != "" {
			pos = writeString(result, pos, r.Type)
		}
		if r.Key != "" {
			pos = writeString(result, pos, r.Key)
		}
		if r.Value != "" {
			pos = writeString(result, pos, r.Value)
		}
	}

	return result, nil
}

func (s binarySerializerImpl) Deserialize(data []byte, d *Dump) error {
	// Check minimum size (flags + record count)
	if len(data) < 5 {
		return fmt.Errorf("data too short for dump header")
	}

	flags := data[0]
	pos := 1

	count := binary.BigEndian.Uint32(data[pos : pos+4])
	pos += 4

	if flags&hasSection != 0 {
		section, next, err := readString(data, pos, "section")
		if err != nil {
			return err
		}
		d.Section = section
		pos = next
	} else {
		d.Section = ""
	}

	records := make([]Record, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+1 > len(data) {
			return fmt.Errorf("data too short for record %d flags", i)
		}
		rf := data[pos]
		pos++

		var r Record
		var err error
		if rf&hasType != 0 {
			if r.Type, pos, err = readString(data, pos, "record type"); err != nil {
				return err
			}
		}
		if rf&hasKey != 0 {
			if r.Key, pos, err = readString(data, pos, "record key"); err != nil {
				return err
			}
		}
		if rf&hasValue != 0 {
			if r.Value, pos, err = readString(data, pos, "record value"); err != nil {
				return err
			}
		}
		records = append(records, r)
	}
	d.Records = records

	if pos != len(data) {
		return fmt.Errorf("trailing bytes after last record")
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the exact serialized size of a dump
func (s binarySerializerImpl) sizeBytes(d Dump) int {
	size := 1 + 4 // flags + record count
	if d.Section != "" {
		size += 4 + len(d.Section)
	}
	for _, r := range d.Records {
		size += 1 // record flags
		if r.Type != "" {
			size += 4 + len(r.Type)
		}
		if r.Key != "" {
			size += 4 + len(r.Key)
		}
		if r.Value != "" {
			size += 4 + len(r.Value)
		}
	}
	return size
}

// writeString writes a length-prefixed string and returns the next position
func writeString(buf []byte, pos int, s string) int {
	binary.BigEndian.PutUint32(buf[pos:pos+4], uint32(len(s)))
	pos += 4
	copy(buf[pos:pos+len(s)], s)
	return pos + len(s)
}

// readString reads a length-prefixed string and returns it with the next
// position
func readString(data []byte, pos int, what string) (string, int, error) {
	if pos+4 > len(data) {
		return "", 0, fmt.Errorf("data too short for %s length", what)
	}
	n := binary.BigEndian.Uint32(data[pos : pos+4])
	pos += 4
	if pos+int(n) > len(data) {
		return "", 0, fmt.Errorf("data too short for %s data", what)
	}
	return string(data[pos : pos+int(n)]), pos + int(n), nil
}
