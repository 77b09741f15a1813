// Package serializer provides dump serialization capabilities for the
// database engine. It defines a common interface and multiple implementations
// for serializing and deserializing store snapshots, used by the export
// command and by applications that persist an in-memory store.
//
// The package focuses on:
//   - Providing a consistent interface for different serialization formats
//   - Offering multiple implementations with different performance characteristics
//   - Supporting efficient encoding of the engine's dump structure
//   - Minimizing memory allocations and processing overhead
//
// Key Components:
//
//   - IDumpSerializer: Core interface that all serializer implementations must
//     satisfy.
//
//   - binarySerializerImpl: Custom binary format implementation optimized for
//     speed and space efficiency. Uses a flag-based approach to encode only
//     present fields, resulting in compact serialized data with minimal
//     overhead.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding,
//     offering good compatibility with Go's type system but with larger
//     serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for
//     debugging or interoperability with other systems, but with lower
//     performance.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the
//	application:
//
//	  s := serializer.NewBinarySerializer()
//	  data, err := s.Serialize(dump)
//	  // ... write data ...
//	  var restored serializer.Dump
//	  err = s.Deserialize(data, &restored)
package serializer
