// Package serializer provides message serialization for the hKV RPC system.
// It defines a common interface and multiple implementations for encoding
// command.Request and command.Response values between client and server.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: protobuf wire format (google.golang.org/protobuf/encoding/protowire)
//     with stable field numbers. Field tagged, so unknown fields are skipped and
//     new fields can be added without breaking older peers. Recommended for production use.
//
//	    CommandRequest  { oneof: hget=1 {table=1, key=2} | hgetall=2 {table=1}
//	                      | hset=3 {table=1, pair=2} | hdel=4 {table=1, key=2}
//	                      | hexist=5 {table=1, key=2} }
//	    CommandResponse { status=1, message=2, values=3 (repeated), pairs=4 (repeated) }
//	    Value           { oneof: string=1 | binary=2 | integer=3 | float=4 | bool=5 }
//	    Kvpair          { key=1, value=2 }
//
//   - jsonSerializerImpl: JSON encoding, useful for debugging or for the http transport.
//
//   - gobSerializerImpl: Go's gob encoding. Gob omits zero values, so a command
//     whose fields are all empty (e.g. Hgetall of the table "") can not be sent with it.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.SerializeRequest(command.NewHget("score", "u1"))
//	// ... send data ...
//	var resp command.Response
//	err = s.DeserializeResponse(receivedData, &resp)
package serializer
