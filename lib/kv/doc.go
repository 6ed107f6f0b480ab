// Package kv defines the data model shared by every layer of hKV: the Value
// tagged union, the Kvpair type and the typed error taxonomy.
//
// Values are built with explicit constructors (NewString, NewInteger, ...)
// instead of implicit conversions, so the caller always decides which variant
// is stored:
//
//	v := kv.NewInteger(10)
//	i, ok := v.AsInteger() // 10, true
//	_, ok = v.AsString()   // "", false
//
// Encoding:
//
//	Values and pairs are encoded with the protobuf wire format (see codec.go
//	for the field numbers). The same encoding is used on the network and by
//	the durable storage backends, so a decode failure always surfaces as a
//	DecodeError instead of a panic.
//
// Errors:
//
//	Every failure that can reach a client is an *Error with one of the kinds
//	InvalidCommand, Internal, NotFound, EncodeError, DecodeError or
//	StorageError. Error.Status maps a kind to the response status
//	(400, 404 or 500).
package kv
