// Package command contains the command model of hKV (Request, Response) and
// the execution of a request against a store.Storage.
//
// Requests are built with the factory functions:
//
//	req := command.NewHset("score", "u1", kv.NewInteger(10))
//	resp := command.Dispatch(req, storage)
//
// Every request maps to exactly one storage call:
//
//	Hget     Get       -> 200 [value] or 404 NotFound
//	Hgetall  GetAll    -> 200 pairs sorted by key (possibly empty)
//	Hset     Set       -> 200 [previous value or None], 400 without a pair
//	Hdel     Del       -> 200 [removed value or None]
//	Hexist   Contains  -> 200 [Bool]
//
// Backend failures are never swallowed: they are returned as 500 responses
// carrying the rendered StorageError, DecodeError or Internal error.
package command
