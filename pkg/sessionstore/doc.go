// Package sessionstore is the persistence abstraction every protocol round
// reads and writes through: a mapping (customer id, session id, role) ->
// JSON blob, plus two policy hooks: Granted, consulted before the final
// signature is returned, and HasActiveShare, which no protocol round in this
// module calls.
//
// Two backends implement the same four-operation Store interface: memstore
// (an in-process, mutex-guarded map for development and tests) and docstore
// (a thin adapter over a pluggable DocumentClient standing in for a cloud
// document-store SDK in production).
package sessionstore
