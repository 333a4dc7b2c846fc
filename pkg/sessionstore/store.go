package sessionstore

import "context"

// Store is the persistence abstraction spec.md §4.1 names: a mapping
// (customer id, session id, role) -> blob, plus two policy hooks.
type Store interface {
	// Put serializes value to canonical JSON and writes it under the
	// composite key. Implementations MUST be atomic per key and MUST NOT
	// silently overwrite an existing value for the same key (spec.md I3:
	// "no state is overwritten").
	Put(ctx context.Context, customerID, sessionID string, role Role, value any) error

	// Get returns the last-written blob for the key, unmarshaled into out,
	// and a bool reporting whether anything was found. A miss is not an
	// error.
	Get(ctx context.Context, customerID, sessionID string, role Role, out any) (bool, error)

	// Granted is a policy hook consulted before the final signing step.
	// The default, permissive implementation always returns true.
	Granted(ctx context.Context, message []byte, customerID string) (bool, error)

	// HasActiveShare is a policy hook reporting whether a customer already
	// owns a share. No keygen round in this module calls it, so it does not
	// stop a new keygen. The default, permissive implementation always
	// returns false.
	HasActiveShare(ctx context.Context, customerID string) (bool, error)
}
