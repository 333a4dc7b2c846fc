// Package memstore is the in-process development and test backend for
// sessionstore.Store: a map of JSON blobs guarded by per-key mutexes, the
// blob map and the lock map both behind a single sync.Mutex.
//
// Grounded on pkg/cbmpc/mocknet.endpointCore's lock-map pattern, which
// shards per-peer send/receive mutexes over a guarding sync.Mutex; this
// package applies the same idiom to storage keys instead of message queues.
package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

// Store is an in-memory sessionstore.Store. The zero value is not usable;
// construct with New.
type Store struct {
	mu    sync.Mutex
	locks map[sessionstore.Key]*sync.Mutex
	blobs map[sessionstore.Key][]byte

	grantedFn        func(ctx context.Context, message []byte, customerID string) (bool, error)
	hasActiveShareFn func(ctx context.Context, customerID string) (bool, error)
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithGranted overrides the default permissive Granted policy hook.
func WithGranted(fn func(ctx context.Context, message []byte, customerID string) (bool, error)) Option {
	return func(s *Store) { s.grantedFn = fn }
}

// WithHasActiveShare overrides the default permissive HasActiveShare policy
// hook.
func WithHasActiveShare(fn func(ctx context.Context, customerID string) (bool, error)) Option {
	return func(s *Store) { s.hasActiveShareFn = fn }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		locks: make(map[sessionstore.Key]*sync.Mutex),
		blobs: make(map[sessionstore.Key][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) keyLock(key sessionstore.Key) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock := s.locks[key]
	if lock == nil {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Put writes value under the composite key. Fails with apperr.Internal if
// the key was already written, matching spec.md I3's "no state is
// overwritten" invariant.
func (s *Store) Put(ctx context.Context, customerID, sessionID string, role sessionstore.Role, value any) error {
	const op = "memstore.Put"
	key, err := sessionstore.BuildKey(customerID, sessionID, role)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, "marshal value", err)
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	_, exists := s.blobs[key]
	if !exists {
		s.blobs[key] = data
	}
	s.mu.Unlock()

	if exists {
		return apperr.New(apperr.Internal, op, "state already written for "+string(key))
	}
	return nil
}

// Get reads the blob stored under the composite key, if any.
func (s *Store) Get(ctx context.Context, customerID, sessionID string, role sessionstore.Role, out any) (bool, error) {
	const op = "memstore.Get"
	key, err := sessionstore.BuildKey(customerID, sessionID, role)
	if err != nil {
		return false, err
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	data, ok := s.blobs[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, apperr.Wrap(apperr.Internal, op, "unmarshal value", err)
	}
	return true, nil
}

// Granted consults the configured policy hook, defaulting to permissive.
func (s *Store) Granted(ctx context.Context, message []byte, customerID string) (bool, error) {
	if s.grantedFn == nil {
		return true, nil
	}
	return s.grantedFn(ctx, message, customerID)
}

// HasActiveShare consults the configured policy hook, defaulting to
// permissive (no customer is ever considered to already own a share).
func (s *Store) HasActiveShare(ctx context.Context, customerID string) (bool, error) {
	if s.hasActiveShareFn == nil {
		return false, nil
	}
	return s.hasActiveShareFn(ctx, customerID)
}

var _ sessionstore.Store = (*Store)(nil)
