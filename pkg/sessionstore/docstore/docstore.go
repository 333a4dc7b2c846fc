// Package docstore adapts a pluggable DocumentClient — standing in for a
// cloud document-store SDK client such as DynamoDB or Firestore — to the
// sessionstore.Store interface, for production deployments.
package docstore

import (
	"context"
	"encoding/json"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

// DocumentClient is the minimal surface a cloud document-store SDK must
// expose for this package to adapt it into a sessionstore.Store. A real
// deployment implements this over its vendor SDK of choice (DynamoDB,
// Firestore, Cosmos DB, ...); this package depends on none of them directly.
type DocumentClient interface {
	// PutItem writes data under key, failing if an item already exists at
	// that key (a conditional put, e.g. DynamoDB's
	// ConditionExpression="attribute_not_exists(pk)").
	PutItem(ctx context.Context, key string, data []byte) error

	// GetItem returns the item stored at key, or (nil, false, nil) on a
	// miss.
	GetItem(ctx context.Context, key string) ([]byte, bool, error)
}

// Store is a sessionstore.Store backed by a DocumentClient.
type Store struct {
	client DocumentClient

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

// New returns a Store backed by client.
func New(client DocumentClient, opts ...Option) *Store {
	s := &Store{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Put(ctx context.Context, customerID, sessionID string, role sessionstore.Role, value any) error {
	const op = "docstore.Put"
	key, err := sessionstore.BuildKey(customerID, sessionID, role)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, "marshal value", err)
	}
	if err := s.client.PutItem(ctx, string(key), data); err != nil {
		return apperr.Wrap(apperr.StoreUnavailable, op, "document store put failed", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, customerID, sessionID string, role sessionstore.Role, out any) (bool, error) {
	const op = "docstore.Get"
	key, err := sessionstore.BuildKey(customerID, sessionID, role)
	if err != nil {
		return false, err
	}
	data, ok, err := s.client.GetItem(ctx, string(key))
	if err != nil {
		return false, apperr.Wrap(apperr.StoreUnavailable, op, "document store get failed", err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, apperr.Wrap(apperr.Internal, op, "unmarshal value", err)
	}
	return true, nil
}

func (s *Store) Granted(ctx context.Context, message []byte, customerID string) (bool, error) {
	if s.grantedFn == nil {
		return true, nil
	}
	return s.grantedFn(ctx, message, customerID)
}

func (s *Store) HasActiveShare(ctx context.Context, customerID string) (bool, error) {
	if s.hasActiveShareFn == nil {
		return false, nil
	}
	return s.hasActiveShareFn(ctx, customerID)
}

var _ sessionstore.Store = (*Store)(nil)
