package docstore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/docstore"
)

type fakeClient struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string][]byte)}
}

func (f *fakeClient) PutItem(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeClient) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.items[key]
	return data, ok, nil
}

type blob struct {
	Value string `json:"value"`
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := docstore.New(newFakeClient())

	require.NoError(t, s.Put(ctx, "cust1", "sess1", sessionstore.RoleEcKeyPair, blob{Value: "hello"}))

	var out blob
	found, err := s.Get(ctx, "cust1", "sess1", sessionstore.RoleEcKeyPair, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hello", out.Value)
}

func TestGetMissReturnsFalseNotError(t *testing.T) {
	ctx := context.Background()
	s := docstore.New(newFakeClient())

	var out blob
	found, err := s.Get(ctx, "cust1", "sess1", sessionstore.RoleEcKeyPair, &out)
	require.NoError(t, err)
	require.False(t, found)
}
