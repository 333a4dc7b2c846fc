package gothamclient_test

import (
	"context"
	"crypto/ed25519"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/auth"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/gothamclient"
	"github.com/zengo-x/gotham-sub000/pkg/gothamserver"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
)

func newTestClient(t *testing.T) *gothamclient.Client {
	t.Helper()
	store := memstore.New()
	verifier := auth.NewBearerVerifier(map[string]string{"test-token": "cust1"})
	router := gothamserver.NewRouter(store, verifier, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return gothamclient.New(srv.URL, "test-token")
}

func TestECDSAKeyGenSignAndRotate(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	kg, err := c.ECDSAKeyGen(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, kg.SessionID)
	require.NotNil(t, kg.MasterKey.Q)

	digest := curvemath.HashToScalar([]byte("first message"))
	sig, err := c.ECDSASign(ctx, kg.SessionID, kg.MasterKey, digest, nil)
	require.NoError(t, err)
	require.True(t, curvemath.VerifyECDSA(kg.MasterKey.Q, digest, sig.R, sig.S))

	child, err := c.ECDSASign(ctx, kg.SessionID, kg.MasterKey, digest, []uint32{0, 7})
	require.NoError(t, err)
	require.NotNil(t, child)

	rotated, err := c.ECDSARotate(ctx, kg.SessionID, kg.MasterKey)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.SessionID)
	require.NotEqual(t, kg.SessionID, rotated.SessionID)
	require.True(t, rotated.MasterKey.Q.Equal(kg.MasterKey.Q))

	digest2 := curvemath.HashToScalar([]byte("after rotation"))
	sig2, err := c.ECDSASign(ctx, rotated.SessionID, rotated.MasterKey, digest2, nil)
	require.NoError(t, err)
	require.True(t, curvemath.VerifyECDSA(rotated.MasterKey.Q, digest2, sig2.R, sig2.S))
}

func TestEdDSAKeyGenAndSign(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	kg, err := c.EdDSAKeyGen(ctx)
	require.NoError(t, err)
	require.Len(t, kg.Apk, ed25519.PublicKeySize)

	message := []byte("hello eddsa")
	sig, err := c.EdDSASign(ctx, kg.SessionID, kg.A2, kg.Apk, message)
	require.NoError(t, err)
	require.True(t, ed25519.Verify(kg.Apk, message, sig))
}

func TestSchnorrKeyGenAndSign(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	kg, err := c.SchnorrKeyGen(ctx)
	require.NoError(t, err)
	require.NotNil(t, kg.Apk)

	digest := curvemath.HashToScalar([]byte("hello schnorr"))
	sig, err := c.SchnorrSign(ctx, kg.SessionID, kg.X2, kg.Apk, digest)
	require.NoError(t, err)
	require.NotNil(t, sig.R)
	require.NotNil(t, sig.S)
}
