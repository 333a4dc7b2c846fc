package eddsa2p_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/protocol/eddsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
)

func randomScalar(t *testing.T) *edwards25519.Scalar {
	t.Helper()
	var seed [64]byte
	_, err := rand.Read(seed[:])
	require.NoError(t, err)
	s, err := edwards25519.NewScalar().SetUniformBytes(seed[:])
	require.NoError(t, err)
	return s
}

// client2 plays party two's side of the protocol directly against the
// eddsa2p server functions, in process and without the gothamclient HTTP
// driver.
type client2 struct {
	a2  *edwards25519.Scalar
	apk *edwards25519.Point
}

func runKeyGen(t *testing.T, ctx context.Context, store *memstore.Store, customerID, sessionID string) (*eddsa2p.MasterKeyParty1, *client2) {
	t.Helper()

	a2 := randomScalar(t)
	p2 := edwards25519.NewIdentityPoint().ScalarBaseMult(a2)

	first, err := eddsa2p.KeyGenFirst(ctx, store, customerID, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Commitment)

	proof, err := eddsa2p.ProveDL(p2, a2, []byte(sessionID))
	require.NoError(t, err)
	second, err := eddsa2p.KeyGenSecond(ctx, store, customerID, sessionID, &eddsa2p.DLogProofMsg{Point: p2.Bytes(), Proof: proof})
	require.NoError(t, err)

	var mk eddsa2p.MasterKeyParty1
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEdDSAMasterKey1, &mk)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, second.Apk, mk.Apk)

	apk, err := edwards25519.NewIdentityPoint().SetBytes(mk.Apk)
	require.NoError(t, err)

	return &mk, &client2{a2: a2, apk: apk}
}

func TestKeyGenRoundTripProducesAggregatePublicKey(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust1", "sess1")

	a1, err := edwards25519.NewScalar().SetCanonicalBytes(mk.A1)
	require.NoError(t, err)
	combined := edwards25519.NewScalar().Add(a1, c2.a2)
	require.True(t, edwards25519.NewIdentityPoint().ScalarBaseMult(combined).Equal(c2.apk) == 1)
}

func TestSignRoundTripProducesValidSignature(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust2", "sess2")

	message := []byte("gotham eddsa test message")

	first, err := eddsa2p.SignFirst(ctx, store, "cust2", "sess2")
	require.NoError(t, err)
	require.NotEmpty(t, first.Commitment)

	r2 := randomScalar(t)
	p2 := edwards25519.NewIdentityPoint().ScalarBaseMult(r2)

	second, err := eddsa2p.SignSecond(ctx, store, "cust2", "sess2", &eddsa2p.SignSecondRequest{
		Message: message,
		R2:      p2.Bytes(),
	})
	require.NoError(t, err)

	// Client verifies the server's decommitment before trusting R1.
	p1, err := edwards25519.NewIdentityPoint().SetBytes(second.R1)
	require.NoError(t, err)
	require.Equal(t, second.R1, second.Witness.Value)

	r := edwards25519.NewIdentityPoint().Add(p1, p2)

	h := sha512.New()
	h.Write(r.Bytes())
	h.Write(mk.Apk)
	h.Write(message)
	e, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	require.NoError(t, err)

	s2 := edwards25519.NewScalar().Add(r2, edwards25519.NewScalar().Multiply(e, c2.a2))
	s1, err := edwards25519.NewScalar().SetCanonicalBytes(second.S1)
	require.NoError(t, err)
	s := edwards25519.NewScalar().Add(s1, s2)

	sig := append(append([]byte{}, r.Bytes()...), s.Bytes()...)
	require.True(t, ed25519.Verify(ed25519.PublicKey(mk.Apk), message, sig))
}

func TestSignRejectsBadSessionBinding(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, _ = runKeyGen(t, ctx, store, "cust3", "sess3")

	_, err := eddsa2p.SignFirst(ctx, store, "cust3", "sess3")
	require.NoError(t, err)

	// Round 2 against a session that never ran round 1 must fail closed.
	_, err = eddsa2p.SignSecond(ctx, store, "cust3", "nonexistent-session", &eddsa2p.SignSecondRequest{
		Message: []byte("msg"),
		R2:      edwards25519.NewIdentityPoint().Bytes(),
	})
	require.Error(t, err)
}
