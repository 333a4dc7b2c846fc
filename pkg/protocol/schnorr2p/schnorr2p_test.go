package schnorr2p_test

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/schnorr2p"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

type client2 struct {
	x2  *curvemath.Scalar
	apk *curvemath.Point
}

func runKeyGen(t *testing.T, ctx context.Context, store *memstore.Store, customerID, sessionID string) (*schnorr2p.MasterKeyParty1, *client2) {
	t.Helper()

	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	p2 := curvemath.ScalarBaseMult(x2)

	first, err := schnorr2p.KeyGenFirst(ctx, store, customerID, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Commitment)

	proof, err := zkproof.ProveDL(p2, x2, []byte(sessionID))
	require.NoError(t, err)
	second, err := schnorr2p.KeyGenSecond(ctx, store, customerID, sessionID, &schnorr2p.DLogProofMsg{Point: p2, Proof: proof})
	require.NoError(t, err)

	var mk schnorr2p.MasterKeyParty1
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleSchnorrMasterKey1, &mk)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, second.Apk.Equal(mk.Apk))

	return &mk, &client2{x2: x2, apk: mk.Apk}
}

func TestKeyGenRoundTripProducesAggregatePublicKey(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust1", "sess1")

	combined := mk.X1.Add(c2.x2)
	require.True(t, curvemath.ScalarBaseMult(combined).Equal(c2.apk))
}

func TestSignRoundTripProducesValidSignature(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust2", "sess2")

	digest := curvemath.HashToScalar([]byte("schnorr2p test message"))

	first, err := schnorr2p.SignFirst(ctx, store, "cust2", "sess2")
	require.NoError(t, err)
	require.NotEmpty(t, first.Commitment)

	r2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	p2 := curvemath.ScalarBaseMult(r2)

	second, err := schnorr2p.SignSecond(ctx, store, "cust2", "sess2", &schnorr2p.SignSecondRequest{
		Digest: digest,
		R2:     p2,
	})
	require.NoError(t, err)

	r := second.R1.Add(p2)
	sig := &schnorr2p.Signature{R: r}

	// Client independently derives the same challenge e and computes s2,
	// then combines with the server's s1.
	combinedSig := func() *curvemath.Scalar {
		h := challengeForTest(r, mk.Apk, digest)
		s2 := r2.Add(h.Mul(c2.x2))
		return second.S1.Add(s2)
	}()
	sig.S = combinedSig

	require.True(t, schnorr2p.VerifySignature(mk.Apk, digest, sig))
}

// challengeForTest reimplements schnorr2p's unexported signChallenge so the
// test can play the client's half of the signing computation without going
// through the gothamclient driver.
func challengeForTest(r, apk *curvemath.Point, digest *curvemath.Scalar) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/schnorr2p/sign"))
	h.Write(r.Bytes())
	h.Write(apk.Bytes())
	h.Write(digest.Bytes())
	return curvemath.HashToScalar(h.Sum(nil))
}

func TestSignRejectsMissingRound1(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	_, _ = runKeyGen(t, ctx, store, "cust3", "sess3")

	_, err := schnorr2p.SignSecond(ctx, store, "cust3", "nonexistent-session", &schnorr2p.SignSecondRequest{
		Digest: curvemath.HashToScalar([]byte("msg")),
		R2:     curvemath.ScalarBaseMult(mustScalar(t)),
	})
	require.Error(t, err)
}

func mustScalar(t *testing.T) *curvemath.Scalar {
	t.Helper()
	s, err := curvemath.RandomScalar()
	require.NoError(t, err)
	return s
}

func TestVSSSplitAndReconstruct(t *testing.T) {
	secret, err := curvemath.RandomScalar()
	require.NoError(t, err)

	shares, commitments, err := schnorr2p.SplitSecret(secret)
	require.NoError(t, err)

	require.NoError(t, schnorr2p.VerifyShare(commitments, shares[0]))
	require.NoError(t, schnorr2p.VerifyShare(commitments, shares[1]))

	recovered, err := schnorr2p.Reconstruct(shares)
	require.NoError(t, err)
	require.True(t, recovered.Equal(secret))
}

func TestVSSRejectsTamperedShare(t *testing.T) {
	secret, err := curvemath.RandomScalar()
	require.NoError(t, err)
	shares, commitments, err := schnorr2p.SplitSecret(secret)
	require.NoError(t, err)

	other, err := curvemath.RandomScalar()
	require.NoError(t, err)
	shares[0].Value = other

	require.Error(t, schnorr2p.VerifyShare(commitments, shares[0]))
}
