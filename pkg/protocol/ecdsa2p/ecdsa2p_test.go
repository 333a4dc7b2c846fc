package ecdsa2p_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/chaincode"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// rangeBound mirrors ecdsa2p's unexported rangeBound (n/3), recomputed here
// since the client side needs the same bound to verify the server's proof.
func rangeBound() *big.Int {
	return new(big.Int).Div(curvemath.Order, big.NewInt(3))
}

// client2 plays party two's side of the protocol directly against the
// ecdsa2p server functions, without the gothamclient HTTP driver, so these
// tests can exercise full round trips in process.
type client2 struct {
	x2          *curvemath.Scalar
	q           *curvemath.Point
	chainCode   [32]byte
	paillierPub *paillier.PublicKey
}

func runKeyGen(t *testing.T, ctx context.Context, store *memstore.Store, customerID, sessionID string) (*ecdsa2p.MasterKeyParty1, *client2) {
	t.Helper()

	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	q2 := curvemath.ScalarBaseMult(x2)

	first, err := ecdsa2p.KeyGenFirst(ctx, store, customerID, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, first.Commitment)

	q2Proof, err := zkproof.ProveDL(q2, x2, []byte(sessionID))
	require.NoError(t, err)
	second, err := ecdsa2p.KeyGenSecond(ctx, store, customerID, sessionID, &ecdsa2p.DLogProofMsg{Point: q2, Proof: q2Proof})
	require.NoError(t, err)
	require.NoError(t, zkproof.VerifyValidPaillier(second.PaillierPub, second.CorrectKeyProof, []byte(sessionID)))
	require.NoError(t, zkproof.VerifyRange(second.PaillierPub, second.CKey, rangeBound(), second.RangeProof, []byte(sessionID)))

	var kp struct {
		X1 *curvemath.Scalar `json:"x1"`
		Q1 *curvemath.Point  `json:"q1"`
	}
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEcKeyPair, &kp)
	require.NoError(t, err)
	require.True(t, found)

	clientCommit, clientSecret, err := zkproof.NewPDLClientCommit()
	require.NoError(t, err)
	pdlFirst, err := ecdsa2p.KeyGenThird(ctx, store, customerID, sessionID, clientCommit)
	require.NoError(t, err)
	reveal := clientSecret.Reveal()
	pdlSecond, err := ecdsa2p.KeyGenFourth(ctx, store, customerID, sessionID, reveal)
	require.NoError(t, err)
	require.NoError(t, zkproof.VerifyPDLWithCommitment(second.PaillierPub, kp.Q1, second.CKey, clientCommit, pdlFirst, reveal, pdlSecond))

	cc2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	cc2G := curvemath.ScalarBaseMult(cc2)

	ccFirst, err := ecdsa2p.ChainCodeFirst(ctx, store, customerID, sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, ccFirst.Commitment)

	cc2Proof, err := zkproof.ProveDL(cc2G, cc2, []byte(sessionID))
	require.NoError(t, err)
	_, err = ecdsa2p.ChainCodeSecond(ctx, store, customerID, sessionID, &ecdsa2p.DLogProofMsg{Point: cc2G, Proof: cc2Proof})
	require.NoError(t, err)

	err = ecdsa2p.ChainCodeCompute(ctx, store, customerID, sessionID, &ecdsa2p.ChainCodeComputeRequest{Cc2G: cc2G})
	require.NoError(t, err)

	q, err := ecdsa2p.Finalize(ctx, store, customerID, sessionID, &ecdsa2p.FinalizeRequest{Q2: q2})
	require.NoError(t, err)

	var mk ecdsa2p.MasterKeyParty1
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleMasterKey1, &mk)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, mk.Q.Equal(q))

	return &mk, &client2{
		x2:          x2,
		q:           q,
		chainCode:   mk.ChainCode,
		paillierPub: second.PaillierPub,
	}
}

func TestKeyGenRoundTripProducesAgreeingKeys(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust1", "sess1")

	combined := mk.X1.Mul(c2.x2)
	require.True(t, curvemath.ScalarBaseMult(combined).Equal(mk.Q))
	require.Equal(t, mk.ChainCode, c2.chainCode)
}

// runSign drives one full signing round against the server, simulating
// party two locally. cKey is the ciphertext of child x1 currently active
// for sessionID (mk.CKey pre-rotation, or the rotated CKey afterward).
func runSign(t *testing.T, ctx context.Context, store *memstore.Store, customerID, sessionID string, q *curvemath.Point, cKey *paillier.Ciphertext, c2 *client2, digest *curvemath.Scalar, path []uint32) *ecdsa2p.Signature {
	t.Helper()

	first, err := ecdsa2p.SignFirst(ctx, store, customerID, sessionID)
	require.NoError(t, err)
	require.NoError(t, zkproof.VerifyDL(first.K1G, first.Proof, []byte(sessionID)))

	k2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	k2G := curvemath.ScalarBaseMult(k2)
	k2Proof, err := zkproof.ProveDL(k2G, k2, []byte(sessionID))
	require.NoError(t, err)

	child, err := chaincode.DerivePathParty2(c2.x2, c2.q, c2.chainCode, path)
	require.NoError(t, err)

	k2Inv, err := k2.Inverse()
	require.NoError(t, err)
	rPoint := first.K1G.ScalarMult(k2)
	r := curvemath.NewScalar(rPoint.X())

	// c3 = Enc(k2^-1*m + k2^-1*r*x1*x2) homomorphically combined from c_key,
	// then masked by a random multiple of the curve order before
	// transmission (Lindell's construction); the server's decrypt-and-reduce
	// step transparently cancels the mask.
	part1 := k2Inv.Mul(digest)
	scale := k2Inv.Mul(r).Mul(child.X2)

	c3 := c2.paillierPub.MulScalar(cKey, scale.Int())
	c3, err = c2.paillierPub.AddPlain(c3, part1.Int())
	require.NoError(t, err)

	maskMultiplier, err := paillier.RandomUnit(big.NewInt(1 << 20))
	require.NoError(t, err)
	mask := new(big.Int).Mul(curvemath.Order, maskMultiplier)
	c3, err = c2.paillierPub.AddPlain(c3, mask)
	require.NoError(t, err)

	second, err := ecdsa2p.SignSecond(ctx, store, customerID, sessionID, &ecdsa2p.SignSecondMsgRequest{
		Digest: digest,
		Path:   path,
		K2G:    k2G,
		Proof:  k2Proof,
		C3:     c3,
	})
	require.NoError(t, err)
	require.True(t, curvemath.VerifyECDSA(q, digest, second.R, second.S))
	return second
}

func TestSignRoundTripProducesValidSignature(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust2", "sess2")

	digest := curvemath.HashToScalar([]byte("hello world"))
	runSign(t, ctx, store, "cust2", "sess2", mk.Q, mk.CKey, c2, digest, nil)
}

func TestSignRejectsBadDLogProof(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, _ := runKeyGen(t, ctx, store, "cust3", "sess3")

	_, err := ecdsa2p.SignFirst(ctx, store, "cust3", "sess3")
	require.NoError(t, err)

	otherK, err := curvemath.RandomScalar()
	require.NoError(t, err)
	badPoint := curvemath.ScalarBaseMult(otherK)
	badProof, err := zkproof.ProveDL(badPoint, otherK, []byte("wrong-session"))
	require.NoError(t, err)

	_, err = ecdsa2p.SignSecond(ctx, store, "cust3", "sess3", &ecdsa2p.SignSecondMsgRequest{
		Digest: curvemath.HashToScalar([]byte("msg")),
		K2G:    badPoint,
		Proof:  badProof,
		C3:     mk.CKey,
	})
	require.Error(t, err)
}

func TestRotationPreservesQAndChainCode(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	mk, c2 := runKeyGen(t, ctx, store, "cust4", "sess4")

	newSessionID, err := ecdsa2p.NewSessionID()
	require.NoError(t, err)

	rotFirst, err := ecdsa2p.RotateFirst(ctx, store, "cust4", "sess4", newSessionID)
	require.NoError(t, err)
	require.NotEmpty(t, rotFirst.Commitment)

	rho2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	rotSecond, err := ecdsa2p.RotateSecond(ctx, store, "cust4", newSessionID, &ecdsa2p.RotationSecondRequest{Rho2: rho2})
	require.NoError(t, err)
	require.NoError(t, commitment.Open(rotFirst.Commitment, rotSecond.Witness))
	require.Equal(t, rotSecond.Rho1.Bytes(), rotSecond.Witness.Value)

	clientCommit, clientSecret, err := zkproof.NewPDLClientCommit()
	require.NoError(t, err)
	pdlFirst, err := ecdsa2p.RotateThird(ctx, store, "cust4", newSessionID, clientCommit)
	require.NoError(t, err)
	reveal := clientSecret.Reveal()
	pdlSecond, err := ecdsa2p.RotateFourth(ctx, store, "cust4", newSessionID, reveal)
	require.NoError(t, err)

	rho := rotSecond.Rho1.Add(rho2)
	newQ1 := curvemath.ScalarBaseMult(mk.X1.Mul(rho))

	var rotatedMK ecdsa2p.MasterKeyParty1
	found, err := store.Get(ctx, "cust4", newSessionID, sessionstore.RoleMasterKey1, &rotatedMK)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, zkproof.VerifyPDLWithCommitment(c2.paillierPub, newQ1, rotatedMK.CKey, clientCommit, pdlFirst, reveal, pdlSecond))
	require.True(t, rotatedMK.Q.Equal(mk.Q))
	require.Equal(t, rotatedMK.ChainCode, mk.ChainCode)
	require.True(t, rotatedMK.X1.Equal(mk.X1.Mul(rho)))

	rhoInv, err := rho.Inverse()
	require.NoError(t, err)
	newX2 := c2.x2.Mul(rhoInv)
	combined := rotatedMK.X1.Mul(newX2)
	require.True(t, curvemath.ScalarBaseMult(combined).Equal(mk.Q))

	digest := curvemath.HashToScalar([]byte("post rotation message"))
	c2.x2 = newX2
	runSign(t, ctx, store, "cust4", newSessionID, mk.Q, rotatedMK.CKey, c2, digest, nil)
}
