package gothamclient

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"

	"filippo.io/edwards25519"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/eddsa2p"
)

// EdDSAKeyGenResult bundles the session id and party two's key pair.
type EdDSAKeyGenResult struct {
	SessionID string
	A2        *edwards25519.Scalar
	Apk       ed25519.PublicKey
}

func randomEdwardsScalar() (*edwards25519.Scalar, error) {
	var seed [64]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(seed[:])
}

// EdDSAKeyGen drives the two-round commit-decommit aggregation keygen, per
// spec.md §4.6.
func (c *Client) EdDSAKeyGen(ctx context.Context) (*EdDSAKeyGenResult, error) {
	const op = "gothamclient.EdDSAKeyGen"

	a2, err := randomEdwardsScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate a2", err)
	}
	p2 := edwards25519.NewIdentityPoint().ScalarBaseMult(a2)

	var first struct {
		ID string `json:"id"`
		eddsa2p.KeyGenFirstMsg
	}
	if err := c.post(ctx, "/eddsa/keygen/first", nil, &first); err != nil {
		return nil, err
	}
	sessionID := first.ID

	proof, err := eddsa2p.ProveDL(p2, a2, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of a2", err)
	}
	var second eddsa2p.KeyGenSecondMsg
	if err := c.post(ctx, "/eddsa/keygen/"+sessionID+"/second",
		&eddsa2p.DLogProofMsg{Point: p2.Bytes(), Proof: proof}, &second); err != nil {
		return nil, err
	}
	if err := commitment.Open(first.Commitment, second.Witness); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's a1 decommitment failed", err)
	}
	p1, err := edwards25519.NewIdentityPoint().SetBytes(second.Witness.Value)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode a1*g", err)
	}
	apk := edwards25519.NewIdentityPoint().Add(p1, p2)
	apkBytes := apk.Bytes()
	if !bytes.Equal(apkBytes, second.Apk) {
		return nil, apperr.New(apperr.ProofFailed, op, "server's reported apk disagrees with a1*g+a2*g")
	}

	return &EdDSAKeyGenResult{
		SessionID: sessionID,
		A2:        a2,
		Apk:       ed25519.PublicKey(apkBytes),
	}, nil
}

// eddsaSignChallenge mirrors eddsa2p's unexported signChallenge so the
// client derives the identical Fiat-Shamir scalar e = H(R || Apk || m).
func eddsaSignChallenge(r *edwards25519.Point, apk ed25519.PublicKey, message []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write(r.Bytes())
	h.Write(apk)
	h.Write(message)
	e, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		panic(err)
	}
	return e
}

// EdDSASign drives the two-round MuSig-style signing protocol for message,
// per spec.md §4.6. The returned signature is a standard 64-byte Ed25519
// signature, directly verifiable via crypto/ed25519.Verify.
func (c *Client) EdDSASign(ctx context.Context, sessionID string, a2 *edwards25519.Scalar, apk ed25519.PublicKey, message []byte) ([]byte, error) {
	const op = "gothamclient.EdDSASign"

	var first eddsa2p.EphFirstMsg
	if err := c.post(ctx, "/eddsa/sign/"+sessionID+"/first", nil, &first); err != nil {
		return nil, err
	}

	r2, err := randomEdwardsScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate r2", err)
	}
	p2 := edwards25519.NewIdentityPoint().ScalarBaseMult(r2)

	var second eddsa2p.SignSecondMsg
	if err := c.post(ctx, "/eddsa/sign/"+sessionID+"/second", &eddsa2p.SignSecondRequest{
		Message: message,
		R2:      p2.Bytes(),
	}, &second); err != nil {
		return nil, err
	}
	if err := commitment.Open(first.Commitment, second.Witness); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's r1 decommitment failed", err)
	}
	p1, err := edwards25519.NewIdentityPoint().SetBytes(second.R1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode r1*g", err)
	}
	r := edwards25519.NewIdentityPoint().Add(p1, p2)

	e := eddsaSignChallenge(r, apk, message)
	s2 := edwards25519.NewScalar().Add(r2, edwards25519.NewScalar().Multiply(e, a2))
	s1, err := edwards25519.NewScalar().SetCanonicalBytes(second.S1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode s1", err)
	}
	s := edwards25519.NewScalar().Add(s1, s2)

	sig := append(append([]byte{}, r.Bytes()...), s.Bytes()...)
	if !ed25519.Verify(apk, message, sig) {
		return nil, apperr.New(apperr.ProofFailed, op, "assembled signature does not verify")
	}
	return sig, nil
}
