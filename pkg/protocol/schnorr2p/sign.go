package schnorr2p

import (
	"context"
	"crypto/sha256"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

// SignFirst runs signing round 1: the server draws an ephemeral nonce r1,
// commits to R1 = r1*G, and persists it for round 2. Commit-then-reveal
// here for the same reason as eddsa2p.SignFirst: both nonce points must be
// fixed before either party learns the other's, or the joint R can be
// biased by whichever party reveals second.
func SignFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*EphFirstMsg, error) {
	const op = "schnorr2p.SignFirst"

	r1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate r1", err)
	}
	p1 := curvemath.ScalarBaseMult(r1)

	c, witness, err := commitment.Commit(p1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to r1*g", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleSchnorrEphKeyPair, ephKeyPair{R1: r1, P1: p1}); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, signCommWitnessRole, commWitness{Witness: witness}); err != nil {
		return nil, err
	}
	return &EphFirstMsg{Commitment: c}, nil
}

// signCommWitnessRole is distinct from the keygen commitment-witness role:
// keygen's witness stays in the store for the life of the session, and the
// store never overwrites an existing record.
const signCommWitnessRole sessionstore.Role = "schnorrsigncommwitness"

// SignSecond runs signing round 2: the client reveals R2 and the message
// digest directly. The server decommits R1, computes the joint R and
// challenge e, and returns its partial signature s1 alongside R1 so the
// client can compute s2 and assemble the final signature.
func SignSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *SignSecondRequest) (*SignSecondMsg, error) {
	const op = "schnorr2p.SignSecond"
	if req == nil || req.Digest == nil || req.R2 == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing digest or r2")
	}

	var eph ephKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleSchnorrEphKeyPair, &eph)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "sign round 1 not run")
	}
	var cw commWitness
	found, err = store.Get(ctx, customerID, sessionID, signCommWitnessRole, &cw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "sign round 1 not run")
	}
	var mk MasterKeyParty1
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleSchnorrMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "keygen not completed")
	}

	r := eph.P1.Add(req.R2)
	e := signChallenge(r, mk.Apk, req.Digest)
	s1 := eph.R1.Add(e.Mul(mk.X1))

	return &SignSecondMsg{Witness: cw.Witness, R1: eph.P1, S1: s1}, nil
}

// VerifySignature checks a final two-party Schnorr signature against
// apk: s*G == R + e*Apk.
func VerifySignature(apk *curvemath.Point, digest *curvemath.Scalar, sig *Signature) bool {
	if apk == nil || digest == nil || sig == nil || sig.R == nil || sig.S == nil {
		return false
	}
	e := signChallenge(sig.R, apk, digest)
	lhs := curvemath.ScalarBaseMult(sig.S)
	rhs := sig.R.Add(apk.ScalarMult(e))
	return lhs.Equal(rhs)
}

// signChallenge computes e = H(R || Apk || digest) mod n, the Fiat-Shamir
// challenge binding a two-party Schnorr signature to its nonce, key, and
// message, mirroring zkproof's domain-separated SHA-256 challenge
// construction.
func signChallenge(r, apk *curvemath.Point, digest *curvemath.Scalar) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/schnorr2p/sign"))
	h.Write(r.Bytes())
	h.Write(apk.Bytes())
	h.Write(digest.Bytes())
	return curvemath.HashToScalar(h.Sum(nil))
}
