package eddsa2p

import (
	"context"
	"crypto/sha512"

	"filippo.io/edwards25519"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

// SignFirst runs signing round 1: the server draws an ephemeral nonce r1,
// commits to R1 = r1*G, and persists it for round 2. Mirrors
// ecdsa2p.SignFirst's pattern, except here the server commits instead of
// revealing its nonce point directly: MuSig-style aggregation requires both
// nonce commitments to be fixed before either party learns the other's R,
// or a rogue party could bias the aggregate R after seeing the honest
// party's point.
func SignFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*EphFirstMsg, error) {
	const op = "eddsa2p.SignFirst"

	r1, err := randomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate r1", err)
	}
	p1 := edwards25519.NewIdentityPoint().ScalarBaseMult(r1)

	c, witness, err := commitment.Commit(p1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to r1*g", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEdDSAEphKeyPair, ephKeyPair{R1: r1.Bytes(), P1: p1.Bytes()}); err != nil {
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
const signCommWitnessRole sessionstore.Role = "eddsasigncommwitness"

// SignSecond runs signing round 2: the client reveals R2 and the message
// directly (no coin-flip needed, since only R is biasable and both r1 and r2
// are now fixed before aggregation). The server decommits R1, computes the
// joint R and Fiat-Shamir challenge e, and returns its partial signature s1
// alongside R so the client can compute s2 and assemble the final signature.
func SignSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *SignSecondRequest) (*SignSecondMsg, error) {
	const op = "eddsa2p.SignSecond"
	if req == nil || len(req.Message) == 0 || len(req.R2) == 0 {
		return nil, apperr.New(apperr.BadRequest, op, "missing message or r2")
	}
	r2Point, err := pointFromBytes(req.R2)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, op, "decode r2*g", err)
	}

	var eph ephKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEdDSAEphKeyPair, &eph)
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
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleEdDSAMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "keygen not completed")
	}

	r1, err := scalarFromBytes(eph.R1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode r1", err)
	}
	p1, err := pointFromBytes(eph.P1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode r1*g", err)
	}
	a1, err := scalarFromBytes(mk.A1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode a1", err)
	}
	apk, err := pointFromBytes(mk.Apk)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode apk", err)
	}

	r := edwards25519.NewIdentityPoint().Add(p1, r2Point)
	e := signChallenge(r, apk, req.Message)

	s1 := edwards25519.NewScalar().Add(r1, edwards25519.NewScalar().Multiply(e, a1))

	return &SignSecondMsg{Witness: cw.Witness, R1: p1.Bytes(), S1: s1.Bytes()}, nil
}

// signChallenge computes EdDSA's e = SHA-512(R || Apk || message) mod L,
// matching the standard single-party challenge so the resulting (R,s)
// verifies against crypto/ed25519.Verify unmodified.
func signChallenge(r, apk *edwards25519.Point, message []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write(r.Bytes())
	h.Write(apk.Bytes())
	h.Write(message)
	e, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		panic(err)
	}
	return e
}
