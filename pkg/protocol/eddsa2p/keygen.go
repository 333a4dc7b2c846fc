package eddsa2p

import (
	"context"
	"crypto/rand"

	"filippo.io/edwards25519"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

func randomScalar() (*edwards25519.Scalar, error) {
	var seed [64]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(seed[:])
}

// KeyGenFirst runs keygen round 1: the server generates (a1, A1) and commits
// to A1, mirroring ecdsa2p.KeyGenFirst's commit-then-reveal shape.
func KeyGenFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*KeyGenFirstMsg, error) {
	const op = "eddsa2p.KeyGenFirst"

	a1, err := randomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate a1", err)
	}
	p1 := edwards25519.NewIdentityPoint().ScalarBaseMult(a1)

	c, witness, err := commitment.Commit(p1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to a1*g", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEdDSAKeyGenFirstMsg, keyPair{A1: a1.Bytes(), P1: p1.Bytes()}); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEdDSACommWitness, commWitness{Witness: witness}); err != nil {
		return nil, err
	}
	return &KeyGenFirstMsg{Commitment: c}, nil
}

// commWitness is the server-persisted witness behind KeyGenFirstMsg's
// commitment, revealed in round 2.
type commWitness struct {
	Witness *commitment.Witness `json:"witness"`
}

// KeyGenSecond runs keygen round 2: verifies the client's DLog proof of A2,
// decommits A1, and assembles the aggregate public key Apk = A1+A2.
func KeyGenSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *DLogProofMsg) (*KeyGenSecondMsg, error) {
	const op = "eddsa2p.KeyGenSecond"
	if req == nil || len(req.Point) == 0 || req.Proof == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing dlog proof")
	}
	a2Point, err := pointFromBytes(req.Point)
	if err != nil {
		return nil, apperr.Wrap(apperr.BadRequest, op, "decode a2*g", err)
	}
	if err := VerifyDL(a2Point, req.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "dlog proof of a2 failed", err)
	}

	var kp keyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEdDSAKeyGenFirstMsg, &kp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}
	var cw commWitness
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleEdDSACommWitness, &cw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}

	p1, err := pointFromBytes(kp.P1)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode a1*g", err)
	}
	apk := edwards25519.NewIdentityPoint().Add(p1, a2Point)

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEdDSAMasterKey1, MasterKeyParty1{A1: kp.A1, Apk: apk.Bytes()}); err != nil {
		return nil, err
	}

	return &KeyGenSecondMsg{Witness: cw.Witness, Apk: apk.Bytes()}, nil
}
