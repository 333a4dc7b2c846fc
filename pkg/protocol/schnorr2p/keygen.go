package schnorr2p

import (
	"context"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// KeyGenFirst runs keygen round 1: the server generates (x1, P1) and commits
// to P1, mirroring ecdsa2p.KeyGenFirst's commit-then-reveal shape but with
// additive (not multiplicative) aggregation.
func KeyGenFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*KeyGenFirstMsg, error) {
	const op = "schnorr2p.KeyGenFirst"

	x1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate x1", err)
	}
	p1 := curvemath.ScalarBaseMult(x1)

	c, witness, err := commitment.Commit(p1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to p1", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleSchnorrKeyGenFirstMsg, keyPair{X1: x1, P1: p1}); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleSchnorrCommWitness, commWitness{Witness: witness}); err != nil {
		return nil, err
	}
	return &KeyGenFirstMsg{Commitment: c}, nil
}

// KeyGenSecond runs keygen round 2: verifies the client's DLog proof of P2,
// decommits P1, and assembles the aggregate public key Apk = P1+P2.
func KeyGenSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *DLogProofMsg) (*KeyGenSecondMsg, error) {
	const op = "schnorr2p.KeyGenSecond"
	if req == nil || req.Point == nil || req.Proof == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing dlog proof")
	}
	if err := zkproof.VerifyDL(req.Point, req.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "dlog proof of p2 failed", err)
	}

	var kp keyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleSchnorrKeyGenFirstMsg, &kp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}
	var cw commWitness
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleSchnorrCommWitness, &cw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}

	apk := kp.P1.Add(req.Point)

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleSchnorrMasterKey1, MasterKeyParty1{X1: kp.X1, Apk: apk}); err != nil {
		return nil, err
	}

	return &KeyGenSecondMsg{Witness: cw.Witness, Apk: apk}, nil
}
