package ecdsa2p

import (
	"context"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// Rotation runs under its own session id: it reads the master key at
// oldSessionID and, on success, persists a new MasterKeyParty1 at
// newSessionID with the same Q and chain code but a fresh multiplicative
// share x1' = x1*rho (party two's share becomes x2*rho^-1, so Q is
// preserved), per spec.md §4.4. Intermediate rounds address only
// newSessionID; oldSessionID travels inside the persisted rotation state so
// later rounds can find the key being rotated.

// RotateFirst runs rotation round 1: the server draws rho1 and commits to
// it, the first leg of the coin flip that derives the shared rho.
func RotateFirst(ctx context.Context, store sessionstore.Store, customerID, oldSessionID, newSessionID string) (*RotationFirstMsg, error) {
	const op = "ecdsa2p.RotateFirst"

	var mk MasterKeyParty1
	found, err := store.Get(ctx, customerID, oldSessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key at old session")
	}

	rho1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate rho1", err)
	}
	c, witness, err := commitment.Commit(rho1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to rho1", err)
	}

	if err := store.Put(ctx, customerID, newSessionID, sessionstore.RoleRotationCoinCommit, rotationCoinCommit{
		Rho1:         rho1,
		Witness:      witness,
		OldSessionID: oldSessionID,
	}); err != nil {
		return nil, err
	}
	return &RotationFirstMsg{Commitment: c}, nil
}

// RotateSecond runs rotation round 2: the client posts rho2, the server
// reveals rho1, and both sides fold rho1+rho2 into the agreed rho. The
// server re-encrypts x1*rho under its existing Paillier key with fresh
// randomness, ready for the round 3-4 PDL re-proof.
func RotateSecond(ctx context.Context, store sessionstore.Store, customerID, newSessionID string, req *RotationSecondRequest) (*RotationSecondMsg, error) {
	const op = "ecdsa2p.RotateSecond"
	if req == nil || req.Rho2 == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing rho2")
	}

	var coin rotationCoinCommit
	found, err := store.Get(ctx, customerID, newSessionID, sessionstore.RoleRotationCoinCommit, &coin)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "rotation round 1 not run")
	}

	var mk MasterKeyParty1
	found, err = store.Get(ctx, customerID, coin.OldSessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key at old session")
	}

	rho := coin.Rho1.Add(req.Rho2)
	newX1 := mk.X1.Mul(rho)

	newRKey, err := paillier.RandomUnit(mk.PaillierSK.N)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "draw new c_key randomness", err)
	}
	newCKey, err := mk.PaillierSK.EncryptWithRandomness(newX1.Int(), newRKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "encrypt x1*rho", err)
	}

	if err := store.Put(ctx, customerID, newSessionID, sessionstore.RoleRotationState, rotationState{
		Rho:          rho,
		NewCKey:      newCKey,
		NewRKey:      newRKey,
		OldSessionID: coin.OldSessionID,
	}); err != nil {
		return nil, err
	}
	return &RotationSecondMsg{Rho1: coin.Rho1, Witness: coin.Witness}, nil
}

// RotateThird runs rotation round 3: the first leg of the post-rotation PDL
// coin flip, proving Enc(x1*rho) under the server's existing Paillier key is
// consistent with Q1*rho.
func RotateThird(ctx context.Context, store sessionstore.Store, customerID, newSessionID string, req *RotationThirdRequest) (*RotationThirdMsg, error) {
	const op = "ecdsa2p.RotateThird"
	if req == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing pdl commitment")
	}

	var state rotationState
	found, err := store.Get(ctx, customerID, newSessionID, sessionstore.RoleRotationState, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "rotation round 2 not run")
	}
	var mk MasterKeyParty1
	found, err = store.Get(ctx, customerID, state.OldSessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key at old session")
	}

	first, witness, err := zkproof.ProveFirst(&mk.PaillierSK.PublicKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "build pdl first message", err)
	}

	if err := store.Put(ctx, customerID, newSessionID, sessionstore.RolePDLDecommit, witness); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, newSessionID, sessionstore.RolePDLFirstMessage, first); err != nil {
		return nil, err
	}
	return first, nil
}

// RotateFourth runs rotation round 4: the client reveals its blinding
// value, the server answers the PDL challenge for the rotated share, and,
// having completed its own half of the protocol, commits the rotated
// master key at newSessionID. A client that rejects the resulting proof
// simply discards its own rotated share and never uses newSessionID again;
// the server's rotated key is deterministic and does not depend on the
// client's acceptance.
func RotateFourth(ctx context.Context, store sessionstore.Store, customerID, newSessionID string, req *RotationFourthRequest) (*RotationFourthMsg, error) {
	const op = "ecdsa2p.RotateFourth"
	if req == nil || req.Witness == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing pdl reveal")
	}

	var state rotationState
	found, err := store.Get(ctx, customerID, newSessionID, sessionstore.RoleRotationState, &state)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "rotation round 2 not run")
	}
	var mk MasterKeyParty1
	found, err = store.Get(ctx, customerID, state.OldSessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key at old session")
	}
	var witness zkproof.PDLWitness
	found, err = store.Get(ctx, customerID, newSessionID, sessionstore.RolePDLDecommit, &witness)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "rotation round 3 not run")
	}
	var first zkproof.PDLFirstMessage
	found, err = store.Get(ctx, customerID, newSessionID, sessionstore.RolePDLFirstMessage, &first)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "rotation round 3 not run")
	}

	challenge := zkproof.PDLChallenge(&first, req)
	newX1 := mk.X1.Mul(state.Rho)
	second := zkproof.ProveSecond(&mk.PaillierSK.PublicKey, &witness, newX1, state.NewRKey, challenge)

	// Q = x1*x2*G is unchanged by rotation; only x1 and c_key move.
	rotated := MasterKeyParty1{
		X1:         newX1,
		Q:          mk.Q,
		ChainCode:  mk.ChainCode,
		PaillierSK: mk.PaillierSK,
		CKey:       state.NewCKey,
		RKey:       state.NewRKey,
	}
	if err := store.Put(ctx, customerID, newSessionID, sessionstore.RoleMasterKey1, rotated); err != nil {
		return nil, err
	}
	return second, nil
}
