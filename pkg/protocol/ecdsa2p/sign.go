package ecdsa2p

import (
	"context"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/chaincode"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// SignFirst runs signing round 1: the server draws an ephemeral k1, persists
// it, and replies with k1*G and a DLog proof of it.
func SignFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*EphKeyGenFirstMsg, error) {
	const op = "ecdsa2p.SignFirst"

	var mk MasterKeyParty1
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key for session")
	}

	k1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate k1", err)
	}
	k1G := curvemath.ScalarBaseMult(k1)
	proof, err := zkproof.ProveDL(k1G, k1, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of k1", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEphEcKeyPair, ephKeyPair{K1: k1}); err != nil {
		return nil, err
	}
	return &EphKeyGenFirstMsg{K1G: k1G, Proof: proof}, nil
}

// SignSecond runs signing round 2: derives the child master key at path,
// verifies the client's DLog proof of k2, decrypts and unblinds the
// homomorphically-combined ciphertext to obtain s, computes r, and
// determines the recovery id. Consults the store's Granted policy hook
// before returning, per spec.md §4.3.
func SignSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *SignSecondMsgRequest) (*Signature, error) {
	const op = "ecdsa2p.SignSecond"
	if req == nil || req.Digest == nil || req.K2G == nil || req.Proof == nil || req.C3 == nil {
		return nil, apperr.New(apperr.BadRequest, op, "malformed sign request")
	}
	if err := zkproof.VerifyDL(req.K2G, req.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "dlog proof of k2 failed", err)
	}

	var eph ephKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEphEcKeyPair, &eph)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.BadRequest, op, "signing round 1 not run")
	}

	var mk MasterKeyParty1
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.SessionNotFound, op, "no master key for session")
	}

	child, err := chaincode.DerivePathParty1(mk.X1, mk.Q, mk.ChainCode, req.Path)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "derive child key", err)
	}

	plain, err := mk.PaillierSK.Decrypt(req.C3)
	if err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "decrypt c3", err)
	}
	plainModN := new(big.Int).Mod(plain, curvemath.Order)

	k1Inv, err := eph.K1.Inverse()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "invert k1", err)
	}
	s := k1Inv.Mul(curvemath.NewScalar(plainModN))
	if s.IsZero() {
		return nil, apperr.New(apperr.ProofFailed, op, "s is zero, retry with fresh nonces")
	}

	rPoint := req.K2G.ScalarMult(eph.K1)
	r := curvemath.NewScalar(rPoint.X())

	normS, flipped := curvemath.NormalizeS(s)
	recid := curvemath.RecoveryID(rPoint, flipped)

	granted, err := store.Granted(ctx, req.Digest.Bytes(), customerID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, apperr.New(apperr.Unauthorized, op, "signing not granted for customer")
	}

	if !curvemath.VerifyECDSA(child.Q, req.Digest, r, normS) {
		return nil, apperr.New(apperr.Internal, op, "unreachable: produced signature does not verify")
	}

	return &Signature{R: r, S: normS, RecID: recid}, nil
}
