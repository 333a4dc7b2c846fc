package ecdsa2p

import (
	"context"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// rangeBound is n/3, the bound spec.md §4.2 requires c_key's range proof to
// establish ("that the encrypted value is bounded by n/3").
func rangeBound() *big.Int {
	return new(big.Int).Div(curvemath.Order, big.NewInt(3))
}

// KeyGenFirst runs keygen round 1: the server generates (x1, Q1), commits to
// Q1, and persists the state round 2 will need.
func KeyGenFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*KeyGenFirstMsg, error) {
	const op = "ecdsa2p.KeyGenFirst"

	x1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate x1", err)
	}
	q1 := curvemath.ScalarBaseMult(x1)

	c, witness, err := commitment.Commit(q1.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to q1", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleEcKeyPair, ecKeyPair{X1: x1, Q1: q1}); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleCommWitness, commWitness{Witness: witness}); err != nil {
		return nil, err
	}
	msg := &KeyGenFirstMsg{Commitment: c}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleKeyGenFirstMsg, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// KeyGenSecond runs keygen round 2: verifies the client's DLog proof of Q2,
// decommits Q1, generates a Paillier keypair, encrypts x1 into c_key, and
// attaches range and correct-key proofs.
func KeyGenSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *DLogProofMsg) (*KGParty1Message2, error) {
	const op = "ecdsa2p.KeyGenSecond"
	if req == nil || req.Point == nil || req.Proof == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing dlog proof")
	}
	if err := zkproof.VerifyDL(req.Point, req.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "dlog proof of q2 failed", err)
	}

	var kp ecKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEcKeyPair, &kp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}
	var cw commWitness
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleCommWitness, &cw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}

	paillierSK, err := paillier.Generate()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate paillier key", err)
	}
	rKey, err := paillier.RandomUnit(paillierSK.N)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "draw c_key randomness", err)
	}
	cKey, err := paillierSK.EncryptWithRandomness(kp.X1.Int(), rKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "encrypt x1", err)
	}

	correctKeyProof, err := zkproof.ProveValidPaillier(paillierSK, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove correct key", err)
	}
	rangeProof, err := zkproof.ProveRange(&paillierSK.PublicKey, cKey, kp.X1.Int(), rKey, rangeBound(), []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove range", err)
	}

	// RolePaillierKeyPair's public half is embedded directly in
	// party1Private.PaillierSK rather than persisted twice.
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleParty1Private, party1Private{
		PaillierSK: paillierSK,
		CKey:       cKey,
		RKey:       rKey,
	}); err != nil {
		return nil, err
	}

	return &KGParty1Message2{
		Decommit:        cw.Witness,
		PaillierPub:     &paillierSK.PublicKey,
		CKey:            cKey,
		CorrectKeyProof: correctKeyProof,
		RangeProof:      rangeProof,
	}, nil
}

// KeyGenThird runs keygen round 3: the first leg of the PDL coin flip. The
// client posts a commitment to its blinding value; the server answers with
// its own PDL first message and persists the witness behind it.
func KeyGenThird(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *zkproof.PDLClientCommit) (*zkproof.PDLFirstMessage, error) {
	const op = "ecdsa2p.KeyGenThird"
	if req == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing pdl commitment")
	}

	var priv party1Private
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleParty1Private, &priv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 2 not run")
	}

	first, witness, err := zkproof.ProveFirst(&priv.PaillierSK.PublicKey)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "build pdl first message", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RolePDLDecommit, witness); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RolePDLFirstMessage, first); err != nil {
		return nil, err
	}
	return first, nil
}

// KeyGenFourth runs keygen round 4: the client reveals its blinding value,
// letting the server compute the unbiased PDL challenge and respond.
func KeyGenFourth(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *zkproof.PDLClientReveal) (*zkproof.PDLSecondMessage, error) {
	const op = "ecdsa2p.KeyGenFourth"
	if req == nil || req.Witness == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing pdl reveal")
	}

	var kp ecKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEcKeyPair, &kp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}
	var priv party1Private
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleParty1Private, &priv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 2 not run")
	}
	var witness zkproof.PDLWitness
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RolePDLDecommit, &witness)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 3 not run")
	}
	var first zkproof.PDLFirstMessage
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RolePDLFirstMessage, &first)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 3 not run")
	}

	challenge := zkproof.PDLChallenge(&first, req)
	second := zkproof.ProveSecond(&priv.PaillierSK.PublicKey, &witness, kp.X1, priv.RKey, challenge)
	return second, nil
}

// ChainCodeFirst runs chain-code round 1: the server commits to cc1*G.
func ChainCodeFirst(ctx context.Context, store sessionstore.Store, customerID, sessionID string) (*CCFirstMessage, error) {
	const op = "ecdsa2p.ChainCodeFirst"
	cc1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate cc1", err)
	}
	point := curvemath.ScalarBaseMult(cc1)
	c, witness, err := commitment.Commit(point.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "commit to cc1", err)
	}

	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleCCEcKeyPair, ccKeyPair{Cc1: cc1}); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleCCCommWitness, commWitness{Witness: witness}); err != nil {
		return nil, err
	}
	return &CCFirstMessage{Commitment: c}, nil
}

// ChainCodeSecond runs chain-code round 2: verifies the client's DLog proof
// of cc2*G and decommits cc1*G.
func ChainCodeSecond(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *DLogProofMsg) (*CCSecondMessage, error) {
	const op = "ecdsa2p.ChainCodeSecond"
	if req == nil || req.Point == nil || req.Proof == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing dlog proof")
	}
	if err := zkproof.VerifyDL(req.Point, req.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "dlog proof of cc2 failed", err)
	}

	var cw commWitness
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleCCCommWitness, &cw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "chain-code round 1 not run")
	}
	return &CCSecondMessage{Decommit: cw.Witness}, nil
}

// ChainCodeCompute runs the chain-code compute round: both sides hash
// (cc1*cc2)*G into the 256-bit chain code.
func ChainCodeCompute(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *ChainCodeComputeRequest) error {
	const op = "ecdsa2p.ChainCodeCompute"
	if req == nil || req.Cc2G == nil {
		return apperr.New(apperr.BadRequest, op, "missing cc2*g")
	}

	var kp ccKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleCCEcKeyPair, &kp)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.MissingState, op, "chain-code round 1 not run")
	}

	point := req.Cc2G.ScalarMult(kp.Cc1)
	chainCode := chainCodeFromPoint(point)

	return store.Put(ctx, customerID, sessionID, sessionstore.RoleChainCode, chainCodeBlob{Value: chainCode})
}

// chainCodeBlob is the persisted chain-code value.
type chainCodeBlob struct {
	Value [32]byte `json:"value"`
}

func chainCodeFromPoint(p *curvemath.Point) [32]byte {
	sum := curvemath.HashToScalar(p.Bytes())
	var out [32]byte
	copy(out[:], sum.Bytes())
	return out
}

// Finalize runs the keygen finalize round: assembles and persists
// MasterKeyParty1. The caller (gothamserver) is responsible for returning Q
// so the client can assert x2*Q1 == Q matches its own computation.
func Finalize(ctx context.Context, store sessionstore.Store, customerID, sessionID string, req *FinalizeRequest) (*curvemath.Point, error) {
	const op = "ecdsa2p.Finalize"
	if req == nil || req.Q2 == nil {
		return nil, apperr.New(apperr.BadRequest, op, "missing q2")
	}

	var kp ecKeyPair
	found, err := store.Get(ctx, customerID, sessionID, sessionstore.RoleEcKeyPair, &kp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 1 not run")
	}
	var priv party1Private
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleParty1Private, &priv)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "keygen round 2 not run")
	}
	var cc chainCodeBlob
	found, err = store.Get(ctx, customerID, sessionID, sessionstore.RoleChainCode, &cc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.MissingState, op, "chain-code compute not run")
	}

	// Q = x1*x2*G = x1*Q2 (I1).
	q := req.Q2.ScalarMult(kp.X1)
	if q.IsInfinity() {
		return nil, apperr.New(apperr.Internal, op, "unreachable: Q at infinity")
	}

	mk := MasterKeyParty1{
		X1:         kp.X1,
		Q:          q,
		ChainCode:  cc.Value,
		PaillierSK: priv.PaillierSK,
		CKey:       priv.CKey,
		RKey:       priv.RKey,
	}
	if err := store.Put(ctx, customerID, sessionID, sessionstore.RoleMasterKey1, mk); err != nil {
		return nil, err
	}
	return q, nil
}
