package gothamclient

import (
	"context"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/chaincode"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// ECDSAKeyGenResult bundles the session id and party two's completed key
// material, ready to be persisted into a wallet file.
type ECDSAKeyGenResult struct {
	SessionID string
	MasterKey *ecdsa2p.MasterKeyParty2
}

// rangeBound mirrors ecdsa2p's unexported bound (n/3) so the client can
// verify the server's range proof over c_key without importing server
// internals.
func rangeBound() *big.Int {
	return new(big.Int).Div(curvemath.Order, big.NewInt(3))
}

// ECDSAKeyGen drives the full four-round keygen plus chain-code exchange
// and finalize, per spec.md §4.2.
func (c *Client) ECDSAKeyGen(ctx context.Context) (*ECDSAKeyGenResult, error) {
	const op = "gothamclient.ECDSAKeyGen"

	x2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate x2", err)
	}
	q2 := curvemath.ScalarBaseMult(x2)

	var first struct {
		ID string `json:"id"`
		ecdsa2p.KeyGenFirstMsg
	}
	if err := c.post(ctx, "/ecdsa/keygen/first", nil, &first); err != nil {
		return nil, err
	}
	sessionID := first.ID

	q2Proof, err := zkproof.ProveDL(q2, x2, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of x2", err)
	}
	var second ecdsa2p.KGParty1Message2
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/second",
		&ecdsa2p.DLogProofMsg{Point: q2, Proof: q2Proof}, &second); err != nil {
		return nil, err
	}
	if err := zkproof.VerifyValidPaillier(second.PaillierPub, second.CorrectKeyProof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "server's paillier key proof failed", err)
	}
	if err := zkproof.VerifyRange(second.PaillierPub, second.CKey, rangeBound(), second.RangeProof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "server's range proof failed", err)
	}
	if err := commitment.Open(first.Commitment, second.Decommit); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's q1 decommitment failed", err)
	}
	q1, err := curvemath.PointFromBytes(second.Decommit.Value)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode q1", err)
	}

	clientCommit, clientSecret, err := zkproof.NewPDLClientCommit()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "build pdl commitment", err)
	}
	var pdlFirst zkproof.PDLFirstMessage
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/third", clientCommit, &pdlFirst); err != nil {
		return nil, err
	}
	reveal := clientSecret.Reveal()
	var pdlSecond zkproof.PDLSecondMessage
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/fourth", reveal, &pdlSecond); err != nil {
		return nil, err
	}
	if err := zkproof.VerifyPDLWithCommitment(second.PaillierPub, q1, second.CKey, clientCommit, &pdlFirst, reveal, &pdlSecond); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "server's pdl proof failed", err)
	}

	cc2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate cc2", err)
	}
	cc2G := curvemath.ScalarBaseMult(cc2)

	var ccFirst ecdsa2p.CCFirstMessage
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/chaincode/first", nil, &ccFirst); err != nil {
		return nil, err
	}
	cc2Proof, err := zkproof.ProveDL(cc2G, cc2, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of cc2", err)
	}
	var ccSecond ecdsa2p.CCSecondMessage
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/chaincode/second",
		&ecdsa2p.DLogProofMsg{Point: cc2G, Proof: cc2Proof}, &ccSecond); err != nil {
		return nil, err
	}
	if err := commitment.Open(ccFirst.Commitment, ccSecond.Decommit); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's cc1 decommitment failed", err)
	}
	cc1G, err := curvemath.PointFromBytes(ccSecond.Decommit.Value)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode cc1*g", err)
	}

	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/chaincode/compute",
		&ecdsa2p.ChainCodeComputeRequest{Cc2G: cc2G}, nil); err != nil {
		return nil, err
	}
	chainCode := chainCodeFromPoint(cc1G.ScalarMult(cc2))

	var finalized struct {
		Q *curvemath.Point `json:"q"`
	}
	if err := c.post(ctx, "/ecdsa/keygen/"+sessionID+"/master_key",
		&ecdsa2p.FinalizeRequest{Q2: q2}, &finalized); err != nil {
		return nil, err
	}
	if !q1.ScalarMult(x2).Equal(finalized.Q) {
		return nil, apperr.New(apperr.ProofFailed, op, "server's reported q disagrees with x2*q1")
	}

	return &ECDSAKeyGenResult{
		SessionID: sessionID,
		MasterKey: &ecdsa2p.MasterKeyParty2{
			X2:          x2,
			Q:           finalized.Q,
			ChainCode:   chainCode,
			PaillierPub: second.PaillierPub,
			CKey:        second.CKey,
		},
	}, nil
}

// chainCodeFromPoint mirrors ecdsa2p's unexported chain-code hash so the
// client derives the identical 32-byte chain code from cc1G*cc2.
func chainCodeFromPoint(p *curvemath.Point) [32]byte {
	sum := curvemath.HashToScalar(p.Bytes())
	var out [32]byte
	copy(out[:], sum.Bytes())
	return out
}

// ECDSASign drives the two-round signing protocol for digest at path
// (BIP32-style derivation indices, nil for the master key itself), per
// spec.md §4.3.
func (c *Client) ECDSASign(ctx context.Context, sessionID string, mk *ecdsa2p.MasterKeyParty2, digest *curvemath.Scalar, path []uint32) (*ecdsa2p.Signature, error) {
	const op = "gothamclient.ECDSASign"

	var first ecdsa2p.EphKeyGenFirstMsg
	if err := c.post(ctx, "/ecdsa/sign/"+sessionID+"/first", nil, &first); err != nil {
		return nil, err
	}
	if err := zkproof.VerifyDL(first.K1G, first.Proof, []byte(sessionID)); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "server's dlog proof of k1 failed", err)
	}

	k2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate k2", err)
	}
	k2G := curvemath.ScalarBaseMult(k2)
	k2Proof, err := zkproof.ProveDL(k2G, k2, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of k2", err)
	}

	child, err := chaincode.DerivePathParty2(mk.X2, mk.Q, mk.ChainCode, path)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "derive child key", err)
	}

	k2Inv, err := k2.Inverse()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "invert k2", err)
	}
	rPoint := first.K1G.ScalarMult(k2)
	r := curvemath.NewScalar(rPoint.X())

	// c3 = Enc(k2^-1*m + k2^-1*r*x1*x2) homomorphically combined from c_key,
	// masked by a random multiple of the curve order before transmission
	// (Lindell's construction); the server's decrypt-and-reduce step
	// transparently cancels the mask.
	part1 := k2Inv.Mul(digest)
	scale := k2Inv.Mul(r).Mul(child.X2)

	c3 := mk.PaillierPub.MulScalar(mk.CKey, scale.Int())
	c3, err = mk.PaillierPub.AddPlain(c3, part1.Int())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "combine c3 additive term", err)
	}
	maskMultiplier, err := paillier.RandomUnit(big.NewInt(1 << 20))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "draw c3 mask multiplier", err)
	}
	mask := new(big.Int).Mul(curvemath.Order, maskMultiplier)
	c3, err = mk.PaillierPub.AddPlain(c3, mask)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "mask c3", err)
	}

	var sig ecdsa2p.Signature
	if err := c.post(ctx, "/ecdsa/sign/"+sessionID+"/second", &ecdsa2p.SignSecondMsgRequest{
		Digest: digest,
		Path:   path,
		K2G:    k2G,
		Proof:  k2Proof,
		C3:     c3,
	}, &sig); err != nil {
		return nil, err
	}
	if !curvemath.VerifyECDSA(child.Q, digest, sig.R, sig.S) {
		return nil, apperr.New(apperr.ProofFailed, op, "server's signature does not verify")
	}
	return &sig, nil
}
