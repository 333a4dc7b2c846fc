package gothamclient

import (
	"context"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// ECDSARotateResult bundles the new session id and party two's rotated key
// material. Q and ChainCode are unchanged from mk; only X2 and CKey move.
type ECDSARotateResult struct {
	SessionID string
	MasterKey *ecdsa2p.MasterKeyParty2
}

// ECDSARotate drives the four-round rotation protocol against the session
// holding mk, per spec.md §4.4. Rotation is all-or-nothing: any verification
// failure here leaves mk itself untouched and the new session id is simply
// never used again.
func (c *Client) ECDSARotate(ctx context.Context, sessionID string, mk *ecdsa2p.MasterKeyParty2) (*ECDSARotateResult, error) {
	const op = "gothamclient.ECDSARotate"

	var first struct {
		NewSessionID string `json:"new_session_id"`
		ecdsa2p.RotationFirstMsg
	}
	if err := c.post(ctx, "/ecdsa/rotate/"+sessionID+"/first", nil, &first); err != nil {
		return nil, err
	}
	newSessionID := first.NewSessionID

	rho2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate rho2", err)
	}
	var second ecdsa2p.RotationSecondMsg
	if err := c.post(ctx, "/ecdsa/rotate/"+newSessionID+"/second",
		&ecdsa2p.RotationSecondRequest{Rho2: rho2}, &second); err != nil {
		return nil, err
	}
	if err := commitment.Open(first.Commitment, second.Witness); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's rho1 decommitment failed", err)
	}
	rho := second.Rho1.Add(rho2)

	clientCommit, clientSecret, err := zkproof.NewPDLClientCommit()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "build pdl commitment", err)
	}
	var pdlFirst zkproof.PDLFirstMessage
	if err := c.post(ctx, "/ecdsa/rotate/"+newSessionID+"/third", clientCommit, &pdlFirst); err != nil {
		return nil, err
	}
	reveal := clientSecret.Reveal()
	var fourth struct {
		zkproof.PDLSecondMessage
		NewCKey *paillier.Ciphertext `json:"new_c_key"`
	}
	if err := c.post(ctx, "/ecdsa/rotate/"+newSessionID+"/fourth", reveal, &fourth); err != nil {
		return nil, err
	}
	pdlSecond := fourth.PDLSecondMessage

	x2Inv, err := mk.X2.Inverse()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "invert x2", err)
	}
	oldQ1 := mk.Q.ScalarMult(x2Inv)
	newQ1 := oldQ1.ScalarMult(rho)

	if err := zkproof.VerifyPDLWithCommitment(mk.PaillierPub, newQ1, fourth.NewCKey, clientCommit, &pdlFirst, reveal, &pdlSecond); err != nil {
		return nil, apperr.Wrap(apperr.ProofFailed, op, "server's post-rotation pdl proof failed", err)
	}

	rhoInv, err := rho.Inverse()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "invert rho", err)
	}
	newX2 := mk.X2.Mul(rhoInv)
	return &ECDSARotateResult{
		SessionID: newSessionID,
		MasterKey: &ecdsa2p.MasterKeyParty2{
			X2:          newX2,
			Q:           mk.Q,
			ChainCode:   mk.ChainCode,
			PaillierPub: mk.PaillierPub,
			CKey:        fourth.NewCKey,
		},
	}, nil
}
