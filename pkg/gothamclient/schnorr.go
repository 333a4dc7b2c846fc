package gothamclient

import (
	"context"
	"crypto/sha256"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/schnorr2p"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// SchnorrKeyGenResult bundles the session id and party two's key pair.
type SchnorrKeyGenResult struct {
	SessionID string
	X2        *curvemath.Scalar
	Apk       *curvemath.Point
}

// SchnorrKeyGen drives the two-round commit-decommit aggregation keygen,
// per spec.md §4.6.
func (c *Client) SchnorrKeyGen(ctx context.Context) (*SchnorrKeyGenResult, error) {
	const op = "gothamclient.SchnorrKeyGen"

	x2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate x2", err)
	}
	p2 := curvemath.ScalarBaseMult(x2)

	var first struct {
		ID string `json:"id"`
		schnorr2p.KeyGenFirstMsg
	}
	if err := c.post(ctx, "/schnorr/keygen/first", nil, &first); err != nil {
		return nil, err
	}
	sessionID := first.ID

	proof, err := zkproof.ProveDL(p2, x2, []byte(sessionID))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "prove knowledge of x2", err)
	}
	var second schnorr2p.KeyGenSecondMsg
	if err := c.post(ctx, "/schnorr/keygen/"+sessionID+"/second",
		&schnorr2p.DLogProofMsg{Point: p2, Proof: proof}, &second); err != nil {
		return nil, err
	}
	if err := commitment.Open(first.Commitment, second.Witness); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's p1 decommitment failed", err)
	}
	p1, err := curvemath.PointFromBytes(second.Witness.Value)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "decode p1", err)
	}
	apk := p1.Add(p2)
	if !apk.Equal(second.Apk) {
		return nil, apperr.New(apperr.ProofFailed, op, "server's reported apk disagrees with p1+p2")
	}

	return &SchnorrKeyGenResult{SessionID: sessionID, X2: x2, Apk: apk}, nil
}

// schnorrSignChallenge mirrors schnorr2p's unexported signChallenge so the
// client derives the identical Fiat-Shamir scalar.
func schnorrSignChallenge(r, apk *curvemath.Point, digest *curvemath.Scalar) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/schnorr2p/sign"))
	h.Write(r.Bytes())
	h.Write(apk.Bytes())
	h.Write(digest.Bytes())
	return curvemath.HashToScalar(h.Sum(nil))
}

// SchnorrSign drives the two-round signing protocol for digest, per
// spec.md §4.6.
func (c *Client) SchnorrSign(ctx context.Context, sessionID string, x2 *curvemath.Scalar, apk *curvemath.Point, digest *curvemath.Scalar) (*schnorr2p.Signature, error) {
	const op = "gothamclient.SchnorrSign"

	var first schnorr2p.EphFirstMsg
	if err := c.post(ctx, "/schnorr/sign/"+sessionID+"/first", nil, &first); err != nil {
		return nil, err
	}

	r2, err := curvemath.RandomScalar()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, op, "generate r2", err)
	}
	p2 := curvemath.ScalarBaseMult(r2)

	var second schnorr2p.SignSecondMsg
	if err := c.post(ctx, "/schnorr/sign/"+sessionID+"/second",
		&schnorr2p.SignSecondRequest{Digest: digest, R2: p2}, &second); err != nil {
		return nil, err
	}
	if err := commitment.Open(first.Commitment, second.Witness); err != nil {
		return nil, apperr.Wrap(apperr.CommitmentMismatch, op, "server's r1 decommitment failed", err)
	}

	r := second.R1.Add(p2)
	e := schnorrSignChallenge(r, apk, digest)
	s2 := r2.Add(e.Mul(x2))
	sig := &schnorr2p.Signature{R: r, S: second.S1.Add(s2)}

	if !schnorr2p.VerifySignature(apk, digest, sig) {
		return nil, apperr.New(apperr.ProofFailed, op, "assembled signature does not verify")
	}
	return sig, nil
}
