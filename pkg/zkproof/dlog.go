package zkproof

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
)

// DLProof is a non-interactive Schnorr proof of knowledge of w such that
// Point = w*G. Grounded on pkg/cbmpc/zk/uc_dl.go's DLProveParams/DLVerifyParams
// shape, reimplemented as a plain Fiat-Shamir sigma protocol.
type DLProof struct {
	R *curvemath.Point `json:"r"`
	S *curvemath.Scalar `json:"s"`
}

// ProveDL proves knowledge of w such that point = w*G. sessionID binds the
// proof to a specific protocol instance so it cannot be replayed across
// sessions.
func ProveDL(point *curvemath.Point, w *curvemath.Scalar, sessionID []byte) (*DLProof, error) {
	if point == nil || w == nil {
		return nil, errors.New("zkproof: nil point or witness")
	}
	k, err := curvemath.RandomScalar()
	if err != nil {
		return nil, err
	}
	r := curvemath.ScalarBaseMult(k)
	e := dlChallenge(point, r, sessionID)
	s := k.Add(e.Mul(w))
	return &DLProof{R: r, S: s}, nil
}

// VerifyDL verifies a DLProof against the claimed point.
func VerifyDL(point *curvemath.Point, proof *DLProof, sessionID []byte) error {
	if point == nil || proof == nil || proof.R == nil || proof.S == nil {
		return errors.New("zkproof: malformed DL proof")
	}
	e := dlChallenge(point, proof.R, sessionID)
	lhs := curvemath.ScalarBaseMult(proof.S)
	rhs := proof.R.Add(point.ScalarMult(e))
	if !lhs.Equal(rhs) {
		return errors.New("zkproof: DL proof verification failed")
	}
	return nil
}

func dlChallenge(point, r *curvemath.Point, sessionID []byte) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/zkproof/dlog"))
	h.Write(point.Bytes())
	h.Write(r.Bytes())
	h.Write(sessionID)
	return curvemath.HashToScalar(h.Sum(nil))
}

// scalarFromInt is a tiny helper kept local to avoid repeating the
// big.Int->Scalar reduction dance across proof files.
func scalarFromInt(v *big.Int) *curvemath.Scalar {
	return curvemath.NewScalar(v)
}
