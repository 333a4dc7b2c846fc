package schnorr2p

import (
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
)

func bigIntFromInt(v int) *big.Int { return big.NewInt(int64(v)) }

// FeldmanShare is one party's share of a secret split by SplitSecret, plus
// the index (evaluation point) the share was drawn at.
type FeldmanShare struct {
	Index int               `json:"index"`
	Value *curvemath.Scalar `json:"value"`
}

// FeldmanCommitments are the public commitments to a degree-1 polynomial's
// coefficients, letting any holder of a FeldmanShare verify it against the
// polynomial the dealer actually used without learning the secret.
type FeldmanCommitments struct {
	C0 *curvemath.Point `json:"c0"`
	C1 *curvemath.Point `json:"c1"`
}

// SplitSecret splits secret into two Feldman verifiable shares at indices 1
// and 2 under a random degree-1 polynomial f(x) = secret + a1*x, the "(1,2)
// threshold" construction spec.md §4.6 names for Schnorr: both shares are
// required to reconstruct the secret (threshold == share count), with
// Feldman's polynomial-coefficient commitments letting each holder verify
// its own share is consistent with the other's before trusting it.
func SplitSecret(secret *curvemath.Scalar) ([2]FeldmanShare, *FeldmanCommitments, error) {
	var shares [2]FeldmanShare
	a1, err := curvemath.RandomScalar()
	if err != nil {
		return shares, nil, err
	}

	eval := func(x int) *curvemath.Scalar {
		xs := curvemath.NewScalar(bigIntFromInt(x))
		return secret.Add(a1.Mul(xs))
	}

	shares[0] = FeldmanShare{Index: 1, Value: eval(1)}
	shares[1] = FeldmanShare{Index: 2, Value: eval(2)}

	commitments := &FeldmanCommitments{
		C0: curvemath.ScalarBaseMult(secret),
		C1: curvemath.ScalarBaseMult(a1),
	}
	return shares, commitments, nil
}

// VerifyShare checks that share is consistent with commitments: share*G
// must equal C0 + index*C1, the Feldman verification equation for a
// degree-1 polynomial.
func VerifyShare(commitments *FeldmanCommitments, share FeldmanShare) error {
	if commitments == nil || commitments.C0 == nil || commitments.C1 == nil {
		return errors.New("schnorr2p: missing commitments")
	}
	if share.Value == nil {
		return errors.New("schnorr2p: missing share value")
	}
	lhs := curvemath.ScalarBaseMult(share.Value)
	idx := curvemath.NewScalar(bigIntFromInt(share.Index))
	rhs := commitments.C0.Add(commitments.C1.ScalarMult(idx))
	if !lhs.Equal(rhs) {
		return errors.New("schnorr2p: share fails Feldman verification")
	}
	return nil
}

// Reconstruct recovers the secret from both Feldman shares via Lagrange
// interpolation at x=0. Both shares are required: this is a (2,2) scheme,
// not a 1-of-2 threshold (see package doc).
func Reconstruct(shares [2]FeldmanShare) (*curvemath.Scalar, error) {
	if shares[0].Value == nil || shares[1].Value == nil {
		return nil, errors.New("schnorr2p: missing share")
	}
	if shares[0].Index == shares[1].Index {
		return nil, errors.New("schnorr2p: duplicate share index")
	}

	x1 := curvemath.NewScalar(bigIntFromInt(shares[0].Index))
	x2 := curvemath.NewScalar(bigIntFromInt(shares[1].Index))

	// Lagrange basis at 0 for two points: l1 = x2/(x2-x1), l2 = x1/(x1-x2).
	denom1, err := x2.Sub(x1).Inverse()
	if err != nil {
		return nil, err
	}
	l1 := x2.Mul(denom1)

	denom2, err := x1.Sub(x2).Inverse()
	if err != nil {
		return nil, err
	}
	l2 := x1.Mul(denom2)

	return shares[0].Value.Mul(l1).Add(shares[1].Value.Mul(l2)), nil
}
