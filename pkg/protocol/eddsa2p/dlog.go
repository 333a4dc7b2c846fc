package eddsa2p

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"

	"filippo.io/edwards25519"
)

// ProveDL proves knowledge of scalar a such that point = a*G, over
// edwards25519. Grounded on zkproof.ProveDL's plain Fiat-Shamir sigma
// protocol shape, reimplemented against filippo.io/edwards25519's
// Scalar/Point API since ecdsa2p's DLog proof is specific to secp256k1.
func ProveDL(point *edwards25519.Point, a *edwards25519.Scalar, sessionID []byte) (*DLProof, error) {
	var seed [64]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	k, err := edwards25519.NewScalar().SetUniformBytes(seed[:])
	if err != nil {
		return nil, err
	}
	t := edwards25519.NewIdentityPoint().ScalarBaseMult(k)
	e := dlChallenge(point, t, sessionID)
	z := edwards25519.NewScalar().Add(k, edwards25519.NewScalar().Multiply(e, a))
	return &DLProof{T: t.Bytes(), Z: z.Bytes()}, nil
}

// VerifyDL verifies a DLProof against the claimed point.
func VerifyDL(point *edwards25519.Point, proof *DLProof, sessionID []byte) error {
	if proof == nil || len(proof.T) == 0 || len(proof.Z) == 0 {
		return errors.New("eddsa2p: malformed DL proof")
	}
	t, err := pointFromBytes(proof.T)
	if err != nil {
		return err
	}
	z, err := scalarFromBytes(proof.Z)
	if err != nil {
		return err
	}
	e := dlChallenge(point, t, sessionID)

	lhs := edwards25519.NewIdentityPoint().ScalarBaseMult(z)
	rhs := edwards25519.NewIdentityPoint().Add(t, edwards25519.NewIdentityPoint().ScalarMult(e, point))
	if lhs.Equal(rhs) != 1 {
		return errors.New("eddsa2p: DL proof verification failed")
	}
	return nil
}

func dlChallenge(point, t *edwards25519.Point, sessionID []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write([]byte("gotham/eddsa2p/dlog"))
	h.Write(point.Bytes())
	h.Write(t.Bytes())
	h.Write(sessionID)
	e, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		// SetUniformBytes only errors on wrong-length input; h.Sum(nil) is
		// always a 64-byte SHA-512 digest.
		panic(err)
	}
	return e
}
