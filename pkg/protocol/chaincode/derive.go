package chaincode

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
)

// Child is a derived key's public state, identical on both parties given
// the same chain code and path.
type Child struct {
	Q         *curvemath.Point
	ChainCode [32]byte
}

// ChildParty1 is party one's derived child key.
type ChildParty1 struct {
	Child
	X1 *curvemath.Scalar
}

// ChildParty2 is party two's derived child key.
type ChildParty2 struct {
	Child
	X2 *curvemath.Scalar
}

// childScalar derives one level's (δ, childChainCode) from the parent's
// public point and chain code, HMAC-SHA512 style: the 64-byte MAC output
// splits into a 32-byte scalar half and a 32-byte chain-code half, mirroring
// BIP32 non-hardened derivation (CKDpub).
func childScalar(q *curvemath.Point, chainCode [32]byte, index uint32) (*curvemath.Scalar, [32]byte, error) {
	mac := hmac.New(sha512.New, chainCode[:])
	mac.Write(q.Bytes())
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	mac.Write(idx[:])
	sum := mac.Sum(nil)

	delta := curvemath.ScalarFromBytes(sum[:32])
	if delta.IsZero() {
		return nil, [32]byte{}, errors.New("chaincode: derived delta is zero, index must be skipped")
	}
	var childChainCode [32]byte
	copy(childChainCode[:], sum[32:])
	return delta, childChainCode, nil
}

// derivePath walks path one level at a time, folding each level's δ into
// the running point and chain code.
func derivePath(q *curvemath.Point, chainCode [32]byte, path []uint32) (aggDelta *curvemath.Scalar, child Child, err error) {
	aggDelta = curvemath.NewScalar(big.NewInt(1))
	curQ := q
	curChainCode := chainCode
	for _, index := range path {
		delta, nextChainCode, derr := childScalar(curQ, curChainCode, index)
		if derr != nil {
			return nil, Child{}, derr
		}
		aggDelta = aggDelta.Mul(delta)
		curQ = curQ.ScalarMult(delta)
		curChainCode = nextChainCode
	}
	return aggDelta, Child{Q: curQ, ChainCode: curChainCode}, nil
}

// DerivePathParty1 derives the child key at path for party one.
func DerivePathParty1(x1 *curvemath.Scalar, q *curvemath.Point, chainCode [32]byte, path []uint32) (*ChildParty1, error) {
	if len(path) == 0 {
		return &ChildParty1{Child: Child{Q: q, ChainCode: chainCode}, X1: x1}, nil
	}
	_, child, err := derivePath(q, chainCode, path)
	if err != nil {
		return nil, err
	}
	// Only party two's share absorbs delta, so x1*x2' = delta*x matches Q'.
	return &ChildParty1{Child: child, X1: x1}, nil
}

// DerivePathParty2 derives the child key at path for party two.
func DerivePathParty2(x2 *curvemath.Scalar, q *curvemath.Point, chainCode [32]byte, path []uint32) (*ChildParty2, error) {
	if len(path) == 0 {
		return &ChildParty2{Child: Child{Q: q, ChainCode: chainCode}, X2: x2}, nil
	}
	delta, child, err := derivePath(q, chainCode, path)
	if err != nil {
		return nil, err
	}
	return &ChildParty2{Child: child, X2: x2.Mul(delta)}, nil
}
