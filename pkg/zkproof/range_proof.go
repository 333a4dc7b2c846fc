package zkproof

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/internal/bigint"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
)

// rangeProofIterations trades proof size for soundness: each round leaks a
// single Fiat-Shamir bit, so 16 rounds gives a 2^-16 cheating probability.
// Grounded on pkg/cbmpc/zk/paillier_range_exp_slack.go's "slack" naming —
// the technique below is the same "prove m is within bound plus statistical
// slack" sigma protocol, just without the cgo backend.
const rangeProofIterations = 16

// slackShift widens the masking range so the Fiat-Shamir response z leaks a
// negligible amount of information about m.
const slackShift = 80

// RangeProof (named after pkg/cbmpc/zk/paillier_range_exp_slack.go) proves
// that a Paillier ciphertext encrypts a plaintext m with 0 <= m < bound,
// without revealing m. Spec §4.2 requires this for c_key: "a range proof
// (that the encrypted value is bounded by n/3)".
type RangeProof struct {
	C1 []*paillier.Ciphertext `json:"c1"`
	Z  []*big.Int             `json:"z"`
	U  []*big.Int             `json:"u"`
}

// ProveRange proves that c = pk.Encrypt(m, r) satisfies 0 <= m < bound.
func ProveRange(pk *paillier.PublicKey, c *paillier.Ciphertext, m, r, bound *big.Int, sessionID []byte) (*RangeProof, error) {
	slack := new(big.Int).Lsh(bound, slackShift)

	c1s := make([]*paillier.Ciphertext, rangeProofIterations)
	zs := make([]*big.Int, rangeProofIterations)
	us := make([]*big.Int, rangeProofIterations)
	m1s := make([]*big.Int, rangeProofIterations)
	r1s := make([]*big.Int, rangeProofIterations)

	for i := 0; i < rangeProofIterations; i++ {
		m1, err := bigint.RandRange(slack)
		if err != nil {
			return nil, err
		}
		r1, err := paillier.RandomUnit(pk.N)
		if err != nil {
			return nil, err
		}
		c1, err := pk.EncryptWithRandomness(m1, r1)
		if err != nil {
			return nil, err
		}
		c1s[i], m1s[i], r1s[i] = c1, m1, r1
	}

	challenge := rangeChallenge(c, c1s, sessionID)
	for i := 0; i < rangeProofIterations; i++ {
		if challenge.Bit(i) == 1 {
			zs[i] = new(big.Int).Add(m1s[i], m)
			us[i] = new(big.Int).Mod(new(big.Int).Mul(r1s[i], r), pk.N)
		} else {
			zs[i] = m1s[i]
			us[i] = r1s[i]
		}
	}
	return &RangeProof{C1: c1s, Z: zs, U: us}, nil
}

// VerifyRange checks a RangeProof against ciphertext c and bound.
func VerifyRange(pk *paillier.PublicKey, c *paillier.Ciphertext, bound *big.Int, proof *RangeProof, sessionID []byte) error {
	if proof == nil || len(proof.C1) != rangeProofIterations || len(proof.Z) != rangeProofIterations || len(proof.U) != rangeProofIterations {
		return errors.New("zkproof: malformed range proof")
	}
	slack := new(big.Int).Lsh(bound, slackShift)
	maxZ := new(big.Int).Add(slack, bound)
	challenge := rangeChallenge(c, proof.C1, sessionID)

	for i := 0; i < rangeProofIterations; i++ {
		if proof.Z[i].Sign() < 0 || proof.Z[i].Cmp(maxZ) >= 0 {
			return errors.New("zkproof: range proof value out of slack bound")
		}
		recon, err := pk.EncryptWithRandomness(new(big.Int).Mod(proof.Z[i], pk.N), proof.U[i])
		if err != nil {
			return err
		}
		var want *paillier.Ciphertext
		if challenge.Bit(i) == 1 {
			want = pk.AddCiphers(proof.C1[i], c)
		} else {
			want = proof.C1[i]
		}
		if recon.C.Cmp(want.C) != 0 {
			return errors.New("zkproof: range proof response inconsistent at round " + big.NewInt(int64(i)).String())
		}
	}
	return nil
}

func rangeChallenge(c *paillier.Ciphertext, c1s []*paillier.Ciphertext, sessionID []byte) *big.Int {
	h := sha256.New()
	h.Write([]byte("gotham/zkproof/range"))
	h.Write(c.C.Bytes())
	for _, c1 := range c1s {
		h.Write(c1.C.Bytes())
	}
	h.Write(sessionID)
	return new(big.Int).SetBytes(h.Sum(nil))
}
