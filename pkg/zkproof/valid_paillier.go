package zkproof

import (
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/paillier"
)

// correctKeyIterations is the number of Fiat-Shamir challenges used by the
// correct-key proof; each roughly halves the probability a malformed modulus
// slips through, so 13 rounds matches the soundness level used by the
// NICorrectKey proof in Lindell's 2017 two-party ECDSA construction.
const correctKeyIterations = 13

// ValidPaillierProof (grounded on pkg/cbmpc/zk/valid_paillier.go's naming)
// proves that a Paillier modulus N was generated honestly as a product of
// two primes, so that every element of Z*_N has an N-th root mod N — the
// property the server's range and PDL proofs rely on.
type ValidPaillierProof struct {
	X []*big.Int `json:"x"`
}

// ProveValidPaillier proves sk.N is a valid Paillier modulus. sessionID
// binds the proof to the keygen session, matching the teacher's DLProof
// convention of mixing in a session identifier.
func ProveValidPaillier(sk *paillier.PrivateKey, sessionID []byte) (*ValidPaillierProof, error) {
	d := new(big.Int).ModInverse(sk.N, sk.Lambda)
	if d == nil {
		return nil, errors.New("zkproof: N not invertible mod lambda(N)")
	}
	xs := make([]*big.Int, correctKeyIterations)
	for i := 0; i < correctKeyIterations; i++ {
		y := correctKeyChallenge(sk.N, sessionID, i)
		xs[i] = new(big.Int).Exp(y, d, sk.N)
	}
	return &ValidPaillierProof{X: xs}, nil
}

// VerifyValidPaillier verifies a ValidPaillierProof against pk.
func VerifyValidPaillier(pk *paillier.PublicKey, proof *ValidPaillierProof, sessionID []byte) error {
	if proof == nil || len(proof.X) != correctKeyIterations {
		return errors.New("zkproof: malformed correct-key proof")
	}
	for i, x := range proof.X {
		y := correctKeyChallenge(pk.N, sessionID, i)
		got := new(big.Int).Exp(x, pk.N, pk.N)
		if got.Cmp(y) != 0 {
			return errors.New("zkproof: correct-key proof verification failed")
		}
	}
	return nil
}

// correctKeyChallenge derives the i-th Fiat-Shamir challenge y_i in Z*_N
// deterministically from N and the session id, so the verifier can
// recompute it without the prover ever transmitting it.
func correctKeyChallenge(n *big.Int, sessionID []byte, i int) *big.Int {
	counter := 0
	for {
		h := sha256.New()
		h.Write([]byte("gotham/zkproof/valid-paillier"))
		h.Write(n.Bytes())
		h.Write(sessionID)
		h.Write(big.NewInt(int64(i)).Bytes())
		h.Write(big.NewInt(int64(counter)).Bytes())
		digest := h.Sum(nil)
		// Expand with a second block so the candidate has enough entropy to
		// cover a 2048-bit modulus.
		h2 := sha256.New()
		h2.Write(digest)
		h2.Write([]byte{0x01})
		digest = append(digest, h2.Sum(nil)...)
		h3 := sha256.New()
		h3.Write(digest)
		h3.Write([]byte{0x02})
		digest = append(digest, h3.Sum(nil)...)
		h4 := sha256.New()
		h4.Write(digest)
		h4.Write([]byte{0x03})
		digest = append(digest, h4.Sum(nil)...)

		y := new(big.Int).Mod(new(big.Int).SetBytes(digest), n)
		if y.Sign() != 0 && new(big.Int).GCD(nil, nil, y, n).Cmp(big.NewInt(1)) == 0 {
			return y
		}
		counter++
	}
}
