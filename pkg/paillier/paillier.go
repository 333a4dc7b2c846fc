package paillier

import (
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/internal/bigint"
)

// KeyBits is the bit length of the Paillier modulus N used by this service.
// 2048 bits gives the ~112-bit security level expected for production
// threshold-signing deployments.
const KeyBits = 2048

var (
	// ErrNotBuilt mirrors the teacher's stub sentinel, kept here for parity
	// with code that switches on it; this package is always "built" (pure
	// Go), so it is never actually returned.
	ErrNotBuilt = errors.New("paillier: not available")

	errCiphertextRange = errors.New("paillier: ciphertext out of range")
	errPlaintextRange  = errors.New("paillier: plaintext out of range")
)

// PublicKey is a Paillier public key (N, G=N+1 in the standard optimization).
type PublicKey struct {
	N    *big.Int `json:"n"`
	NSq  *big.Int `json:"n_sq"`
}

// PrivateKey is a Paillier private key. Lambda = lcm(p-1, q-1); Mu is the
// modular inverse of L(g^lambda mod n^2) mod n, precomputed for decryption.
type PrivateKey struct {
	PublicKey
	Lambda *big.Int `json:"lambda"`
	Mu     *big.Int `json:"mu"`
}

func newPublicKey(n *big.Int) PublicKey {
	return PublicKey{N: n, NSq: new(big.Int).Mul(n, n)}
}

// Generate creates a fresh Paillier keypair with KeyBits-bit modulus N.
// See cb-mpc/src/cbmpc/crypto/paillier.h for the analogous C++ construction
// that pkg/cbmpc/paillier.Generate wraps via cgo.
func Generate() (*PrivateKey, error) {
	primeBits := KeyBits / 2
	var p, q *big.Int
	var n *big.Int
	for {
		var err error
		p, err = bigint.RandPrime(primeBits)
		if err != nil {
			return nil, err
		}
		q, err = bigint.RandPrime(primeBits)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}
		n = new(big.Int).Mul(p, q)
		if n.BitLen() == KeyBits {
			break
		}
	}

	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	qMinus1 := new(big.Int).Sub(q, big.NewInt(1))
	lambda := bigint.Lcm(pMinus1, qMinus1)

	nSq := new(big.Int).Mul(n, n)
	// With g = n+1, g^lambda mod n^2 equals 1 + lambda*n, so L of it is
	// lambda mod n; it is still computed here by a full modular
	// exponentiation.
	gLambda := new(big.Int).Exp(new(big.Int).Add(n, big.NewInt(1)), lambda, nSq)
	l := lFunction(gLambda, n)
	mu, err := bigint.ModInverse(l, n)
	if err != nil {
		return nil, err
	}

	return &PrivateKey{
		PublicKey: newPublicKey(n),
		Lambda:    lambda,
		Mu:        mu,
	}, nil
}

// FromPublicKey reconstructs a PublicKey from its serialized modulus, the
// form the client stores after keygen round 2 (spec §4.2: "Client holds
// only the public key").
func FromPublicKey(n *big.Int) *PublicKey {
	pk := newPublicKey(n)
	return &pk
}

func lFunction(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, big.NewInt(1))
	return t.Div(t, n)
}

// Ciphertext is an opaque Paillier ciphertext, serialized as a decimal string
// per spec §6 ("big-integer fields use decimal string encoding").
type Ciphertext struct {
	C *big.Int `json:"c"`
}

// Encrypt encrypts plaintext m (0 <= m < N) under pk, drawing fresh
// randomness internally.
func (pk *PublicKey) Encrypt(m *big.Int) (*Ciphertext, error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return nil, errPlaintextRange
	}
	r, err := bigint.RandBelow(pk.N)
	if err != nil {
		return nil, err
	}
	return pk.encryptWithRandomness(m, r)
}

func (pk *PublicKey) encryptWithRandomness(m, r *big.Int) (*Ciphertext, error) {
	// c = (1+N)^m * r^N mod N^2, the standard optimized Paillier encryption.
	gm := new(big.Int).Mod(new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(m, pk.N)), pk.NSq)
	rn := new(big.Int).Exp(r, pk.N, pk.NSq)
	c := new(big.Int).Mod(new(big.Int).Mul(gm, rn), pk.NSq)
	return &Ciphertext{C: c}, nil
}

// Decrypt recovers the plaintext underlying c.
func (sk *PrivateKey) Decrypt(c *Ciphertext) (*big.Int, error) {
	if c == nil || c.C == nil || c.C.Sign() < 0 || c.C.Cmp(sk.NSq) >= 0 {
		return nil, errCiphertextRange
	}
	cLambda := new(big.Int).Exp(c.C, sk.Lambda, sk.NSq)
	l := lFunction(cLambda, sk.N)
	m := new(big.Int).Mod(new(big.Int).Mul(l, sk.Mu), sk.N)
	return m, nil
}

// AddCiphers homomorphically adds the plaintexts underlying c1 and c2.
func (pk *PublicKey) AddCiphers(c1, c2 *Ciphertext) *Ciphertext {
	return &Ciphertext{C: new(big.Int).Mod(new(big.Int).Mul(c1.C, c2.C), pk.NSq)}
}

// AddPlain homomorphically adds the plaintext m to the value encrypted in c.
func (pk *PublicKey) AddPlain(c *Ciphertext, m *big.Int) (*Ciphertext, error) {
	plainCipher, err := pk.encryptWithRandomness(new(big.Int).Mod(m, pk.N), big.NewInt(1))
	if err != nil {
		return nil, err
	}
	return pk.AddCiphers(c, plainCipher), nil
}

// MulScalar homomorphically multiplies the plaintext underlying c by scalar k.
func (pk *PublicKey) MulScalar(c *Ciphertext, k *big.Int) *Ciphertext {
	kMod := new(big.Int).Mod(k, pk.N)
	return &Ciphertext{C: new(big.Int).Exp(c.C, kMod, pk.NSq)}
}

// VerifyCipher checks that c is a well-formed element of Z*_{N^2}, i.e. that
// it is in range and coprime to N^2 — the minimal sanity check the server
// applies to any ciphertext it receives before operating on it.
func (pk *PublicKey) VerifyCipher(c *Ciphertext) error {
	if c == nil || c.C == nil || c.C.Sign() <= 0 || c.C.Cmp(pk.NSq) >= 0 {
		return errCiphertextRange
	}
	gcd := new(big.Int).GCD(nil, nil, c.C, pk.NSq)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return errCiphertextRange
	}
	return nil
}

// EncryptWithRandomness encrypts m using explicit randomness r; exported for
// zero-knowledge proofs (e.g. the correct-key / range proofs in pkg/zkproof)
// that need to reconstruct ciphertexts from a Fiat-Shamir transcript.
func (pk *PublicKey) EncryptWithRandomness(m, r *big.Int) (*Ciphertext, error) {
	return pk.encryptWithRandomness(m, r)
}

// RandomUnit returns a uniform random element of Z*_N, used as encryption
// randomness by callers that need to keep the randomness around (e.g. for a
// proof transcript).
func RandomUnit(n *big.Int) (*big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, n).Cmp(big.NewInt(1)) == 0 {
			return r, nil
		}
	}
}
