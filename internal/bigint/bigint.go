// Package bigint collects the small set of modular-arithmetic helpers shared
// across the curve, Paillier, and zero-knowledge proof packages. None of this
// is specific to secp256k1 or to Paillier; it exists so callers never have to
// hand-roll the same CryptoRandRange / modular-inverse dance twice.
package bigint

import (
	"crypto/rand"
	"errors"
	"math/big"
)

var one = big.NewInt(1)

// ErrInvalidModulus is returned when a modulus <= 1 is supplied.
var ErrInvalidModulus = errors.New("bigint: modulus must be > 1")

// RandRange returns a uniform random integer in [0, max). max must be > 0.
func RandRange(max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, errors.New("bigint: max must be positive")
	}
	return rand.Int(rand.Reader, max)
}

// RandBelow returns a uniform random integer in [1, max-1] (nonzero).
// Used for blinding factors and nonces that must not be zero.
func RandBelow(max *big.Int) (*big.Int, error) {
	if max == nil || max.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.New("bigint: max must be >= 2")
	}
	bound := new(big.Int).Sub(max, one)
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return nil, err
	}
	return v.Add(v, one), nil
}

// ModInverse returns a^-1 mod n, or an error if a shares a factor with n.
func ModInverse(a, n *big.Int) (*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	inv := new(big.Int).ModInverse(a, n)
	if inv == nil {
		return nil, errors.New("bigint: value not invertible mod n")
	}
	return inv, nil
}

// IsProbablePrime reports whether n passes Miller-Rabin with 20 rounds,
// matching the confidence level expected of freshly generated Paillier primes.
func IsProbablePrime(n *big.Int) bool {
	return n.ProbablyPrime(20)
}

// RandPrime returns a random prime of the given bit length.
func RandPrime(bits int) (*big.Int, error) {
	return rand.Prime(rand.Reader, bits)
}

// Lcm returns the least common multiple of a and b.
func Lcm(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	prod := new(big.Int).Mul(a, b)
	return prod.Div(prod, gcd)
}

// Bytes32 left-pads (or right-trims from the left) v into a fixed 32-byte
// big-endian slice, the canonical width for secp256k1 scalars and coordinates.
func Bytes32(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
