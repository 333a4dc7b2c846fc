package paillier_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/paillier"
)

func TestGenerateEncryptDecryptRoundTrip(t *testing.T) {
	sk, err := paillier.Generate()
	require.NoError(t, err)
	require.True(t, sk.N.BitLen() >= paillier.KeyBits-1)

	m := big.NewInt(424242)
	ct, err := sk.Encrypt(m)
	require.NoError(t, err)

	got, err := sk.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, 0, m.Cmp(got))
}

func TestHomomorphicAddAndMulScalar(t *testing.T) {
	sk, err := paillier.Generate()
	require.NoError(t, err)

	m1 := big.NewInt(11)
	m2 := big.NewInt(31)
	c1, err := sk.Encrypt(m1)
	require.NoError(t, err)
	c2, err := sk.Encrypt(m2)
	require.NoError(t, err)

	sum := sk.AddCiphers(c1, c2)
	got, err := sk.Decrypt(sum)
	require.NoError(t, err)
	require.Equal(t, 0, got.Cmp(big.NewInt(42)))

	k := big.NewInt(3)
	scaled := sk.MulScalar(c1, k)
	got, err = sk.Decrypt(scaled)
	require.NoError(t, err)
	require.Equal(t, 0, got.Cmp(big.NewInt(33)))
}

func TestVerifyCipherRejectsOutOfRange(t *testing.T) {
	sk, err := paillier.Generate()
	require.NoError(t, err)

	bad := &paillier.Ciphertext{C: new(big.Int).Mul(sk.NSq, big.NewInt(2))}
	require.Error(t, sk.VerifyCipher(bad))
}

func TestFromPublicKeyCiphertextDecryptsUnderPrivateKey(t *testing.T) {
	sk, err := paillier.Generate()
	require.NoError(t, err)

	pub := paillier.FromPublicKey(sk.N)
	ct, err := pub.Encrypt(big.NewInt(7))
	require.NoError(t, err)

	got, err := sk.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, 0, got.Cmp(big.NewInt(7)))
}
