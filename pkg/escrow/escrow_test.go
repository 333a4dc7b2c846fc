package escrow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/escrow"
)

func TestBackupVerifyRoundTrip(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	X2 := curvemath.ScalarBaseMult(x2)
	require.NoError(t, escrow.Verify(b, X2))
}

func TestVerifyRejectsWrongPublicPoint(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	other, err := curvemath.RandomScalar()
	require.NoError(t, err)
	require.Error(t, escrow.Verify(b, curvemath.ScalarBaseMult(other)))
}

func TestRecoverReturnsOriginalShare(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	recovered, err := escrow.Recover(b, escrowPriv)
	require.NoError(t, err)
	require.True(t, x2.Equal(recovered))
}

// TestVerifyRejectsCorruptedSegment is spec.md §8 Property P5 ("if an
// adversary flips any byte of B, verify fails") and Seed Scenario 4
// ("Corrupt one segment ciphertext byte; verify fails").
func TestVerifyRejectsCorruptedSegment(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	// Corrupt segment 0's E half: an adversary flipping ciphertext bits
	// changes the encrypted value by some nonzero delta. Compressed-point
	// byte flips land off-curve about half the time, so perturb the point
	// itself (by the generator, an arbitrary nonzero delta) instead of its
	// raw encoding, to get a deterministic, always-valid corrupted point.
	b.Segments[0].E = b.Segments[0].E.Add(curvemath.Generator())

	X2 := curvemath.ScalarBaseMult(x2)
	require.Error(t, escrow.Verify(b, X2))
}

// TestVerifyRejectsCorruptedProof flips a byte of the aggregate proof's
// scalar response, the other half of Property P5's "any byte of B".
func TestVerifyRejectsCorruptedProof(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	raw := b.Proof.S.Bytes()
	corrupted := make([]byte, len(raw))
	copy(corrupted, raw)
	corrupted[len(corrupted)-1] ^= 0x01
	b.Proof.S = curvemath.ScalarFromBytes(corrupted)

	X2 := curvemath.ScalarBaseMult(x2)
	require.Error(t, escrow.Verify(b, X2))
}

func TestRecoverFailsWithWrongEscrowKey(t *testing.T) {
	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	escrowPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	Y := curvemath.ScalarBaseMult(escrowPriv)

	b, err := escrow.Backup(x2, Y)
	require.NoError(t, err)

	wrongPriv, err := curvemath.RandomScalar()
	require.NoError(t, err)
	_, err = escrow.Recover(b, wrongPriv)
	require.Error(t, err)
}
