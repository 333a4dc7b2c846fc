package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/commitment"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	value := []byte("Q_1 compressed point bytes")
	c, w, err := commitment.Commit(value)
	require.NoError(t, err)
	require.NoError(t, commitment.Open(c, w))
}

func TestOpenRejectsTamperedValue(t *testing.T) {
	c, w, err := commitment.Commit([]byte("original"))
	require.NoError(t, err)

	w.Value = []byte("tampered")
	require.Error(t, commitment.Open(c, w))
}

func TestOpenRejectsTamperedBlind(t *testing.T) {
	c, w, err := commitment.Commit([]byte("original"))
	require.NoError(t, err)

	w.Blind[0] ^= 0xFF
	require.Error(t, commitment.Open(c, w))
}
