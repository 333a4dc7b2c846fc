package ecdsa2p

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
)

// NewSessionID mints an opaque 128-bit session identifier, per spec.md §3:
// "opaque 128-bit identifier minted by the server on the first message of
// every protocol instance".
func NewSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", apperr.Wrap(apperr.Internal, "ecdsa2p.NewSessionID", "read randomness", err)
	}
	return hex.EncodeToString(b), nil
}
