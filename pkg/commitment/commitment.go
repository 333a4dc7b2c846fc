// Package commitment implements the hash-based commit/decommit scheme used
// to make every round of the keygen, chain-code, and rotation protocols safe
// to abort (spec §GLOSSARY: "a two-phase reveal where a binding commitment
// is sent first, the opening later; aborts prevent rewind attacks").
//
// The teacher repo has no equivalent in Go (cb-mpc's commitments live in the
// C++ core); the scheme here follows the commit = H(value || blind) pattern
// described throughout spec §4.2 and is grounded on the same Fiat-Shamir /
// SHA-256 discipline the teacher's pkg/cbmpc/zk package documents for proof
// transcripts.
package commitment

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

// BlindSize is the byte length of the random blinding factor mixed into
// every commitment.
const BlindSize = 32

// Commitment is the 32-byte SHA-256 digest sent in the commit phase.
type Commitment []byte

// Witness is the value and blinding factor revealed in the decommit phase.
type Witness struct {
	Value []byte `json:"value"`
	Blind []byte `json:"blind"`
}

// Commit hashes value with a fresh random blinding factor and returns both
// the commitment to publish and the witness to persist for the decommit
// round.
func Commit(value []byte) (Commitment, *Witness, error) {
	blind := make([]byte, BlindSize)
	if _, err := rand.Read(blind); err != nil {
		return nil, nil, err
	}
	w := &Witness{Value: append([]byte(nil), value...), Blind: blind}
	return hashWitness(w), w, nil
}

// Open verifies that witness w opens commitment c, returning an error if the
// binding fails (spec's CommitmentMismatch error kind).
func Open(c Commitment, w *Witness) error {
	if w == nil {
		return errors.New("commitment: nil witness")
	}
	expect := hashWitness(w)
	if subtle.ConstantTimeCompare(expect, c) != 1 {
		return errors.New("commitment: decommitment does not match commitment")
	}
	return nil
}

func hashWitness(w *Witness) Commitment {
	h := sha256.New()
	h.Write(w.Value)
	h.Write(w.Blind)
	return h.Sum(nil)
}
