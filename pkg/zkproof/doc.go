// Package zkproof implements the non-interactive zero-knowledge proofs used
// by the two-party protocols: a Schnorr discrete-log proof, a Paillier
// correct-key proof, a Paillier range proof, and the Paillier-discrete-log
// (PDL) equality proof central to keygen and rotation.
//
// The teacher's pkg/cbmpc/zk package is the naming template this package
// follows (DLProof, ValidPaillierProof, RangeProof, PDL first/second
// messages), but every proof here is implemented in pure Go with math/big
// Fiat-Shamir transcripts instead of delegating to a cgo backend.
package zkproof
