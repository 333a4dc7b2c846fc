// Package eddsa2p implements the two-party EdDSA (Ed25519) structural
// parallel to pkg/protocol/ecdsa2p, per spec.md §4.6: commit-decommit
// DH-style key aggregation producing an aggregate public key apk = A1+A2,
// then two-round ephemeral-commitment signing with local signature
// aggregation, MuSig-style.
//
// Unlike ecdsa2p's multiplicative key share (x = x1*x2), EdDSA aggregation
// here is additive (apk = a1*G + a2*G): each party keeps its own scalar and
// the joint public key is the sum of both public points, matching the
// teacher's pkg/cbmpc/schnorr2p and pkg/cbmpc/schnorrmp naming and the
// "DKG"/"Sign" round shape those packages expose over cgo. The resulting
// signature is wire-compatible with crypto/ed25519.Verify: R and the
// aggregate s encode directly as a standard 64-byte Ed25519 signature.
package eddsa2p
