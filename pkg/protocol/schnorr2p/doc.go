// Package schnorr2p implements the Schnorr (secp256k1) structural parallel
// to pkg/protocol/ecdsa2p, per spec.md §4.6, with an additive key-share
// aggregation like pkg/protocol/eddsa2p rather than ecdsa2p's multiplicative
// one. It additionally exposes a Feldman verifiable-secret-sharing building
// block (vss.go) for the "(1,2) threshold" requirement spec.md names for
// Schnorr only.
//
// (1,2) is read here as: a single degree-1 Shamir polynomial split into two
// shares, both required to reconstruct (threshold = share count, the
// "verifiable escrow of a single secret split two ways" reading of the
// notation), not a literal either-share-suffices scheme — see DESIGN.md for
// the Open Question decision and its rationale.
//
// Grounded on the teacher's pkg/cbmpc/schnorrmp for the VSS-adjacent naming
// (ShareVerify-style round shape) and reuses pkg/curvemath directly rather
// than introducing a second curve wrapper, since Schnorr here runs over the
// same secp256k1 group as ecdsa2p.
package schnorr2p
