// Package escrow implements the verifiable backup of a party's ECDSA key
// share under an escrow public key: the share is split into byte segments,
// each segment ElGamal-encrypted under the escrow key, and a single
// Chaum-Pedersen equality-of-discrete-log proof ties the segments back to
// the share's public point without revealing the share. Recovery is
// provided for completeness but is not wired into any server endpoint — see
// DESIGN.md for why.
package escrow
