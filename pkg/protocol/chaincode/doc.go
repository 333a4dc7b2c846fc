// Package chaincode implements the two-party chain-code agreement and the
// resulting BIP32-style non-hardened hierarchical derivation described in
// spec.md §4.2 and §4.5.
//
// Derivation here is multiplicative rather than BIP32's additive form: the
// child key is x' = x*δ with Q' = δ*Q. Only party two's share is scaled
// (x1' = x1, x2' = x2*δ), so x1'*x2' = δ*x still matches Q' and party one's
// Paillier-encrypted c_key stays valid for every child.
package chaincode
