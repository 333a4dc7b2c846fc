// Package paillier implements the additively homomorphic Paillier
// cryptosystem used by the server (party one) during ECDSA keygen, signing,
// and rotation. The teacher's pkg/cbmpc/paillier package exposes the same
// surface (Generate, Encrypt, Decrypt, AddCiphers, MulScalar, VerifyCipher)
// but delegates every operation to a C++ backend over cgo; this package
// implements the cryptosystem directly in Go with math/big, since the
// protocol state machines in pkg/protocol need to serialize and persist
// ciphertexts and keys as JSON across HTTP round trips.
package paillier
