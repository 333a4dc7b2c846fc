package eddsa2p

import (
	"filippo.io/edwards25519"

	"github.com/zengo-x/gotham-sub000/pkg/commitment"
)

// KeyGenFirstMsg is the server's round-1 response: a commitment to A1.
type KeyGenFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// keyPair is the server-persisted keygen keypair (a1, A1).
type keyPair struct {
	A1 []byte `json:"a1"`
	P1 []byte `json:"p1"`
}

// DLogProofMsg carries the client's revealed point A2 together with a
// Schnorr proof of knowledge of its discrete log, mirroring ecdsa2p's
// DLogProofMsg but over edwards25519.
type DLogProofMsg struct {
	Point []byte    `json:"point"`
	Proof *DLProof  `json:"proof"`
}

// DLProof is a Schnorr sigma-protocol proof of knowledge of a scalar a such
// that P = a*G, over edwards25519.
type DLProof struct {
	T []byte `json:"t"`
	Z []byte `json:"z"`
}

// KeyGenSecondMsg is the server's round-2 response: the decommitment of A1
// plus the aggregate public key.
type KeyGenSecondMsg struct {
	Witness *commitment.Witness `json:"witness"`
	Apk     []byte              `json:"apk"`
}

// MasterKeyParty1 is the server's final key bundle for a completed keygen.
type MasterKeyParty1 struct {
	A1  []byte `json:"a1"`
	Apk []byte `json:"apk"`
}

// MasterKeyParty2 is the client's symmetric key bundle, assembled locally.
// It MUST NOT be transmitted to the server.
type MasterKeyParty2 struct {
	A2  []byte `json:"a2"`
	Apk []byte `json:"apk"`
}

// ephKeyPair is the server-persisted ephemeral nonce keypair r1.
type ephKeyPair struct {
	R1 []byte `json:"r1"`
	P1 []byte `json:"p1"`
}

// EphFirstMsg is the server's signing round-1 response: a commitment to R1.
type EphFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// SignSecondRequest is the client's signing round-2 request: the message and
// the client's revealed R2. The client's partial signature is not sent.
type SignSecondRequest struct {
	Message []byte `json:"message"`
	R2      []byte `json:"r2"`
}

// SignSecondMsg is the server's signing round-2 response: the decommitment
// of R1 and the server's partial signature s1.
type SignSecondMsg struct {
	Witness *commitment.Witness `json:"witness"`
	R1      []byte              `json:"r1"`
	S1      []byte              `json:"s1"`
}

// Signature is the final, standard-format 64-byte Ed25519 signature
// (R || S), directly verifiable via crypto/ed25519.Verify.
type Signature struct {
	R []byte `json:"r"`
	S []byte `json:"s"`
}

func pointFromBytes(b []byte) (*edwards25519.Point, error) {
	p := edwards25519.NewIdentityPoint()
	return p.SetBytes(b)
}

func scalarFromBytes(b []byte) (*edwards25519.Scalar, error) {
	s := edwards25519.NewScalar()
	return s.SetCanonicalBytes(b)
}
