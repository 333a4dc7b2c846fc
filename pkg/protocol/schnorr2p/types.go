package schnorr2p

import (
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// KeyGenFirstMsg is the server's round-1 response: a commitment to P1.
type KeyGenFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// keyPair is the server-persisted keygen keypair (x1, P1).
type keyPair struct {
	X1 *curvemath.Scalar `json:"x1"`
	P1 *curvemath.Point  `json:"p1"`
}

// commWitness is the server-persisted witness behind a round-1 commitment,
// revealed in round 2.
type commWitness struct {
	Witness *commitment.Witness `json:"witness"`
}

// DLogProofMsg carries a revealed point together with a Schnorr proof of
// knowledge of its discrete log, reusing zkproof's secp256k1 DLog proof
// directly since schnorr2p shares ecdsa2p's curve.
type DLogProofMsg struct {
	Point *curvemath.Point `json:"point"`
	Proof *zkproof.DLProof `json:"proof"`
}

// KeyGenSecondMsg is the server's round-2 response: the decommitment of P1
// and the aggregate public key.
type KeyGenSecondMsg struct {
	Witness *commitment.Witness `json:"witness"`
	Apk     *curvemath.Point    `json:"apk"`
}

// MasterKeyParty1 is the server's final key bundle for a completed keygen.
type MasterKeyParty1 struct {
	X1  *curvemath.Scalar `json:"x1"`
	Apk *curvemath.Point  `json:"apk"`
}

// MasterKeyParty2 is the client's symmetric key bundle, assembled locally.
// It MUST NOT be transmitted to the server.
type MasterKeyParty2 struct {
	X2  *curvemath.Scalar `json:"x2"`
	Apk *curvemath.Point  `json:"apk"`
}

// ephKeyPair is the server-persisted ephemeral nonce keypair r1.
type ephKeyPair struct {
	R1 *curvemath.Scalar `json:"r1"`
	P1 *curvemath.Point  `json:"p1"`
}

// EphFirstMsg is the server's signing round-1 response: a commitment to R1.
type EphFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// SignSecondRequest is the client's signing round-2 request: the message
// digest and the client's revealed R2.
type SignSecondRequest struct {
	Digest *curvemath.Scalar `json:"digest"`
	R2     *curvemath.Point  `json:"r2"`
}

// SignSecondMsg is the server's signing round-2 response: the decommitment
// of R1 and the server's partial signature s1.
type SignSecondMsg struct {
	Witness *commitment.Witness `json:"witness"`
	R1      *curvemath.Point    `json:"r1"`
	S1      *curvemath.Scalar  `json:"s1"`
}

// Signature is the final two-party Schnorr signature (R, s), verifiable via
// VerifySignature.
type Signature struct {
	R *curvemath.Point  `json:"r"`
	S *curvemath.Scalar `json:"s"`
}
