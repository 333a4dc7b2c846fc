package ecdsa2p

import (
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// DLogProofMsg carries a revealed point together with a Schnorr proof of
// knowledge of its discrete log, the "DLogProof(Q_2)" / "DLogProof(cc_2)"
// message named throughout spec.md §4.2.
type DLogProofMsg struct {
	Point *curvemath.Point `json:"point"`
	Proof *zkproof.DLProof `json:"proof"`
}

// KeyGenFirstMsg is the server's round-1 response: a commitment to Q1.
type KeyGenFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// commWitness is the server-persisted witness behind KeyGenFirstMsg's
// commitment, revealed in round 2.
type commWitness struct {
	Witness *commitment.Witness `json:"witness"`
}

// ecKeyPair is the server-persisted keygen keypair (x1, Q1).
type ecKeyPair struct {
	X1 *curvemath.Scalar `json:"x1"`
	Q1 *curvemath.Point  `json:"q1"`
}

// KGParty1Message2 is the server's round-2 response.
type KGParty1Message2 struct {
	Decommit        *commitment.Witness        `json:"decommit"`
	PaillierPub     *paillier.PublicKey        `json:"paillier_pub"`
	CKey            *paillier.Ciphertext       `json:"c_key"`
	CorrectKeyProof *zkproof.ValidPaillierProof `json:"correct_key_proof"`
	RangeProof      *zkproof.RangeProof        `json:"range_proof"`
}

// party1Private is the server-persisted secret material produced in round 2:
// the Paillier keypair and the randomness used to build c_key, the latter
// needed to answer the PDL challenge in rounds 3-4 and again on rotation.
type party1Private struct {
	PaillierSK *paillier.PrivateKey `json:"paillier_sk"`
	CKey       *paillier.Ciphertext `json:"c_key"`
	RKey       *big.Int             `json:"r_key"`
}

// ccKeyPair is the server-persisted chain-code contribution cc_1.
type ccKeyPair struct {
	Cc1 *curvemath.Scalar `json:"cc1"`
}

// CCFirstMessage is the server's chain-code round-1 response.
type CCFirstMessage struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// CCSecondMessage is the server's chain-code round-2 response.
type CCSecondMessage struct {
	Decommit *commitment.Witness `json:"decommit"`
}

// ChainCodeComputeRequest is the chain-code compute round's request body:
// the client's revealed cc2*G.
type ChainCodeComputeRequest struct {
	Cc2G *curvemath.Point `json:"cc2_g"`
}

// FinalizeRequest is the keygen finalize round's request body.
type FinalizeRequest struct {
	Q2 *curvemath.Point `json:"q2"`
}

// MasterKeyParty1 is the server's final key bundle, matching spec.md §3's
// master-key row. The server is the Paillier key holder, so it keeps the
// private key as well as the public bundle the client independently derives.
type MasterKeyParty1 struct {
	X1         *curvemath.Scalar    `json:"x1"`
	Q          *curvemath.Point     `json:"q"`
	ChainCode  [32]byte             `json:"chain_code"`
	PaillierSK *paillier.PrivateKey `json:"paillier_sk"`
	CKey       *paillier.Ciphertext `json:"c_key"`
	RKey       *big.Int             `json:"r_key"`
}

// MasterKeyParty2 is the client's symmetric key bundle, assembled locally
// from the client's own share and the values it verified during keygen. It
// MUST NOT be transmitted to the server (spec.md §6).
type MasterKeyParty2 struct {
	X2          *curvemath.Scalar    `json:"x2"`
	Q           *curvemath.Point     `json:"q"`
	ChainCode   [32]byte             `json:"chain_code"`
	PaillierPub *paillier.PublicKey  `json:"paillier_pub"`
	CKey        *paillier.Ciphertext `json:"c_key"`
}

// ephKeyPair is the server-persisted ephemeral signing keypair k1.
type ephKeyPair struct {
	K1 *curvemath.Scalar `json:"k1"`
}

// EphKeyGenFirstMsg is the server's signing round-1 response.
type EphKeyGenFirstMsg struct {
	K1G   *curvemath.Point `json:"k1_g"`
	Proof *zkproof.DLProof `json:"proof"`
}

// SignSecondMsgRequest is the client's signing round-2 request, carrying the
// homomorphically-combined ciphertext described in spec.md §4.3.
type SignSecondMsgRequest struct {
	Digest   *curvemath.Scalar `json:"digest"`
	Path     []uint32          `json:"path"`
	K2G      *curvemath.Point  `json:"k2_g"`
	Proof    *zkproof.DLProof  `json:"proof"`
	C3       *paillier.Ciphertext `json:"c3"`
}

// Signature is the final ECDSA signature response.
type Signature struct {
	R     *curvemath.Scalar `json:"r"`
	S     *curvemath.Scalar `json:"s"`
	RecID int               `json:"recid"`
}

// rotationCoinCommit is the server-persisted coin-flip commitment for
// rotation round 1. OldSessionID points back at the session holding the
// master key being rotated, since rotation runs under its own session id.
type rotationCoinCommit struct {
	Rho1        *curvemath.Scalar   `json:"rho1"`
	Witness     *commitment.Witness `json:"witness"`
	OldSessionID string             `json:"old_session_id"`
}

// RotationFirstMsg is the server's rotation round-1 response.
type RotationFirstMsg struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// RotationSecondRequest is rotation round 2's request body: the client's
// rho2 contribution.
type RotationSecondRequest struct {
	Rho2 *curvemath.Scalar `json:"rho2"`
}

// RotationSecondMsg is the server's rotation round-2 response: the reveal of
// rho1.
type RotationSecondMsg struct {
	Rho1    *curvemath.Scalar   `json:"rho1"`
	Witness *commitment.Witness `json:"witness"`
}

// rotationState persists the agreed rho and the server's new Paillier
// encryption of x1*rho between rotation rounds 2 and 4.
type rotationState struct {
	Rho          *curvemath.Scalar    `json:"rho"`
	NewCKey      *paillier.Ciphertext `json:"new_c_key"`
	NewRKey      *big.Int             `json:"new_r_key"`
	OldSessionID string               `json:"old_session_id"`
}

// RotationThirdRequest is rotation round 3's request body: the client's PDL
// coin-flip commitment, reused from zkproof for the post-rotation PDL proof.
type RotationThirdRequest = zkproof.PDLClientCommit

// RotationThirdMsg is the server's rotation round-3 response.
type RotationThirdMsg = zkproof.PDLFirstMessage

// RotationFourthRequest is rotation round 4's request body: the client's PDL
// reveal.
type RotationFourthRequest = zkproof.PDLClientReveal

// RotationFourthMsg is the server's rotation round-4 response.
type RotationFourthMsg = zkproof.PDLSecondMessage
