package zkproof

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
)

// PDL proves that a Paillier ciphertext c = Enc(x) encrypts the discrete log
// of a public point Q = x*G, without the verifier ever decrypting c. This is
// the "Paillier Discrete Log equality" sub-protocol named throughout spec
// §4.2 and §4.4. The construction is a three-move sigma protocol (commit,
// challenge, response) made safe against a malicious server by having the
// client (the verifier) contribute to the challenge via a commit-then-reveal
// coin flip: the client's commitment goes out in round 3, the server's first
// message answers it in the same round, and the client's reveal in round 4
// lets the server compute the now-unbiased challenge and respond.

// PDLClientCommit is the client's round-3 request: a commitment to a fresh
// random blinding value the client will reveal in round 4.
type PDLClientCommit struct {
	Commitment commitment.Commitment `json:"commitment"`
}

// PDLClientSecret is the witness behind PDLClientCommit, held locally by the
// client between round 3 and round 4.
type PDLClientSecret struct {
	witness *commitment.Witness
}

// NewPDLClientCommit creates the client's round-3 commitment and the local
// secret needed to produce the round-4 reveal.
func NewPDLClientCommit() (*PDLClientCommit, *PDLClientSecret, error) {
	blind := make([]byte, 32)
	if _, err := rand.Read(blind); err != nil {
		return nil, nil, err
	}
	c, w, err := commitment.Commit(blind)
	if err != nil {
		return nil, nil, err
	}
	return &PDLClientCommit{Commitment: c}, &PDLClientSecret{witness: w}, nil
}

// Reveal returns the client's round-4 reveal message.
func (s *PDLClientSecret) Reveal() *PDLClientReveal {
	return &PDLClientReveal{Witness: s.witness}
}

// PDLClientReveal is the client's round-4 request body.
type PDLClientReveal struct {
	Witness *commitment.Witness `json:"witness"`
}

// PDLFirstMessage is the server's round-3 response: its own random
// commitment data (A1 = a1*G, CA1 = Enc(a1)).
type PDLFirstMessage struct {
	A1  *curvemath.Point     `json:"a1"`
	CA1 *paillier.Ciphertext `json:"ca1"`
}

// PDLWitness is the server-only secret behind PDLFirstMessage, persisted as
// the session store's PDLDecommit blob between rounds 3 and 4.
type PDLWitness struct {
	A1  *curvemath.Scalar `json:"a1_scalar"`
	RA1 *big.Int          `json:"ra1"`
}

// ProveFirst generates the server's round-3 first message and witness.
func ProveFirst(pk *paillier.PublicKey) (*PDLFirstMessage, *PDLWitness, error) {
	a1, err := curvemath.RandomScalar()
	if err != nil {
		return nil, nil, err
	}
	ra1, err := paillier.RandomUnit(pk.N)
	if err != nil {
		return nil, nil, err
	}
	ca1, err := pk.EncryptWithRandomness(a1.Int(), ra1)
	if err != nil {
		return nil, nil, err
	}
	first := &PDLFirstMessage{A1: curvemath.ScalarBaseMult(a1), CA1: ca1}
	witness := &PDLWitness{A1: a1, RA1: ra1}
	return first, witness, nil
}

// PDLSecondMessage is the server's round-4 response.
type PDLSecondMessage struct {
	Z *big.Int `json:"z"`
	U *big.Int `json:"u"`
}

// PDLChallenge derives the unbiased Fiat-Shamir challenge from the server's
// round-3 first message and the client's round-4 reveal, per the
// commit-then-reveal coin flip described above.
func PDLChallenge(first *PDLFirstMessage, reveal *PDLClientReveal) *curvemath.Scalar {
	h := sha256.New()
	h.Write([]byte("gotham/zkproof/pdl"))
	h.Write(first.A1.Bytes())
	h.Write(first.CA1.C.Bytes())
	h.Write(reveal.Witness.Value)
	h.Write(reveal.Witness.Blind)
	return curvemath.HashToScalar(h.Sum(nil))
}

// ProveSecond computes the server's round-4 response given the private
// share x1, the encryption randomness used for c_key, and the challenge.
func ProveSecond(pk *paillier.PublicKey, witness *PDLWitness, x1 *curvemath.Scalar, cKeyRandomness *big.Int, challenge *curvemath.Scalar) *PDLSecondMessage {
	z := new(big.Int).Add(witness.A1.Int(), new(big.Int).Mul(challenge.Int(), x1.Int()))
	u := new(big.Int).Mod(new(big.Int).Mul(witness.RA1, new(big.Int).Exp(cKeyRandomness, challenge.Int(), pk.N)), pk.N)
	return &PDLSecondMessage{Z: z, U: u}
}

// VerifyPDL is the client's final check: it recomputes the challenge, then
// verifies the EC relation and the Paillier relation hold for the same
// (a1, challenge, z) tuple, proving c encrypts dlog(Q1).
func VerifyPDL(pk *paillier.PublicKey, q1 *curvemath.Point, c *paillier.Ciphertext, first *PDLFirstMessage, reveal *PDLClientReveal, second *PDLSecondMessage) error {
	if first == nil || second == nil || reveal == nil {
		return errors.New("zkproof: malformed PDL transcript")
	}
	challenge := PDLChallenge(first, reveal)

	lhs := curvemath.ScalarBaseMult(curvemath.NewScalar(second.Z))
	rhs := first.A1.Add(q1.ScalarMult(challenge))
	if !lhs.Equal(rhs) {
		return errors.New("zkproof: PDL EC relation failed")
	}

	recon, err := pk.EncryptWithRandomness(new(big.Int).Mod(second.Z, pk.N), second.U)
	if err != nil {
		return err
	}
	want := pk.AddCiphers(first.CA1, pk.MulScalar(c, challenge.Int()))
	if recon.C.Cmp(want.C) != 0 {
		return errors.New("zkproof: PDL Paillier relation failed")
	}
	return nil
}

// VerifyPDLWithCommitment is the full client-side round-4 check: it opens
// the client's own round-3 commitment against the reveal before trusting it,
// then runs VerifyPDL.
func VerifyPDLWithCommitment(pk *paillier.PublicKey, q1 *curvemath.Point, c *paillier.Ciphertext, clientCommit *PDLClientCommit, first *PDLFirstMessage, reveal *PDLClientReveal, second *PDLSecondMessage) error {
	if err := commitment.Open(clientCommit.Commitment, reveal.Witness); err != nil {
		return err
	}
	return VerifyPDL(pk, q1, c, first, reveal, second)
}
