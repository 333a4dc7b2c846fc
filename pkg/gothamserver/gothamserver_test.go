package gothamserver_test

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/auth"
	"github.com/zengo-x/gotham-sub000/pkg/commitment"
	"github.com/zengo-x/gotham-sub000/pkg/curvemath"
	"github.com/zengo-x/gotham-sub000/pkg/gothamserver"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore/memstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	store := memstore.New()
	verifier := auth.NewBearerVerifier(map[string]string{"test-token": "cust1"})
	router := gothamserver.NewRouter(store, verifier, nil)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, "test-token"
}

func postJSON(t *testing.T, srv *httptest.Server, token, path string, body, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPingReturnsOK(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnauthorizedWithoutBearerToken(t *testing.T) {
	srv, _ := newTestServer(t)
	status := postJSON(t, srv, "", "/ecdsa/keygen/first", nil, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

// TestECDSAKeygenAndSignOverHTTP exercises the wire format end-to-end: a
// full keygen + chain-code + sign round trip driven purely over HTTP, with
// party two played locally exactly as pkg/protocol/ecdsa2p's own tests do,
// without going through the gothamclient driver.
func TestECDSAKeygenAndSignOverHTTP(t *testing.T) {
	srv, token := newTestServer(t)

	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	q2 := curvemath.ScalarBaseMult(x2)

	var first struct {
		ID string `json:"id"`
		ecdsa2p.KeyGenFirstMsg
	}
	status := postJSON(t, srv, token, "/ecdsa/keygen/first", nil, &first)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, first.ID)
	require.NotEmpty(t, first.Commitment)

	q2Proof, err := zkproof.ProveDL(q2, x2, []byte(first.ID))
	require.NoError(t, err)

	var second ecdsa2p.KGParty1Message2
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/second",
		&ecdsa2p.DLogProofMsg{Point: q2, Proof: q2Proof}, &second)
	require.Equal(t, http.StatusOK, status)

	rangeBound := new(big.Int).Div(curvemath.Order, big.NewInt(3))
	require.NoError(t, zkproof.VerifyValidPaillier(second.PaillierPub, second.CorrectKeyProof, []byte(first.ID)))
	require.NoError(t, zkproof.VerifyRange(second.PaillierPub, second.CKey, rangeBound, second.RangeProof, []byte(first.ID)))

	require.NoError(t, commitment.Open(first.Commitment, second.Decommit))

	clientCommit, clientSecret, err := zkproof.NewPDLClientCommit()
	require.NoError(t, err)
	var pdlFirst zkproof.PDLFirstMessage
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/third", clientCommit, &pdlFirst)
	require.Equal(t, http.StatusOK, status)

	reveal := clientSecret.Reveal()
	var pdlSecond zkproof.PDLSecondMessage
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/fourth", reveal, &pdlSecond)
	require.Equal(t, http.StatusOK, status)

	q1Bytes := second.Decommit.Value
	q1, err := curvemath.PointFromBytes(q1Bytes)
	require.NoError(t, err)
	require.NoError(t, zkproof.VerifyPDLWithCommitment(second.PaillierPub, q1, second.CKey, clientCommit, &pdlFirst, reveal, &pdlSecond))

	cc2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	cc2G := curvemath.ScalarBaseMult(cc2)

	var ccFirst ecdsa2p.CCFirstMessage
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/chaincode/first", nil, &ccFirst)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, ccFirst.Commitment)

	cc2Proof, err := zkproof.ProveDL(cc2G, cc2, []byte(first.ID))
	require.NoError(t, err)
	var ccSecond ecdsa2p.CCSecondMessage
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/chaincode/second",
		&ecdsa2p.DLogProofMsg{Point: cc2G, Proof: cc2Proof}, &ccSecond)
	require.Equal(t, http.StatusOK, status)

	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/chaincode/compute",
		&ecdsa2p.ChainCodeComputeRequest{Cc2G: cc2G}, nil)
	require.Equal(t, http.StatusOK, status)

	var finalized struct {
		Q *curvemath.Point `json:"q"`
	}
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/master_key",
		&ecdsa2p.FinalizeRequest{Q2: q2}, &finalized)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, finalized.Q)

	digest := curvemath.HashToScalar([]byte("hello gotham"))

	var signFirst ecdsa2p.EphKeyGenFirstMsg
	status = postJSON(t, srv, token, "/ecdsa/sign/"+first.ID+"/first", nil, &signFirst)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, zkproof.VerifyDL(signFirst.K1G, signFirst.Proof, []byte(first.ID)))

	k2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	k2G := curvemath.ScalarBaseMult(k2)
	k2Proof, err := zkproof.ProveDL(k2G, k2, []byte(first.ID))
	require.NoError(t, err)

	k2Inv, err := k2.Inverse()
	require.NoError(t, err)
	rPoint := signFirst.K1G.ScalarMult(k2)
	r := curvemath.NewScalar(rPoint.X())

	part1 := k2Inv.Mul(digest)
	scale := k2Inv.Mul(r).Mul(x2)

	c3 := second.PaillierPub.MulScalar(second.CKey, scale.Int())
	c3, err = second.PaillierPub.AddPlain(c3, part1.Int())
	require.NoError(t, err)

	maskMultiplier, err := paillier.RandomUnit(big.NewInt(1 << 20))
	require.NoError(t, err)
	mask := new(big.Int).Mul(curvemath.Order, maskMultiplier)
	c3, err = second.PaillierPub.AddPlain(c3, mask)
	require.NoError(t, err)

	var signSecond ecdsa2p.Signature
	status = postJSON(t, srv, token, "/ecdsa/sign/"+first.ID+"/second", &ecdsa2p.SignSecondMsgRequest{
		Digest: digest,
		K2G:    k2G,
		Proof:  k2Proof,
		C3:     c3,
	}, &signSecond)
	require.Equal(t, http.StatusOK, status)
	require.True(t, curvemath.VerifyECDSA(finalized.Q, digest, signSecond.R, signSecond.S))
}

// TestKeygenThirdBeforeSecondRejected is spec.md §8 Seed Scenario 5: calling
// /ecdsa/keygen/{id}/third before /second must fail with 400 (wrong-round
// input on an otherwise-valid session id, not an unknown one), and a
// legitimate /second followed by /third must still succeed afterward.
func TestKeygenThirdBeforeSecondRejected(t *testing.T) {
	srv, token := newTestServer(t)

	var first struct {
		ID string `json:"id"`
		ecdsa2p.KeyGenFirstMsg
	}
	status := postJSON(t, srv, token, "/ecdsa/keygen/first", nil, &first)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, first.ID)

	var errBody struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/third", &zkproof.PDLClientCommit{}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "missing_state", errBody.Error.Kind)

	x2, err := curvemath.RandomScalar()
	require.NoError(t, err)
	q2 := curvemath.ScalarBaseMult(x2)
	q2Proof, err := zkproof.ProveDL(q2, x2, []byte(first.ID))
	require.NoError(t, err)

	var second ecdsa2p.KGParty1Message2
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/second",
		&ecdsa2p.DLogProofMsg{Point: q2, Proof: q2Proof}, &second)
	require.Equal(t, http.StatusOK, status)

	var pdlFirst zkproof.PDLFirstMessage
	status = postJSON(t, srv, token, "/ecdsa/keygen/"+first.ID+"/third", &zkproof.PDLClientCommit{}, &pdlFirst)
	require.Equal(t, http.StatusOK, status)
}

// TestSignUnknownSessionRejected is the unknown-session-id half of spec.md
// §6's exit-code table: a session id that never ran keygen must fail with
// 404, distinct from the 400 a wrong-round call against a real session id
// gets (TestKeygenThirdBeforeSecondRejected).
func TestSignUnknownSessionRejected(t *testing.T) {
	srv, token := newTestServer(t)

	var errBody struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	status := postJSON(t, srv, token, "/ecdsa/sign/doesnotexist/first", nil, &errBody)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "session_not_found", errBody.Error.Kind)
}
