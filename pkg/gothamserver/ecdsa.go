package gothamserver

import (
	"context"
	"net/http"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/paillier"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
	"github.com/zengo-x/gotham-sub000/pkg/zkproof"
)

// registerECDSA wires spec.md §6's /ecdsa/... endpoint table into
// pkg/protocol/ecdsa2p.
func (rt *Router) registerECDSA() {
	rt.mux.HandleFunc("POST /ecdsa/keygen/first", rt.handle("ecdsa.keygen.first", rt.ecdsaKeyGenFirst))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/second", rt.handle("ecdsa.keygen.second", rt.ecdsaKeyGenSecond))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/third", rt.handle("ecdsa.keygen.third", rt.ecdsaKeyGenThird))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/fourth", rt.handle("ecdsa.keygen.fourth", rt.ecdsaKeyGenFourth))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/chaincode/first", rt.handle("ecdsa.chaincode.first", rt.ecdsaChainCodeFirst))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/chaincode/second", rt.handle("ecdsa.chaincode.second", rt.ecdsaChainCodeSecond))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/chaincode/compute", rt.handle("ecdsa.chaincode.compute", rt.ecdsaChainCodeCompute))
	rt.mux.HandleFunc("POST /ecdsa/keygen/{id}/master_key", rt.handle("ecdsa.keygen.master_key", rt.ecdsaFinalize))

	rt.mux.HandleFunc("POST /ecdsa/sign/{id}/first", rt.handle("ecdsa.sign.first", rt.ecdsaSignFirst))
	rt.mux.HandleFunc("POST /ecdsa/sign/{id}/second", rt.handle("ecdsa.sign.second", rt.ecdsaSignSecond))

	rt.mux.HandleFunc("POST /ecdsa/rotate/{id}/first", rt.handle("ecdsa.rotate.first", rt.ecdsaRotateFirst))
	rt.mux.HandleFunc("POST /ecdsa/rotate/{id}/second", rt.handle("ecdsa.rotate.second", rt.ecdsaRotateSecond))
	rt.mux.HandleFunc("POST /ecdsa/rotate/{id}/third", rt.handle("ecdsa.rotate.third", rt.ecdsaRotateThird))
	rt.mux.HandleFunc("POST /ecdsa/rotate/{id}/fourth", rt.handle("ecdsa.rotate.fourth", rt.ecdsaRotateFourth))
}

func (rt *Router) ecdsaKeyGenFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	id, err := ecdsa2p.NewSessionID()
	if err != nil {
		return err
	}
	msg, err := ecdsa2p.KeyGenFirst(ctx, rt.Store, customerID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		*ecdsa2p.KeyGenFirstMsg
	}{ID: id, KeyGenFirstMsg: msg})
	return nil
}

func (rt *Router) ecdsaKeyGenSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.DLogProofMsg
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.keygen.second", "decode request body")
	}
	msg, err := ecdsa2p.KeyGenSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaKeyGenThird(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req zkproof.PDLClientCommit
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.keygen.third", "decode request body")
	}
	msg, err := ecdsa2p.KeyGenThird(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaKeyGenFourth(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req zkproof.PDLClientReveal
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.keygen.fourth", "decode request body")
	}
	msg, err := ecdsa2p.KeyGenFourth(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaChainCodeFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	msg, err := ecdsa2p.ChainCodeFirst(ctx, rt.Store, customerID, sessionID(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaChainCodeSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.DLogProofMsg
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.chaincode.second", "decode request body")
	}
	msg, err := ecdsa2p.ChainCodeSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaChainCodeCompute(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.ChainCodeComputeRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.chaincode.compute", "decode request body")
	}
	if err := ecdsa2p.ChainCodeCompute(ctx, rt.Store, customerID, sessionID(r), &req); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct{}{})
	return nil
}

// ecdsaFinalize handles /master_key. spec.md §6's table lists an empty
// response, but the client has no way to independently recover Q from the
// store, so the response carries the finalized public key for the client to
// persist alongside its own MasterKeyParty2.
func (rt *Router) ecdsaFinalize(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.FinalizeRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.keygen.master_key", "decode request body")
	}
	q, err := ecdsa2p.Finalize(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		Q any `json:"q"`
	}{Q: q})
	return nil
}

func (rt *Router) ecdsaSignFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	msg, err := ecdsa2p.SignFirst(ctx, rt.Store, customerID, sessionID(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaSignSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.SignSecondMsgRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.sign.second", "decode request body")
	}
	sig, err := ecdsa2p.SignSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sig)
	return nil
}

// ecdsaRotateFirst reads {id} as the session being rotated (per DESIGN.md's
// wire-contract note: rotation mints its own new session id, mirroring
// /ecdsa/keygen/first). The response carries that new id so the client can
// address rounds 2-4.
func (rt *Router) ecdsaRotateFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	newID, err := ecdsa2p.NewSessionID()
	if err != nil {
		return err
	}
	msg, err := ecdsa2p.RotateFirst(ctx, rt.Store, customerID, sessionID(r), newID)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		NewSessionID string `json:"new_session_id"`
		*ecdsa2p.RotationFirstMsg
	}{NewSessionID: newID, RotationFirstMsg: msg})
	return nil
}

func (rt *Router) ecdsaRotateSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.RotationSecondRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.rotate.second", "decode request body")
	}
	msg, err := ecdsa2p.RotateSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) ecdsaRotateThird(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.RotationThirdRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.rotate.third", "decode request body")
	}
	msg, err := ecdsa2p.RotateThird(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

// ecdsaRotateFourth's response extends the raw PDL second message with the
// rotated c_key: the client has no store access to recover it otherwise, and
// needs it to build c3 on every subsequent sign against the rotated session.
func (rt *Router) ecdsaRotateFourth(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req ecdsa2p.RotationFourthRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("ecdsa.rotate.fourth", "decode request body")
	}
	msg, err := ecdsa2p.RotateFourth(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	var mk ecdsa2p.MasterKeyParty1
	found, err := rt.Store.Get(ctx, customerID, sessionID(r), sessionstore.RoleMasterKey1, &mk)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.Internal, "ecdsa.rotate.fourth", "unreachable: rotated master key missing after RotateFourth")
	}
	writeJSON(w, http.StatusOK, struct {
		*zkproof.PDLSecondMessage
		NewCKey *paillier.Ciphertext `json:"new_c_key"`
	}{PDLSecondMessage: msg, NewCKey: mk.CKey})
	return nil
}
