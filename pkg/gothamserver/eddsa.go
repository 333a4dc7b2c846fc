package gothamserver

import (
	"context"
	"net/http"

	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/eddsa2p"
)

// registerEdDSA wires the /eddsa/... endpoints into pkg/protocol/eddsa2p,
// mirroring the ecdsa2p round shape: keygen is two rounds, signing is two
// rounds, per spec.md §4.6.
func (rt *Router) registerEdDSA() {
	rt.mux.HandleFunc("POST /eddsa/keygen/first", rt.handle("eddsa.keygen.first", rt.eddsaKeyGenFirst))
	rt.mux.HandleFunc("POST /eddsa/keygen/{id}/second", rt.handle("eddsa.keygen.second", rt.eddsaKeyGenSecond))
	rt.mux.HandleFunc("POST /eddsa/sign/{id}/first", rt.handle("eddsa.sign.first", rt.eddsaSignFirst))
	rt.mux.HandleFunc("POST /eddsa/sign/{id}/second", rt.handle("eddsa.sign.second", rt.eddsaSignSecond))
}

func (rt *Router) eddsaKeyGenFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	id, err := ecdsa2p.NewSessionID()
	if err != nil {
		return err
	}
	msg, err := eddsa2p.KeyGenFirst(ctx, rt.Store, customerID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		*eddsa2p.KeyGenFirstMsg
	}{ID: id, KeyGenFirstMsg: msg})
	return nil
}

func (rt *Router) eddsaKeyGenSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req eddsa2p.DLogProofMsg
	if err := readJSON(r, &req); err != nil {
		return badRequest("eddsa.keygen.second", "decode request body")
	}
	msg, err := eddsa2p.KeyGenSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) eddsaSignFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	msg, err := eddsa2p.SignFirst(ctx, rt.Store, customerID, sessionID(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) eddsaSignSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req eddsa2p.SignSecondRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("eddsa.sign.second", "decode request body")
	}
	msg, err := eddsa2p.SignSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}
