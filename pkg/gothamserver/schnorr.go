package gothamserver

import (
	"context"
	"net/http"

	"github.com/zengo-x/gotham-sub000/pkg/protocol/ecdsa2p"
	"github.com/zengo-x/gotham-sub000/pkg/protocol/schnorr2p"
)

// registerSchnorr wires the /schnorr/... endpoints into
// pkg/protocol/schnorr2p. The Feldman VSS building block (vss.go) has no
// endpoint of its own; spec.md §6's table names none, and it is called only
// from schnorr2p's own tests.
func (rt *Router) registerSchnorr() {
	rt.mux.HandleFunc("POST /schnorr/keygen/first", rt.handle("schnorr.keygen.first", rt.schnorrKeyGenFirst))
	rt.mux.HandleFunc("POST /schnorr/keygen/{id}/second", rt.handle("schnorr.keygen.second", rt.schnorrKeyGenSecond))
	rt.mux.HandleFunc("POST /schnorr/sign/{id}/first", rt.handle("schnorr.sign.first", rt.schnorrSignFirst))
	rt.mux.HandleFunc("POST /schnorr/sign/{id}/second", rt.handle("schnorr.sign.second", rt.schnorrSignSecond))
}

func (rt *Router) schnorrKeyGenFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	id, err := ecdsa2p.NewSessionID()
	if err != nil {
		return err
	}
	msg, err := schnorr2p.KeyGenFirst(ctx, rt.Store, customerID, id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, struct {
		ID string `json:"id"`
		*schnorr2p.KeyGenFirstMsg
	}{ID: id, KeyGenFirstMsg: msg})
	return nil
}

func (rt *Router) schnorrKeyGenSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req schnorr2p.DLogProofMsg
	if err := readJSON(r, &req); err != nil {
		return badRequest("schnorr.keygen.second", "decode request body")
	}
	msg, err := schnorr2p.KeyGenSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) schnorrSignFirst(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	msg, err := schnorr2p.SignFirst(ctx, rt.Store, customerID, sessionID(r))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}

func (rt *Router) schnorrSignSecond(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error {
	var req schnorr2p.SignSecondRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest("schnorr.sign.second", "decode request body")
	}
	msg, err := schnorr2p.SignSecond(ctx, rt.Store, customerID, sessionID(r), &req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, msg)
	return nil
}
