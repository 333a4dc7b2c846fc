// Package gothamserver is the HTTP transport for the two-party signing
// protocols: a thin net/http layer translating JSON requests into calls
// against pkg/protocol/ecdsa2p, pkg/protocol/eddsa2p, and
// pkg/protocol/schnorr2p, with session routing scoped by an
// auth.Verifier-supplied customer id.
//
// The teacher repo wraps a C++ MPC core and exposes no HTTP surface of its
// own, so this layer is grounded instead on the retrieved mpc_signer demo
// (up2itnow-ReadyTrader-Crypto): plain net/http.ServeMux, a
// writeJSON/readJSON helper pair, and a *http.Server with
// ReadHeaderTimeout set.
package gothamserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
)

const maxRequestBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, obj any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(obj)
}

func readJSON(r *http.Request, dst any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

// errorBody is the wire shape of every non-2xx response, per spec.md §7.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps err to an HTTP status via statusFor and writes the
// spec.md §7 error body. apperr.Internal messages are replaced with a fixed
// string before serialization so internal detail never reaches the wire.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.Internal
	message := "internal error"
	if appErr, ok := err.(*apperr.Error); ok {
		kind = appErr.Kind
		if kind != apperr.Internal {
			message = appErr.Context
		}
	}
	var body errorBody
	body.Error.Kind = string(kind)
	body.Error.Message = message
	writeJSON(w, statusFor(kind), body)
}

// statusFor maps an apperr.Kind to the HTTP status spec.md §6/§7's
// exit-code table assigns it.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.BadRequest, apperr.MissingState:
		return http.StatusBadRequest
	case apperr.SessionNotFound:
		return http.StatusNotFound
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	default:
		// ProofFailed, CommitmentMismatch, StoreUnavailable and Internal.
		return http.StatusInternalServerError
	}
}
