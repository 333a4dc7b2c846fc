package gothamserver

import (
	"net/http"
	"time"
)

// NewHTTPServer builds the *http.Server for addr, grounded on the retrieved
// mpc_signer demo's server construction: a bare http.Server with
// ReadHeaderTimeout set so a slow or malicious client can't hold a
// connection open indefinitely during header reads.
func NewHTTPServer(addr string, router *Router) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
