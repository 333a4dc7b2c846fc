package gothamserver

import (
	"context"
	"net/http"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/auth"
	"github.com/zengo-x/gotham-sub000/pkg/logging"
	"github.com/zengo-x/gotham-sub000/pkg/sessionstore"
)

// Router is the capability bundle spec.md §9 names ("Reframe as a
// dependency injected into each request handler"): a session store and an
// auth verifier, wired once at construction and shared read-only by every
// handler.
type Router struct {
	Store  sessionstore.Store
	Auth   auth.Verifier
	Logger logging.Logger

	mux *http.ServeMux
}

// NewRouter builds a Router and registers every endpoint named in spec.md
// §6's table, plus its /eddsa and /schnorr mirrors.
func NewRouter(store sessionstore.Store, verifier auth.Verifier, logger logging.Logger) *Router {
	if logger == nil {
		logger = logging.New(nil)
	}
	rt := &Router{Store: store, Auth: verifier, Logger: logger, mux: http.NewServeMux()}
	rt.mux.HandleFunc("GET /ping", rt.handlePing)
	rt.registerECDSA()
	rt.registerEdDSA()
	rt.registerSchnorr()
	return rt
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.mux.ServeHTTP(w, r)
}

func (rt *Router) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// authorize runs the Router's Verifier against r, writing an error response
// and returning ok=false if authorization fails.
func (rt *Router) authorize(w http.ResponseWriter, r *http.Request) (customerID string, ok bool) {
	customerID, err := rt.Auth.Verify(r.Context(), r)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return customerID, true
}

// handle wraps a handler function so a returned error becomes a JSON error
// response and common context/logging boilerplate is written once.
func (rt *Router) handle(op string, fn func(ctx context.Context, w http.ResponseWriter, r *http.Request, customerID string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, ok := rt.authorize(w, r)
		if !ok {
			return
		}
		if err := fn(r.Context(), w, r, customerID); err != nil {
			rt.Logger.Error(r.Context(), "handler failed", "op", op, "error", err)
			writeError(w, err)
		}
	}
}

// sessionID extracts the {id} path value set by the net/http ServeMux
// pattern. Empty means the route has no path-scoped session (e.g. the
// first-round keygen endpoints, which mint their own session id).
func sessionID(r *http.Request) string {
	return r.PathValue("id")
}

// badRequest is a small helper for handlers that need to fail a request
// before reaching their protocol-package call, e.g. on JSON decode failure.
func badRequest(op, context string) error {
	return apperr.New(apperr.BadRequest, op, context)
}
