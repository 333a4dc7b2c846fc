// Package auth implements spec.md §6's bearer-token authorization, with an
// optional passthrough mode for local/demo deployments that run without a
// token store. Grounded on the plain net/http request-handling style the
// retrieved mpc_signer demo (up2itnow-ReadyTrader-Crypto) uses for its own
// control-plane endpoints, generalized into a Verifier the HTTP layer can
// call before dispatching to a protocol handler.
package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
)

// Verifier authorizes an inbound request, returning the customer id the
// request is scoped to. Implementations must be safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, r *http.Request) (customerID string, err error)
}

// BearerVerifier validates the Authorization header against a fixed set of
// tokens, each mapped to the customer id it authorizes. Token comparison
// uses constant time to avoid leaking validity through timing.
type BearerVerifier struct {
	tokens map[string]string
}

// NewBearerVerifier builds a BearerVerifier from a token->customerID map.
func NewBearerVerifier(tokens map[string]string) *BearerVerifier {
	cp := make(map[string]string, len(tokens))
	for k, v := range tokens {
		cp[k] = v
	}
	return &BearerVerifier{tokens: cp}
}

// Verify implements Verifier.
func (b *BearerVerifier) Verify(_ context.Context, r *http.Request) (string, error) {
	const op = "auth.BearerVerifier.Verify"
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", apperr.New(apperr.Unauthorized, op, "missing bearer token")
	}
	for candidate, customerID := range b.tokens {
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
			return customerID, nil
		}
	}
	return "", apperr.New(apperr.Unauthorized, op, "unknown bearer token")
}

// PassthroughVerifier accepts every request, reading the customer id
// directly from a header instead of verifying a token. This is spec.md
// §6's "optional passthrough mode", intended for local development and
// integration tests only, never production deployments.
type PassthroughVerifier struct {
	// Header is the request header carrying the customer id. Defaults to
	// "X-Customer-ID" if empty.
	Header string
}

const defaultCustomerIDHeader = "X-Customer-ID"

// Verify implements Verifier.
func (p *PassthroughVerifier) Verify(_ context.Context, r *http.Request) (string, error) {
	const op = "auth.PassthroughVerifier.Verify"
	header := p.Header
	if header == "" {
		header = defaultCustomerIDHeader
	}
	customerID := r.Header.Get(header)
	if customerID == "" {
		return "", apperr.New(apperr.BadRequest, op, "missing customer id header in passthrough mode")
	}
	return customerID, nil
}
