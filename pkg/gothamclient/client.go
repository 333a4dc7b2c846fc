// Package gothamclient is party two's ordered HTTP request engine: one
// method per protocol operation (keygen, sign, rotate), each issuing that
// operation's rounds in order, driving pkg/gothamserver's endpoints in the
// client-drives-server sequence spec.md §3 requires, with every round's
// client-side cryptography (DLog proofs, Lindell masking, MuSig-style
// signature aggregation) performed locally before the request is sent.
//
// Grounded on the retrieved mpc_signer demo (up2itnow-ReadyTrader-Crypto),
// which is the one example in the pack with both an HTTP server and an HTTP
// client side: postJSON's http.Client{Timeout}/http.NewRequest/json.Marshal
// shape and fetchPeerStatus's json.NewDecoder response handling are both
// adapted here into a single Client.do request helper.
package gothamclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
)

const defaultTimeout = 30 * time.Second

// Client drives one customer's session lifecycle against a gothamserver
// instance. A Client is safe for concurrent use across independent
// sessions; it holds no session state itself.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client, e.g. to tune
// transport pooling or TLS config.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the Client's current
// *http.Client: the default one, or one supplied by an earlier
// WithHTTPClient option. A WithHTTPClient passed after it replaces the
// client and so discards the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.http != nil {
			c.http.Timeout = d
		}
	}
}

// New builds a Client against baseURL (e.g. "https://gotham.example.com"),
// authorizing every request with the given bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody mirrors gothamserver's wire error shape.
type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// do posts reqBody (or performs a bodyless GET/POST if reqBody is nil) to
// path and decodes the JSON response into out. A non-2xx response is
// surfaced as an *apperr.Error carrying the server's reported kind.
func (c *Client) do(ctx context.Context, method, path string, reqBody, out any) error {
	const op = "gothamclient.do"

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return apperr.Wrap(apperr.Internal, op, "marshal request body", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, "build request", err)
	}
	req.Header.Set("content-type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Internal, op, fmt.Sprintf("request %s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		kind := apperr.Kind(eb.Error.Kind)
		if kind == "" {
			kind = apperr.Internal
		}
		return apperr.New(kind, op, fmt.Sprintf("%s %s: %s", method, path, eb.Error.Message))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.Internal, op, "decode response body", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, out any) error {
	return c.do(ctx, http.MethodPost, path, reqBody, out)
}
