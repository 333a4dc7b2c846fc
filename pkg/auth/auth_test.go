package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zengo-x/gotham-sub000/pkg/apperr"
	"github.com/zengo-x/gotham-sub000/pkg/auth"
)

func TestBearerVerifierAcceptsKnownToken(t *testing.T) {
	v := auth.NewBearerVerifier(map[string]string{"tok-abc": "cust1"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-abc")

	customerID, err := v.Verify(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "cust1", customerID)
}

func TestBearerVerifierRejectsUnknownToken(t *testing.T) {
	v := auth.NewBearerVerifier(map[string]string{"tok-abc": "cust1"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer wrong-token")

	_, err := v.Verify(context.Background(), r)
	require.Error(t, err)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.Unauthorized, appErr.Kind)
}

func TestBearerVerifierRejectsMissingHeader(t *testing.T) {
	v := auth.NewBearerVerifier(map[string]string{"tok-abc": "cust1"})
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := v.Verify(context.Background(), r)
	require.Error(t, err)
}

func TestPassthroughVerifierUsesHeader(t *testing.T) {
	v := &auth.PassthroughVerifier{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Customer-ID", "cust2")

	customerID, err := v.Verify(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "cust2", customerID)
}

func TestPassthroughVerifierRejectsMissingHeader(t *testing.T) {
	v := &auth.PassthroughVerifier{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := v.Verify(context.Background(), r)
	require.Error(t, err)
}
