package contexthelpers_test

import (
	"context"
	"github.com/myrjola/dossier/internal/contexthelpers"
	"github.com/stretchr/testify/require"
	"net/http/httptest"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	r := httptest.NewRequest("GET", "/?seed=4", nil)
	r = contexthelpers.SetCurrentPath(r, "/")
	r = contexthelpers.SetCSRFToken(r, "token")
	r = contexthelpers.SetCSPNonce(r, "nonce")
	r = contexthelpers.SetRequestID(r, "id")

	ctx := r.Context()
	require.Equal(t, "/", contexthelpers.CurrentPath(ctx))
	require.Equal(t, "token", contexthelpers.CSRFToken(ctx))
	require.Equal(t, "nonce", contexthelpers.CSPNonce(ctx))
	require.Equal(t, "id", contexthelpers.RequestID(ctx))

	empty := context.Background()
	require.Empty(t, contexthelpers.CurrentPath(empty))
	require.Empty(t, contexthelpers.CSRFToken(empty))
	require.Empty(t, contexthelpers.CSPNonce(empty))
	require.Empty(t, contexthelpers.RequestID(empty))
}
