package tokensource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	oidc "github.com/goliatone/go-auth-oidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type failingSource struct {
	err error
}

func (s failingSource) Token() (*oauth2.Token, error) {
	return nil, s.err
}

func TestProvider_ReturnsValidToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	tok := (&oauth2.Token{AccessToken: "abc", Expiry: expiry}).
		WithExtra(map[string]any{"scope": "openid profile"})

	got, err := New(oauth2.StaticTokenSource(tok)).RequestAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "abc", got.Value)
	assert.Equal(t, expiry, got.Expires)
	assert.Equal(t, []string{"openid", "profile"}, got.GrantedScopes)
}

func TestProvider_ExpiredTokenIsUnavailable(t *testing.T) {
	tok := &oauth2.Token{AccessToken: "abc", Expiry: time.Now().Add(-time.Hour)}

	_, err := New(oauth2.StaticTokenSource(tok)).RequestAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, oidc.IsAccessTokenNotAvailable(err))
}

func TestProvider_NilSourceIsUnavailable(t *testing.T) {
	_, err := New(nil).RequestAccessToken(context.Background())
	assert.True(t, oidc.IsAccessTokenNotAvailable(err))
}

func TestProvider_RefreshRejectedIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"refresh token revoked"}`))
	}))
	t.Cleanup(server.Close)

	cfg := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{TokenURL: server.URL, AuthStyle: oauth2.AuthStyleInParams},
	}
	provider := FromConfig(context.Background(), cfg, &oauth2.Token{RefreshToken: "revoked"})

	_, err := provider.RequestAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, oidc.IsAccessTokenNotAvailable(err))
}

func TestProvider_UnexpectedFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	_, err := New(failingSource{err: cause}).RequestAccessToken(context.Background())
	require.Error(t, err)
	assert.False(t, oidc.IsAccessTokenNotAvailable(err))
}

func TestProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})).RequestAccessToken(ctx)
	require.Error(t, err)
	assert.False(t, oidc.IsAccessTokenNotAvailable(err))
}

func TestProvider_DrivesClaimsEnrichment(t *testing.T) {
	payload := "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJpc3MiOiJodHRwczovL2lkcC5leGFtcGxlIiwicm9sZXMiOlsiYWRtaW4iXX0." +
		"c2lnbmF0dXJl"
	provider := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: payload}))

	factory, err := oidc.NewPrincipalFactory(provider)
	require.NoError(t, err)

	principal, err := factory.CreateUser(context.Background(), oidc.NewAccount(map[string]any{"name": "alice"}))
	require.NoError(t, err)

	assert.True(t, principal.IsInRole("admin"))
	iss, ok := principal.FindFirst("iss")
	require.True(t, ok)
	assert.Equal(t, "https://idp.example", iss.Value)
}
