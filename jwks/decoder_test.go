package jwks

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	oidc "github.com/goliatone/go-auth-oidc"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_DecodeVerifiedToken(t *testing.T) {
	key, set, kid := newTestJWKS(t)

	decoder, err := NewFromJSON(set, Config{Issuer: "https://idp.example", Audience: "api"})
	require.NoError(t, err)

	token := signToken(t, key, kid, jwt.MapClaims{
		"iss":   "https://idp.example",
		"aud":   "api",
		"sub":   "user-123",
		"roles": []string{"admin", "support"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := decoder.Decode(token)
	require.NoError(t, err)

	identity := oidc.NewClaimsIdentity("oidc", "", "", claims...)
	assert.Equal(t, []string{"admin", "support"}, identity.Roles())
	iss, ok := identity.FindFirst("iss")
	require.True(t, ok)
	assert.Equal(t, "https://idp.example", iss.Value)
}

func TestDecoder_RejectsBadTokens(t *testing.T) {
	key, set, kid := newTestJWKS(t)
	otherKey, _, _ := newTestJWKS(t)

	decoder, err := NewFromJSON(set, Config{Issuer: "https://idp.example"})
	require.NoError(t, err)

	now := time.Now()
	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{
			name: "wrong signing key",
			token: signToken(t, otherKey, kid, jwt.MapClaims{
				"iss": "https://idp.example",
				"exp": now.Add(time.Hour).Unix(),
			}),
			reason: "signature",
		},
		{
			name: "expired",
			token: signToken(t, key, kid, jwt.MapClaims{
				"iss": "https://idp.example",
				"exp": now.Add(-time.Hour).Unix(),
			}),
			reason: "expired",
		},
		{
			name: "wrong issuer",
			token: signToken(t, key, kid, jwt.MapClaims{
				"iss": "https://evil.example",
				"exp": now.Add(time.Hour).Unix(),
			}),
			reason: "issuer",
		},
		{
			name:   "garbage",
			token:  "not.a.token",
			reason: "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decoder.Decode(tt.token)
			require.Error(t, err)
			assert.True(t, oidc.IsMalformedTokenError(err))

			var richErr *goerrors.Error
			if assert.ErrorAs(t, err, &richErr) {
				assert.Equal(t, "jwks", richErr.Metadata["verifier"])
				assert.Equal(t, tt.reason, richErr.Metadata["reason"])
			}
		})
	}
}

func TestNew_FetchesRemoteKeySet(t *testing.T) {
	key, set, kid := newTestJWKS(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(set)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	decoder, err := New(ctx, Config{URL: server.URL})
	require.NoError(t, err)
	t.Cleanup(decoder.Close)

	claims, err := decoder.Decode(signToken(t, key, kid, jwt.MapClaims{
		"iss": "https://idp.example",
		"exp": time.Now().Add(time.Hour).Unix(),
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, claims)
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestDecoder_WorksAsFactoryDecoder(t *testing.T) {
	key, set, kid := newTestJWKS(t)
	decoder, err := NewFromJSON(set, Config{})
	require.NoError(t, err)

	token := signToken(t, key, kid, jwt.MapClaims{
		"iss":   "https://idp.example",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	factory, err := oidc.NewPrincipalFactory(
		oidc.StaticAccessTokenProvider{Token: oidc.AccessToken{Value: token}},
		oidc.WithTokenDecoder(decoder),
	)
	require.NoError(t, err)

	principal, err := factory.CreateUser(context.Background(), oidc.NewAccount(map[string]any{"name": "alice"}))
	require.NoError(t, err)
	assert.True(t, principal.IsInRole("admin"))
}

func newTestJWKS(t *testing.T) (*rsa.PrivateKey, json.RawMessage, string) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kid := "test-key"
	jwk := map[string]any{
		"kty": "RSA",
		"use": "sig",
		"alg": "RS256",
		"kid": kid,
		"n":   base64.RawURLEncoding.EncodeToString(privateKey.PublicKey.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privateKey.PublicKey.E)).Bytes()),
	}

	data, err := json.Marshal(map[string]any{"keys": []map[string]any{jwk}})
	require.NoError(t, err)

	return privateKey, data, kid
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)

	return signed
}
