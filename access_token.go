package oidc

import (
	"context"
	"time"
)

// AccessToken is the current bearer token issued by the identity provider.
type AccessToken struct {
	Value         string
	Expires       time.Time
	GrantedScopes []string
}

// AccessTokenProvider supplies the current access token on demand. When no
// token can be supplied it returns an error for which
// IsAccessTokenNotAvailable reports true; any other error is an unexpected
// failure. Implementations own any timeout, refresh or caching policy and
// must be safe for concurrent use.
type AccessTokenProvider interface {
	RequestAccessToken(ctx context.Context) (AccessToken, error)
}

// AccessTokenProviderFunc adapts a function into an AccessTokenProvider.
type AccessTokenProviderFunc func(ctx context.Context) (AccessToken, error)

// RequestAccessToken satisfies the AccessTokenProvider interface.
func (f AccessTokenProviderFunc) RequestAccessToken(ctx context.Context) (AccessToken, error) {
	if f == nil {
		return AccessToken{}, NewAccessTokenNotAvailable("no provider configured", nil)
	}
	return f(ctx)
}

// StaticAccessTokenProvider always returns the same token value. An empty
// value is reported as not available.
type StaticAccessTokenProvider struct {
	Token AccessToken
}

// RequestAccessToken satisfies the AccessTokenProvider interface.
func (p StaticAccessTokenProvider) RequestAccessToken(ctx context.Context) (AccessToken, error) {
	if p.Token.Value == "" {
		return AccessToken{}, NewAccessTokenNotAvailable("empty token", nil)
	}
	return p.Token, nil
}
