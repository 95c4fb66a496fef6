// Package tokensource adapts golang.org/x/oauth2 token sources to the
// oidc.AccessTokenProvider contract.
package tokensource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oidc "github.com/goliatone/go-auth-oidc"
	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/oauth2"
)

// Provider wraps an oauth2.TokenSource. Refresh, caching and timeouts are
// left to the source (use oauth2.ReuseTokenSource for caching).
type Provider struct {
	source oauth2.TokenSource
}

var _ oidc.AccessTokenProvider = (*Provider)(nil)

// New wraps source.
func New(source oauth2.TokenSource) *Provider {
	return &Provider{source: source}
}

// FromConfig builds a provider that refreshes tok with cfg, bound to ctx.
func FromConfig(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) *Provider {
	return New(cfg.TokenSource(ctx, tok))
}

// RequestAccessToken satisfies oidc.AccessTokenProvider. Missing sources,
// OAuth error responses and invalid tokens are reported as not available;
// anything else is returned as an unexpected error.
func (p *Provider) RequestAccessToken(ctx context.Context) (oidc.AccessToken, error) {
	if p == nil || p.source == nil {
		return oidc.AccessToken{}, oidc.NewAccessTokenNotAvailable("no token source", nil)
	}
	if err := ctx.Err(); err != nil {
		return oidc.AccessToken{}, goerrors.Wrap(err, goerrors.CategoryOperation, "context cancelled before token request")
	}

	tok, err := p.source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return oidc.AccessToken{}, oidc.NewAccessTokenNotAvailable(retrieveReason(retrieveErr), err)
		}
		return oidc.AccessToken{}, goerrors.Wrap(err, goerrors.CategoryOperation, "token source failed")
	}

	if tok == nil || !tok.Valid() {
		return oidc.AccessToken{}, oidc.NewAccessTokenNotAvailable("token expired or empty", nil)
	}

	return oidc.AccessToken{
		Value:         tok.AccessToken,
		Expires:       tok.Expiry,
		GrantedScopes: grantedScopes(tok),
	}, nil
}

func retrieveReason(err *oauth2.RetrieveError) string {
	if err.ErrorCode != "" {
		return err.ErrorCode
	}
	if err.Response != nil {
		return fmt.Sprintf("status %d", err.Response.StatusCode)
	}
	return "retrieve failed"
}

func grantedScopes(tok *oauth2.Token) []string {
	scope, _ := tok.Extra("scope").(string)
	if scope == "" {
		return nil
	}
	return strings.Fields(scope)
}
