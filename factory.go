package oidc

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// PrincipalFactory turns a remote account into a principal: it seeds an
// identity from the account, enriches it from the access token, then runs
// claims extenders and post-processors in registration order.
type PrincipalFactory struct {
	config         Config
	tokens         AccessTokenProvider
	decoder        TokenDecoder
	mapper         *ClaimsMapper
	extenders      []ClaimsExtender
	postProcessors []PostProcessor
	logger         Logger
	loggerProvider LoggerProvider
	newID          func() string
}

// NewPrincipalFactory builds a factory around tokens.
func NewPrincipalFactory(tokens AccessTokenProvider, opts ...Option) (*PrincipalFactory, error) {
	f := &PrincipalFactory{
		config: DefaultConfig(),
		tokens: tokens,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if err := f.config.Validate(); err != nil {
		return nil, err
	}

	provider, logger := ResolveLogger("oidc.factory", f.loggerProvider, f.logger)
	f.loggerProvider = provider
	f.logger = logger

	f.mapper = NewClaimsMapper(tokens, f.decoder, provider.GetLogger("oidc.mapper"))
	return f, nil
}

// Config returns the claim types in use.
func (f *PrincipalFactory) Config() Config {
	return f.config
}

// CreateUser builds the principal for account. A nil account yields an
// unauthenticated principal. Token, extender and post-processor failures are
// logged and never returned; the only error is a context cancelled before
// work starts.
func (f *PrincipalFactory) CreateUser(ctx context.Context, account *Account) (*Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "context cancelled before principal creation")
	}

	if account == nil {
		return NewPrincipal(NewClaimsIdentity("", f.config.NameClaimType, f.config.RoleClaimType)), nil
	}

	signInID := f.newID()
	identity := NewClaimsIdentity(
		f.config.AuthenticationType,
		f.config.NameClaimType,
		f.config.RoleClaimType,
		account.Claims()...,
	)

	f.mapper.MapIdentity(ctx, identity, account)

	for i, ext := range f.extenders {
		if err := ext.ExtendClaims(ctx, identity, account); err != nil {
			f.logger.Warn("claims extender error", "error", err, "extender", i, "sign_in_id", signInID)
		}
	}

	principal := NewPrincipal(identity)

	for i, p := range f.postProcessors {
		if err := p.ProcessPrincipal(ctx, principal); err != nil {
			f.logger.Warn("post processor error", "error", err, "post_processor", i, "sign_in_id", signInID)
		}
	}

	f.logger.Debug("principal created",
		"sign_in_id", signInID,
		"name", principal.Name(),
		"claims", identity.Len(),
	)

	return principal, nil
}
