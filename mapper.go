package oidc

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// EnrichmentStatus describes how a single enrichment attempt ended.
type EnrichmentStatus int

const (
	EnrichmentEnriched EnrichmentStatus = iota
	EnrichmentSkippedUnavailable
	EnrichmentSkippedError
)

func (s EnrichmentStatus) String() string {
	switch s {
	case EnrichmentEnriched:
		return "enriched"
	case EnrichmentSkippedUnavailable:
		return "skipped_unavailable"
	case EnrichmentSkippedError:
		return "skipped_error"
	default:
		return "unknown"
	}
}

// EnrichmentResult is the outcome of one mapIdentity call.
type EnrichmentResult struct {
	Status     EnrichmentStatus
	Issuer     IssuerOutcome
	RolesAdded int
	Err        error
}

// ClaimsMapper enriches an identity with claims taken from the current
// access token. It never fails: retrieval and decode problems are logged
// and the identity is left as it was.
type ClaimsMapper struct {
	tokens  AccessTokenProvider
	decoder TokenDecoder
	logger  Logger
}

// NewClaimsMapper builds a mapper. A nil decoder uses JWTDecoder and a nil
// logger uses the default logger.
func NewClaimsMapper(tokens AccessTokenProvider, decoder TokenDecoder, logger Logger) *ClaimsMapper {
	if decoder == nil {
		decoder = NewJWTDecoder()
	}
	if logger == nil {
		logger = defaultLogger()
	}
	return &ClaimsMapper{
		tokens:  tokens,
		decoder: decoder,
		logger:  logger,
	}
}

// MapIdentity mutates identity in place using the current access token.
// The account is accepted so the mapper shares the extender call shape; it
// is not read.
func (m *ClaimsMapper) MapIdentity(ctx context.Context, identity *ClaimsIdentity, account *Account) {
	m.mapIdentity(ctx, identity)
}

func (m *ClaimsMapper) mapIdentity(ctx context.Context, identity *ClaimsIdentity) EnrichmentResult {
	if identity == nil {
		return m.skip(EnrichmentSkippedError, ErrIdentityRequired)
	}

	tokenClaims, err := m.tokenClaims(ctx)
	if err != nil {
		if IsAccessTokenNotAvailable(err) {
			return m.skip(EnrichmentSkippedUnavailable, err)
		}
		return m.skip(EnrichmentSkippedError, err)
	}

	result := EnrichmentResult{Status: EnrichmentEnriched}
	result.Issuer = ReconcileIssuer(identity, tokenClaims)
	result.RolesAdded = ProjectRoles(identity, tokenClaims)

	m.logger.Debug("identity enriched from access token",
		"issuer", result.Issuer.String(),
		"roles_added", result.RolesAdded,
	)
	return result
}

// tokenClaims fetches and decodes the access token. A panic in the provider
// or decoder is turned into an error.
func (m *ClaimsMapper) tokenClaims(ctx context.Context) (claims []Claim, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = goerrors.New(fmt.Sprintf("access token retrieval panicked: %v", r), goerrors.CategoryInternal)
		}
	}()

	if m.tokens == nil {
		return nil, NewAccessTokenNotAvailable("no provider configured", nil)
	}

	token, err := m.tokens.RequestAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	return m.decoder.Decode(token.Value)
}

func (m *ClaimsMapper) skip(status EnrichmentStatus, err error) EnrichmentResult {
	if status == EnrichmentSkippedUnavailable {
		m.logger.Error("Access token failure", "error", err, "message", err.Error())
	} else {
		m.logger.Error("Access token error", "error", err, "message", err.Error())
	}
	return EnrichmentResult{Status: status, Issuer: IssuerKept, Err: err}
}
