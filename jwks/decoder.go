// Package jwks provides a TokenDecoder that verifies the token signature
// against a JSON Web Key Set before handing the claims to the enrichment
// pipeline. Use it when the host cannot rely on upstream validation.
package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	oidc "github.com/goliatone/go-auth-oidc"
)

// Config configures a remote JWKS decoder.
type Config struct {
	// URL is the JWKS endpoint, e.g. https://idp.example/.well-known/jwks.json
	URL string

	// Issuer, when set, must match the token "iss".
	Issuer string

	// Audience, when set, must be present in the token "aud".
	Audience string

	// ValidMethods restricts accepted algorithms. Default: RS256.
	ValidMethods []string

	// RefreshInterval controls background key refresh. Default: 1 hour.
	RefreshInterval time.Duration

	// Logger receives background refresh errors.
	Logger oidc.Logger
}

// Decoder verifies compact JWS tokens against a key set and returns their
// ordered claims.
type Decoder struct {
	keys    *keyfunc.JWKS
	parser  *jwt.Parser
	claims  *oidc.JWTDecoder
	closeFn func()
}

var _ oidc.TokenDecoder = (*Decoder)(nil)

// New fetches the key set and starts a background refresh bound to ctx.
func New(ctx context.Context, cfg Config) (*Decoder, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("jwks: url is required")
	}

	logger := cfg.Logger
	refresh := cfg.RefreshInterval
	if refresh == 0 {
		refresh = time.Hour
	}

	keys, err := keyfunc.Get(cfg.URL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   refresh,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			if logger != nil {
				logger.Warn("jwks refresh error", "error", err, "url", cfg.URL)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("jwks: failed to load key set: %w", err)
	}

	d := newDecoder(keys, cfg)
	d.closeFn = keys.EndBackground
	return d, nil
}

// NewFromJSON builds a decoder from a static key set document.
func NewFromJSON(raw json.RawMessage, cfg Config) (*Decoder, error) {
	keys, err := keyfunc.NewJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("jwks: invalid key set: %w", err)
	}
	return newDecoder(keys, cfg), nil
}

func newDecoder(keys *keyfunc.JWKS, cfg Config) *Decoder {
	methods := cfg.ValidMethods
	if len(methods) == 0 {
		methods = []string{jwt.SigningMethodRS256.Alg()}
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(methods)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Decoder{
		keys:   keys,
		parser: jwt.NewParser(opts...),
		claims: oidc.NewJWTDecoder(),
	}
}

// Decode verifies the token and returns its claims in payload order.
func (d *Decoder) Decode(token string) ([]oidc.Claim, error) {
	if _, err := d.parser.Parse(token, d.keys.Keyfunc); err != nil {
		return nil, verificationError(err)
	}
	return d.claims.Decode(token)
}

// Close stops the background refresh, if any.
func (d *Decoder) Close() {
	if d.closeFn != nil {
		d.closeFn()
	}
}

func verificationError(err error) error {
	clone := oidc.ErrTokenMalformed.Clone()
	clone.Source = err
	reason := "invalid"
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		reason = "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		reason = "signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		reason = "issuer"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		reason = "audience"
	}
	return clone.WithMetadata(map[string]any{
		"verifier": "jwks",
		"reason":   reason,
		"cause":    err.Error(),
	})
}
