package oidc

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDecoder turns a compact token into its ordered claim sequence.
type TokenDecoder interface {
	Decode(token string) ([]Claim, error)
}

// TokenDecoderFunc adapts a function into a TokenDecoder.
type TokenDecoderFunc func(token string) ([]Claim, error)

// Decode satisfies the TokenDecoder interface.
func (f TokenDecoderFunc) Decode(token string) ([]Claim, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(token)
}

// JWTDecoder reads the payload of a compact JWS without verifying its
// signature. Claims come back in payload order; every claim records the
// token's issuer.
type JWTDecoder struct {
	parser *jwt.Parser
}

// NewJWTDecoder returns a decoder backed by golang-jwt.
func NewJWTDecoder() *JWTDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode satisfies the TokenDecoder interface.
func (d *JWTDecoder) Decode(token string) ([]Claim, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, malformedToken(nil, map[string]any{"reason": "empty token"})
	}

	parser := d.parser
	if parser == nil {
		parser = jwt.NewParser()
	}

	_, parts, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, malformedToken(err, nil)
	}

	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, malformedToken(err, map[string]any{"segment": "payload"})
	}

	return ClaimsFromPayload(payload)
}

// ClaimsFromPayload flattens a JSON claims payload into ordered claims.
func ClaimsFromPayload(payload []byte) ([]Claim, error) {
	members, err := decodeOrderedObject(payload)
	if err != nil {
		return nil, malformedToken(err, map[string]any{"segment": "payload"})
	}

	issuer := DefaultClaimIssuer
	for _, m := range members {
		if m.name != ClaimTypeIssuer {
			continue
		}
		if value, ok := scalarValue(m.value); ok && value != "" {
			issuer = value
		}
		break
	}

	claims := make([]Claim, 0, len(members))
	for _, m := range members {
		claims = append(claims, flattenClaim(m.name, m.value, issuer)...)
	}
	return claims, nil
}
