package oidc

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeAccessTokenNotAvailable = "access_token_not_available"
	TextCodeTokenMalformed          = "token_malformed"
	TextCodeInvalidConfig           = "oidc_invalid_config"
	TextCodeIdentityRequired        = "oidc_identity_required"
)

// ErrAccessTokenNotAvailable is returned by an AccessTokenProvider when it
// cannot supply a token without user interaction (expired session, consent
// required, provider offline).
var ErrAccessTokenNotAvailable = errors.New("access token not available", errors.CategoryAuth).
	WithTextCode(TextCodeAccessTokenNotAvailable).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a compact token cannot be decoded.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryBadInput).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeBadRequest)

// ErrInvalidConfig is returned when the claims configuration fails validation.
var ErrInvalidConfig = errors.New("invalid oidc configuration", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidConfig).
	WithCode(errors.CodeBadRequest)

// ErrIdentityRequired is reported when enrichment is asked to map a nil identity.
var ErrIdentityRequired = errors.New("identity is required", errors.CategoryBadInput).
	WithTextCode(TextCodeIdentityRequired).
	WithCode(errors.CodeBadRequest)

// NewAccessTokenNotAvailable returns an ErrAccessTokenNotAvailable carrying
// the provider's reason and the wrapped cause, if any.
func NewAccessTokenNotAvailable(reason string, cause error) error {
	clone := ErrAccessTokenNotAvailable.Clone()
	if reason != "" {
		clone.Message = "access token not available: " + reason
	}
	clone.Source = cause
	return clone.WithMetadata(map[string]any{
		"reason": reason,
	})
}

// IsAccessTokenNotAvailable reports whether err signals an unavailable token.
func IsAccessTokenNotAvailable(err error) bool {
	return hasTextCode(err, TextCodeAccessTokenNotAvailable)
}

// IsMalformedTokenError reports whether err signals a token that could not be decoded.
func IsMalformedTokenError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

func malformedToken(cause error, metadata map[string]any) error {
	clone := ErrTokenMalformed.Clone()
	clone.Source = cause
	if cause != nil {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["cause"] = cause.Error()
	}
	if len(metadata) == 0 {
		return clone
	}
	return clone.WithMetadata(metadata)
}
