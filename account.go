package oidc

// Account is the provisionally authenticated user record handed over by the
// remote login flow, typically the ID token profile. It is read-only to the
// enrichment pipeline.
type Account struct {
	Properties map[string]any `json:"properties" yaml:"properties"`
}

// NewAccount wraps profile properties into an Account.
func NewAccount(properties map[string]any) *Account {
	return &Account{Properties: properties}
}

// Property returns the raw value for key.
func (a *Account) Property(key string) (any, bool) {
	if a == nil || a.Properties == nil {
		return nil, false
	}
	v, ok := a.Properties[key]
	return v, ok
}

// Claims flattens the account properties into claims in sorted key order.
// Slices produce one claim per element and nil values are skipped.
func (a *Account) Claims() []Claim {
	if a == nil {
		return nil
	}
	return claimsFromProperties(a.Properties, DefaultClaimIssuer)
}
