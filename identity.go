package oidc

import "slices"

const (
	// ClaimTypeIssuer is the registered issuer claim name.
	ClaimTypeIssuer = "iss"

	// UnknownIssuer is the sentinel issuer value used when neither the identity
	// nor the access token carries an issuer.
	UnknownIssuer = "unknown"

	// DefaultClaimIssuer is the issuer recorded on claims that were not
	// vouched for by a token issuer.
	DefaultClaimIssuer = "LOCAL AUTHORITY"

	// DefaultRoleClaimType is the claim type used for roles unless configured.
	DefaultRoleClaimType = "roles"

	// DefaultNameClaimType is the claim type used for the display name unless configured.
	DefaultNameClaimType = "name"
)

// Claim is a typed name/value fact attached to an identity.
type Claim struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Issuer string `json:"issuer,omitempty"`
}

// NewClaim returns a claim with no issuer.
func NewClaim(claimType, value string) Claim {
	return Claim{Type: claimType, Value: value}
}

// ClaimsIdentity is a mutable, ordered set of claims for one sign-in event.
// It is owned by a single in-flight sign-in and is not safe for concurrent use.
type ClaimsIdentity struct {
	AuthenticationType string
	NameClaimType      string
	RoleClaimType      string

	claims []Claim
}

// NewClaimsIdentity creates an identity. Empty claim types fall back to
// DefaultNameClaimType and DefaultRoleClaimType.
func NewClaimsIdentity(authenticationType, nameClaimType, roleClaimType string, claims ...Claim) *ClaimsIdentity {
	if nameClaimType == "" {
		nameClaimType = DefaultNameClaimType
	}
	if roleClaimType == "" {
		roleClaimType = DefaultRoleClaimType
	}
	return &ClaimsIdentity{
		AuthenticationType: authenticationType,
		NameClaimType:      nameClaimType,
		RoleClaimType:      roleClaimType,
		claims:             append([]Claim(nil), claims...),
	}
}

// IsAuthenticated reports whether the identity was produced by an
// authentication scheme.
func (i *ClaimsIdentity) IsAuthenticated() bool {
	return i != nil && i.AuthenticationType != ""
}

// Claims returns a copy of the claims in insertion order.
func (i *ClaimsIdentity) Claims() []Claim {
	if i == nil {
		return nil
	}
	return slices.Clone(i.claims)
}

// Len returns the number of claims.
func (i *ClaimsIdentity) Len() int {
	if i == nil {
		return 0
	}
	return len(i.claims)
}

// AddClaim appends a claim. Duplicates are kept.
func (i *ClaimsIdentity) AddClaim(c Claim) {
	i.claims = append(i.claims, c)
}

// AddClaims appends claims in order.
func (i *ClaimsIdentity) AddClaims(claims ...Claim) {
	i.claims = append(i.claims, claims...)
}

// RemoveClaim removes the first claim with the same type and value as c and
// reports whether one was found. The claim issuer is not compared.
func (i *ClaimsIdentity) RemoveClaim(c Claim) bool {
	if i == nil {
		return false
	}
	idx := slices.IndexFunc(i.claims, func(existing Claim) bool {
		return existing.Type == c.Type && existing.Value == c.Value
	})
	if idx < 0 {
		return false
	}
	i.claims = slices.Delete(i.claims, idx, idx+1)
	return true
}

// FindFirst returns the first claim of the given type.
func (i *ClaimsIdentity) FindFirst(claimType string) (Claim, bool) {
	if i == nil {
		return Claim{}, false
	}
	return findFirst(i.claims, claimType)
}

// FindAll returns every claim of the given type in insertion order.
func (i *ClaimsIdentity) FindAll(claimType string) []Claim {
	if i == nil {
		return nil
	}
	var out []Claim
	for _, c := range i.claims {
		if c.Type == claimType {
			out = append(out, c)
		}
	}
	return out
}

// HasClaim reports whether a claim with the exact type and value exists.
func (i *ClaimsIdentity) HasClaim(claimType, value string) bool {
	if i == nil {
		return false
	}
	return slices.ContainsFunc(i.claims, func(c Claim) bool {
		return c.Type == claimType && c.Value == value
	})
}

// Name returns the value of the first name claim.
func (i *ClaimsIdentity) Name() string {
	c, _ := i.FindFirst(i.nameClaimType())
	return c.Value
}

// Roles returns every role value, duplicates included.
func (i *ClaimsIdentity) Roles() []string {
	var roles []string
	for _, c := range i.FindAll(i.roleClaimType()) {
		roles = append(roles, c.Value)
	}
	return roles
}

// IsInRole reports whether a role claim with the given value exists.
func (i *ClaimsIdentity) IsInRole(role string) bool {
	return i.HasClaim(i.roleClaimType(), role)
}

func (i *ClaimsIdentity) roleClaimType() string {
	if i == nil || i.RoleClaimType == "" {
		return DefaultRoleClaimType
	}
	return i.RoleClaimType
}

func (i *ClaimsIdentity) nameClaimType() string {
	if i == nil || i.NameClaimType == "" {
		return DefaultNameClaimType
	}
	return i.NameClaimType
}

func findFirst(claims []Claim, claimType string) (Claim, bool) {
	for _, c := range claims {
		if c.Type == claimType {
			return c, true
		}
	}
	return Claim{}, false
}
