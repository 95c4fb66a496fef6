package oidc

// Principal is the materialized result of a sign-in.
type Principal struct {
	identity *ClaimsIdentity
}

// NewPrincipal wraps an identity.
func NewPrincipal(identity *ClaimsIdentity) *Principal {
	return &Principal{identity: identity}
}

func (p *Principal) Identity() *ClaimsIdentity {
	if p == nil {
		return nil
	}
	return p.identity
}

func (p *Principal) IsAuthenticated() bool {
	return p.Identity().IsAuthenticated()
}

func (p *Principal) Name() string {
	if p.Identity() == nil {
		return ""
	}
	return p.identity.Name()
}

func (p *Principal) IsInRole(role string) bool {
	return p.Identity().IsInRole(role)
}

func (p *Principal) FindFirst(claimType string) (Claim, bool) {
	return p.Identity().FindFirst(claimType)
}
