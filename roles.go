package oidc

// ProjectRoles copies every token claim whose type equals the identity's
// role claim type onto the identity and returns how many were added. It is
// additive: existing roles are neither deduplicated nor removed.
func ProjectRoles(identity *ClaimsIdentity, tokenClaims []Claim) int {
	roleType := identity.roleClaimType()
	added := 0
	for _, c := range tokenClaims {
		if c.Type != roleType {
			continue
		}
		identity.AddClaim(NewClaim(roleType, c.Value))
		added++
	}
	return added
}
