package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectRoles_IsAdditive(t *testing.T) {
	identity := NewClaimsIdentity("oidc", "", "roles",
		NewClaim("roles", "admin"),
		NewClaim("roles", "viewer"),
	)
	token := []Claim{
		NewClaim("roles", "admin"),
		NewClaim("sub", "123"),
		NewClaim("roles", "support"),
		NewClaim("Roles", "case-mismatch"),
	}

	added := ProjectRoles(identity, token)

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"admin", "viewer", "admin", "support"}, identity.Roles())
}

func TestProjectRoles_UsesConfiguredRoleClaimType(t *testing.T) {
	identity := NewClaimsIdentity("oidc", "", "groups")
	token := []Claim{
		NewClaim("roles", "admin"),
		NewClaim("groups", "ops"),
	}

	added := ProjectRoles(identity, token)

	assert.Equal(t, 1, added)
	assert.Equal(t, []pair{{"groups", "ops"}}, pairs(identity.Claims()))
}

func TestProjectRoles_RepeatedCallsOnlyGrow(t *testing.T) {
	identity := NewClaimsIdentity("oidc", "", "")
	token := []Claim{NewClaim("roles", "admin")}

	ProjectRoles(identity, token)
	ProjectRoles(identity, token)

	assert.Equal(t, []string{"admin", "admin"}, identity.Roles())
}

func TestProjectRoles_NoRolesInToken(t *testing.T) {
	identity := NewClaimsIdentity("oidc", "", "", NewClaim("roles", "admin"))

	added := ProjectRoles(identity, []Claim{NewClaim("iss", "https://idp.example")})

	assert.Equal(t, 0, added)
	assert.Equal(t, []string{"admin"}, identity.Roles())
}
