// Package metrics exposes Prometheus collectors fed by a principal
// post-processor.
package metrics

import (
	"context"

	oidc "github.com/goliatone/go-auth-oidc"
	"github.com/prometheus/client_golang/prometheus"
)

// OtherRole is the role label used for roles outside the tracked set.
const OtherRole = "other"

// PrincipalCollector counts materialized principals and their roles. It is
// registered as a post-processor and only observes the principal.
//
// Issuer labels come from the token and are bounded by the identity
// providers the application trusts. Role labels are bounded with
// TrackRoles; without it every distinct role value becomes a series.
type PrincipalCollector struct {
	principals *prometheus.CounterVec
	roles      *prometheus.CounterVec
	claims     prometheus.Histogram
	tracked    map[string]struct{}
}

var _ oidc.PostProcessor = (*PrincipalCollector)(nil)

// NewPrincipalCollector builds the collectors under namespace (may be empty).
func NewPrincipalCollector(namespace string) *PrincipalCollector {
	return &PrincipalCollector{
		principals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oidc_principals_total",
			Help:      "Principals created, by issuer and authentication state",
		}, []string{"issuer", "authenticated"}),
		roles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oidc_principal_roles_total",
			Help:      "Role claims carried by created principals",
		}, []string{"role"}),
		claims: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oidc_principal_claims",
			Help:      "Number of claims on a created principal",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// TrackRoles limits role labels to roles; any other role is counted under
// OtherRole.
func (c *PrincipalCollector) TrackRoles(roles ...string) *PrincipalCollector {
	if c.tracked == nil {
		c.tracked = make(map[string]struct{}, len(roles))
	}
	for _, role := range roles {
		c.tracked[role] = struct{}{}
	}
	return c
}

func (c *PrincipalCollector) roleLabel(role string) string {
	if c.tracked == nil {
		return role
	}
	if _, ok := c.tracked[role]; ok {
		return role
	}
	return OtherRole
}

// Register adds the collectors to reg (default registerer when nil).
// Collectors that are already registered are ignored.
func (c *PrincipalCollector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, collector := range []prometheus.Collector{c.principals, c.roles, c.claims} {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ProcessPrincipal satisfies oidc.PostProcessor.
func (c *PrincipalCollector) ProcessPrincipal(_ context.Context, principal *oidc.Principal) error {
	identity := principal.Identity()

	issuer := oidc.UnknownIssuer
	if iss, ok := identity.FindFirst(oidc.ClaimTypeIssuer); ok && iss.Value != "" {
		issuer = iss.Value
	}

	authenticated := "false"
	if principal.IsAuthenticated() {
		authenticated = "true"
	}

	c.principals.WithLabelValues(issuer, authenticated).Inc()
	for _, role := range identity.Roles() {
		c.roles.WithLabelValues(c.roleLabel(role)).Inc()
	}
	c.claims.Observe(float64(identity.Len()))
	return nil
}
