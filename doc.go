// Package oidc enriches a signed-in user's identity with claims taken from
// the access token issued by an external identity provider.
//
// Enrichment:
//   - ClaimsMapper fetches the current token from an AccessTokenProvider,
//     decodes it with a TokenDecoder (JWTDecoder by default, no signature
//     check) and applies ReconcileIssuer and ProjectRoles to the identity.
//   - Enrichment is best-effort. An unavailable token or a decode failure is
//     logged once at error level and the identity is left untouched, so
//     sign-in is never blocked by the token round-trip.
//
// Issuer handling:
//   - An identity keeps its issuer unless the token presents a different one
//     (compared ignoring case). With no issuer anywhere the "unknown" sentinel
//     is added, so an enriched identity always carries exactly one "iss".
//
// Roles:
//   - Token claims named like the configured role claim type are appended to
//     the identity. Roles are never deduplicated or removed.
//
// Extension points:
//   - PrincipalFactory seeds the identity from the remote Account, runs the
//     mapper, then ClaimsExtender and PostProcessor values in registration
//     order. Their errors are logged at warn level and do not stop sign-in.
package oidc
