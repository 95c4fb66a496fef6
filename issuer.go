package oidc

// IssuerOutcome records what ReconcileIssuer did to the identity.
type IssuerOutcome int

const (
	// IssuerKept means the existing issuer claim was left untouched.
	IssuerKept IssuerOutcome = iota
	// IssuerReplaced means the existing issuer was swapped for the token issuer.
	IssuerReplaced
	// IssuerAdded means the token issuer was added to an identity without one.
	IssuerAdded
	// IssuerDefaulted means the UnknownIssuer sentinel was added.
	IssuerDefaulted
)

func (o IssuerOutcome) String() string {
	switch o {
	case IssuerKept:
		return "kept"
	case IssuerReplaced:
		return "replaced"
	case IssuerAdded:
		return "added"
	case IssuerDefaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// ReconcileIssuer merges the first issuer claim of tokenClaims into identity.
// An established issuer is only replaced by a token issuer whose value
// differs ignoring case; when neither side has one the UnknownIssuer
// sentinel is added, so the identity always ends with an issuer claim.
func ReconcileIssuer(identity *ClaimsIdentity, tokenClaims []Claim) IssuerOutcome {
	tokenIssuer, hasTokenIssuer := findFirst(tokenClaims, ClaimTypeIssuer)
	existing, hasExisting := identity.FindFirst(ClaimTypeIssuer)

	if hasExisting {
		if hasTokenIssuer && !equalFoldASCII(existing.Value, tokenIssuer.Value) {
			identity.RemoveClaim(existing)
			identity.AddClaim(tokenIssuer)
			return IssuerReplaced
		}
		return IssuerKept
	}

	if hasTokenIssuer {
		identity.AddClaim(tokenIssuer)
		return IssuerAdded
	}

	identity.AddClaim(NewClaim(ClaimTypeIssuer, UnknownIssuer))
	return IssuerDefaulted
}

// equalFoldASCII compares ignoring case for ASCII letters only; other runes
// must match byte for byte.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
