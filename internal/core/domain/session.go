package domain

// SessionClaim is the identity a request claims to have, reconstructed per
// request from cookies or a bearer token. It is never persisted — validation
// compares it against the profile store on every protected request.
type SessionClaim struct {
	IdentityID    string
	SessionMarker string
	ClaimedRole   string
}

// Empty reports whether no claim was presented at all. An empty claim is
// "no session", not an error.
func (c SessionClaim) Empty() bool {
	return c.IdentityID == "" && c.SessionMarker == "" && c.ClaimedRole == ""
}

// SessionInfo is the outcome of validating a claim. When Valid is false the
// other fields are zero; callers never learn why validation failed.
type SessionInfo struct {
	Valid          bool
	Role           string
	AllowedModules map[ModuleKey]struct{}
}
