package ports

import (
	"context"

	"github.com/venueops/backoffice/internal/core/domain"
)

// IPChecker answers whether an address is currently denylisted. The contract
// is fail-open: an unreachable rule store reads as "not blocked".
type IPChecker interface {
	IsBlocked(ctx context.Context, ip string) bool
}

// LoginLimiter gates the authentication entry point per (IP, identifier) key.
// Check records an attempt and answers; Reset is called after a successful
// authentication. Implementations must serialize concurrent attempts on the
// same key.
type LoginLimiter interface {
	Check(ctx context.Context, key string) domain.ThrottleVerdict
	Reset(ctx context.Context, key string)
}

// SessionValidator confirms a claim against the profile store. Fail-closed:
// anything unverifiable comes back invalid, with no reason exposed.
type SessionValidator interface {
	Validate(ctx context.Context, claim domain.SessionClaim) domain.SessionInfo
}

// AccessEngine produces the per-request gate decision.
type AccessEngine interface {
	Decide(ctx context.Context, path string, claim domain.SessionClaim) domain.Decision
}
