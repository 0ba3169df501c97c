package ports

import (
	"context"

	"github.com/venueops/backoffice/internal/core/domain"
)

// LoginResult is what a successful authentication hands back to the HTTP
// layer: the identity plus the freshly rotated session marker to put into
// cookies and the bearer token.
type LoginResult struct {
	Identity *domain.IdentityRecord
	Marker   string
}

// AuthService is the authentication entry point: throttle, denylist check,
// credential verification, marker rotation.
type AuthService interface {
	Login(ctx context.Context, ip, phone, password string) (*LoginResult, domain.ThrottleVerdict, error)
	Logout(ctx context.Context, identityID string) error
}
