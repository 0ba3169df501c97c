package ports

import (
	"context"

	"github.com/venueops/backoffice/internal/core/domain"
)

// ProfileStore is the read side of the external profile/session store. The
// gatekeeping pipeline only ever reads identity records; it never mutates them.
type ProfileStore interface {
	Get(ctx context.Context, identityID string) (*domain.IdentityRecord, error)
	FindByPhone(ctx context.Context, phone string) (*domain.IdentityRecord, error)
}

// SessionIssuer rotates the single active session marker for an identity.
// Rotation on login is what invalidates every earlier session; there is no
// revocation list. Clear removes the marker so no presented session validates.
type SessionIssuer interface {
	Rotate(ctx context.Context, identityID string) (marker string, err error)
	Clear(ctx context.Context, identityID string) error
}
