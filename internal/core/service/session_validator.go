package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
	"github.com/venueops/backoffice/internal/metrics"
)

// Validator confirms session claims against the profile store.
//
// Every failure mode — missing claim, unreachable store, unknown identity,
// unapproved account, superseded marker — collapses to the same invalid
// result. The caller must not be able to tell whether an account exists or is
// merely logged in elsewhere; the distinction lives only in server-side logs.
// Unlike the IP checker this component fails closed: an unverifiable session
// is no session.
type Validator struct {
	profiles ports.ProfileStore
	timeout  time.Duration
	log      zerolog.Logger
}

func NewValidator(profiles ports.ProfileStore, timeout time.Duration, log zerolog.Logger) *Validator {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Validator{profiles: profiles, timeout: timeout, log: log}
}

var invalidSession = domain.SessionInfo{}

// Validate checks the claim and, when valid, returns the identity's role and
// effective module grants.
func (v *Validator) Validate(ctx context.Context, claim domain.SessionClaim) domain.SessionInfo {
	if claim.IdentityID == "" {
		// No session, not an error.
		return v.invalid("", "no identity in claim")
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	record, err := v.profiles.Get(ctx, claim.IdentityID)
	if err != nil {
		v.log.Error().Err(err).Str("identity_id", claim.IdentityID).Msg("profile lookup failed, failing closed")
		return v.invalid(claim.IdentityID, "")
	}

	if !record.IsApproved {
		return v.invalid(claim.IdentityID, "identity not approved")
	}

	// Single-active-session rule: the stored marker names the one session
	// that is currently valid. A mismatch means the claim was superseded by
	// a later login; an empty stored marker cannot have produced any claim.
	if record.ActiveSessionMarker != claim.SessionMarker || record.ActiveSessionMarker == "" {
		return v.invalid(claim.IdentityID, "session marker superseded")
	}

	metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
	return domain.SessionInfo{
		Valid:          true,
		Role:           record.Role,
		AllowedModules: record.ModuleSet(),
	}
}

func (v *Validator) invalid(identityID, reason string) domain.SessionInfo {
	if reason != "" {
		v.log.Debug().Str("identity_id", identityID).Str("reason", reason).Msg("session claim rejected")
	}
	metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
	return invalidSession
}
