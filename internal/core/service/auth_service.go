package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
	"github.com/venueops/backoffice/internal/metrics"
)

// AuthService implements the authentication entry point. This is the only
// place the rate limiter is consulted — navigation never touches it — and the
// only write this subsystem performs against the profile store goes through
// the SessionIssuer's marker rotation.
type AuthService struct {
	profiles ports.ProfileStore
	issuer   ports.SessionIssuer
	limiter  ports.LoginLimiter
	ipcheck  ports.IPChecker
	log      zerolog.Logger
}

func NewAuthService(profiles ports.ProfileStore, issuer ports.SessionIssuer, limiter ports.LoginLimiter, ipcheck ports.IPChecker, log zerolog.Logger) *AuthService {
	return &AuthService{profiles: profiles, issuer: issuer, limiter: limiter, ipcheck: ipcheck, log: log}
}

// Login authenticates a credential submission. The limiter gates whether the
// credential check is even attempted; the returned verdict carries the wait
// minutes when throttled. Every credential failure surfaces as
// ErrInvalidCredentials so the response never reveals whether the account
// exists, is unapproved, or had the wrong password.
func (s *AuthService) Login(ctx context.Context, ip, phone, password string) (*ports.LoginResult, domain.ThrottleVerdict, error) {
	key := domain.ThrottleKey(ip, phone)

	verdict := s.limiter.Check(ctx, key)
	if !verdict.Allowed {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return nil, verdict, domain.ErrThrottled
	}

	if s.ipcheck.IsBlocked(ctx, ip) {
		s.log.Warn().Str("ip", ip).Msg("login rejected from denylisted address")
		metrics.LoginAttemptsTotal.WithLabelValues("ip_blocked").Inc()
		return nil, verdict, domain.ErrIPBlocked
	}

	record, err := s.profiles.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			s.log.Error().Err(err).Msg("profile lookup failed during login")
		}
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, verdict, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, verdict, domain.ErrInvalidCredentials
	}

	if !record.IsApproved {
		s.log.Debug().Str("identity_id", record.ID).Msg("login rejected for unapproved identity")
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, verdict, domain.ErrInvalidCredentials
	}

	s.limiter.Reset(ctx, key)

	// Rotating the marker is what kills every earlier session for this
	// identity; validation compares markers, there is no revocation list.
	marker, err := s.issuer.Rotate(ctx, record.ID)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", record.ID).Msg("session marker rotation failed")
		return nil, verdict, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Identity: record, Marker: marker}, verdict, nil
}

// Logout clears the stored marker so no outstanding cookie or token for this
// identity validates again.
func (s *AuthService) Logout(ctx context.Context, identityID string) error {
	if identityID == "" {
		return nil
	}
	if err := s.issuer.Clear(ctx, identityID); err != nil {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("session marker clear failed")
		return err
	}
	return nil
}
