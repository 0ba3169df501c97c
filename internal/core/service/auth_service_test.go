package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/venueops/backoffice/internal/core/domain"
)

type stubIssuer struct {
	marker  string
	err     error
	rotated []string
	cleared []string
}

func (s *stubIssuer) Rotate(_ context.Context, id string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.rotated = append(s.rotated, id)
	return s.marker, nil
}

func (s *stubIssuer) Clear(_ context.Context, id string) error {
	s.cleared = append(s.cleared, id)
	return s.err
}

type stubIPChecker struct{ blocked bool }

func (s *stubIPChecker) IsBlocked(_ context.Context, _ string) bool { return s.blocked }

func loginFixture(t *testing.T, blocked bool) (*AuthService, *stubIssuer, *MemoryLimiter) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store := &stubProfileStore{records: map[string]*domain.IdentityRecord{
		"U1": {
			ID:           "U1",
			Phone:        "0811111111",
			PasswordHash: string(hash),
			IsApproved:   true,
			Role:         domain.RoleStaff,
		},
	}}
	issuer := &stubIssuer{marker: "fresh-marker"}
	limiter := NewMemoryLimiter(LimiterConfig{}, zerolog.Nop())
	svc := NewAuthService(store, issuer, limiter, &stubIPChecker{blocked: blocked}, zerolog.Nop())
	return svc, issuer, limiter
}

func TestAuthService_LoginSuccess(t *testing.T) {
	svc, issuer, _ := loginFixture(t, false)

	result, _, err := svc.Login(context.Background(), "1.2.3.4", "0811111111", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Marker != "fresh-marker" {
		t.Fatalf("marker = %q, want rotated marker", result.Marker)
	}
	if len(issuer.rotated) != 1 || issuer.rotated[0] != "U1" {
		t.Fatalf("marker not rotated for U1: %v", issuer.rotated)
	}
}

func TestAuthService_WrongPasswordIsUniform(t *testing.T) {
	svc, _, _ := loginFixture(t, false)

	_, _, err := svc.Login(context.Background(), "1.2.3.4", "0811111111", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	// Unknown account answers identically to a wrong password.
	_, _, err = svc.Login(context.Background(), "1.2.3.4", "0899999999", "s3cret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials for unknown phone", err)
	}
}

func TestAuthService_ThrottleGatesCredentialCheck(t *testing.T) {
	svc, _, _ := loginFixture(t, false)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, _ = svc.Login(ctx, "1.2.3.4", "0811111111", "wrong")
	}

	// Sixth attempt is throttled even with the correct password: the limiter
	// runs before the credential check.
	_, verdict, err := svc.Login(ctx, "1.2.3.4", "0811111111", "s3cret")
	if !errors.Is(err, domain.ErrThrottled) {
		t.Fatalf("err = %v, want ErrThrottled", err)
	}
	if verdict.RetryAfterMinutes != 30 {
		t.Fatalf("retryAfterMinutes = %d, want 30", verdict.RetryAfterMinutes)
	}
}

func TestAuthService_SuccessResetsLimiter(t *testing.T) {
	svc, _, limiter := loginFixture(t, false)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, _ = svc.Login(ctx, "1.2.3.4", "0811111111", "wrong")
	}
	if _, _, err := svc.Login(ctx, "1.2.3.4", "0811111111", "s3cret"); err != nil {
		t.Fatalf("fifth attempt with correct password failed: %v", err)
	}

	// The key is fresh again after the successful login.
	v := limiter.Check(ctx, domain.ThrottleKey("1.2.3.4", "0811111111"))
	if !v.Allowed || v.Remaining != 4 {
		t.Fatalf("post-success check = %+v, want fresh key", v)
	}
}

func TestAuthService_BlockedIPRejected(t *testing.T) {
	svc, issuer, _ := loginFixture(t, true)

	_, _, err := svc.Login(context.Background(), "6.6.6.6", "0811111111", "s3cret")
	if !errors.Is(err, domain.ErrIPBlocked) {
		t.Fatalf("err = %v, want ErrIPBlocked", err)
	}
	if len(issuer.rotated) != 0 {
		t.Fatalf("marker must not rotate for a denylisted address")
	}
}

func TestAuthService_UnapprovedIdentityIsUniform(t *testing.T) {
	svc, _, _ := loginFixture(t, false)
	svc.profiles.(*stubProfileStore).records["U1"].IsApproved = false

	_, _, err := svc.Login(context.Background(), "1.2.3.4", "0811111111", "s3cret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials for unapproved identity", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, issuer, _ := loginFixture(t, false)

	if err := svc.Logout(context.Background(), "U1"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(issuer.cleared) != 1 || issuer.cleared[0] != "U1" {
		t.Fatalf("marker not cleared: %v", issuer.cleared)
	}

	// Logging out with no session is a no-op, not an error.
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("anonymous logout errored: %v", err)
	}
}
