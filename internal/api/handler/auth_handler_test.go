package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/venueops/backoffice/internal/api/middleware"
	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
)

type stubAuthService struct {
	result  *ports.LoginResult
	verdict domain.ThrottleVerdict
	err     error
	logouts []string
}

func (s *stubAuthService) Login(_ context.Context, _, _, _ string) (*ports.LoginResult, domain.ThrottleVerdict, error) {
	return s.result, s.verdict, s.err
}

func (s *stubAuthService) Logout(_ context.Context, identityID string) error {
	s.logouts = append(s.logouts, identityID)
	return nil
}

func postLogin(t *testing.T, svc ports.AuthService, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewAuthHandler(svc, "secret")
	if err := h.Login(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLogin_Success(t *testing.T) {
	svc := &stubAuthService{
		result: &ports.LoginResult{
			Identity: &domain.IdentityRecord{ID: "U1", Role: domain.RoleStaff},
			Marker:   "m1",
		},
	}

	rec := postLogin(t, svc, `{"phone":"0811111111","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected bearer token in response")
	}

	cookies := map[string]string{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck.Value
	}
	if cookies[middleware.CookieIdentity] != "U1" || cookies[middleware.CookieMarker] != "m1" || cookies[middleware.CookieRole] != domain.RoleStaff {
		t.Fatalf("session cookies = %v", cookies)
	}
}

func TestLogin_ThrottledMessageCarriesMinutes(t *testing.T) {
	svc := &stubAuthService{
		verdict: domain.ThrottleVerdict{Allowed: false, RetryAfterMinutes: 30},
		err:     domain.ErrThrottled,
	}

	rec := postLogin(t, svc, `{"phone":"0811111111","password":"s3cret"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "try again in 30 minutes") {
		t.Fatalf("body = %s, want literal minutes", rec.Body.String())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}

	rec := postLogin(t, svc, `{"phone":"0811111111","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Result().Cookies(); len(got) != 0 {
		t.Fatalf("failed login set cookies: %v", got)
	}
}

func TestLogin_BlockedIP(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrIPBlocked}

	rec := postLogin(t, svc, `{"phone":"0811111111","password":"s3cret"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	rec := postLogin(t, &stubAuthService{}, `{"phone":"0811111111"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogout_ClearsAndRedirects(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity_id", "U1")

	svc := &stubAuthService{}
	h := NewAuthHandler(svc, "secret")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("location = %q, want /login", loc)
	}
	if len(svc.logouts) != 1 || svc.logouts[0] != "U1" {
		t.Fatalf("logouts = %v", svc.logouts)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared", ck.Name)
		}
	}
}
