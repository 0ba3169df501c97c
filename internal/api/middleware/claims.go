package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/venueops/backoffice/internal/core/domain"
)

// Session cookie names. A deployment detail, not a protocol guarantee, kept
// in one place so the set/clear/read paths can never drift apart.
const (
	CookieIdentity = "bo_uid"
	CookieMarker   = "bo_smk"
	CookieRole     = "bo_role"
)

// ClaimFromRequest reconstructs the presented session claim. Browser clients
// carry it in the three session cookies; API clients may instead present a
// bearer token carrying the same identity/marker/role triple. The claim is
// only ever a claim — validation against the profile store happens later, so
// a forged cookie or token body buys nothing the marker comparison does not
// verify.
func ClaimFromRequest(c echo.Context, secret string) domain.SessionClaim {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		if claim, ok := claimFromBearer(auth, secret); ok {
			return claim
		}
		// A malformed or mis-signed token reads as "no session".
		return domain.SessionClaim{}
	}

	var claim domain.SessionClaim
	if ck, err := c.Cookie(CookieIdentity); err == nil {
		claim.IdentityID = ck.Value
	}
	if ck, err := c.Cookie(CookieMarker); err == nil {
		claim.SessionMarker = ck.Value
	}
	if ck, err := c.Cookie(CookieRole); err == nil {
		claim.ClaimedRole = ck.Value
	}
	return claim
}

func claimFromBearer(header, secret string) (domain.SessionClaim, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.SessionClaim{}, false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.SessionClaim{}, false
	}

	sub, _ := claims["sub"].(string)
	marker, _ := claims["smk"].(string)
	role, _ := claims["role"].(string)
	return domain.SessionClaim{IdentityID: sub, SessionMarker: marker, ClaimedRole: role}, true
}

// SignClaim issues the bearer-token form of a session claim for API clients.
// The expiry is a coarse upper bound; real validity is governed by the stored
// session marker, which dies on the next login or logout.
func SignClaim(secret string, claim domain.SessionClaim, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  claim.IdentityID,
		"smk":  claim.SessionMarker,
		"role": claim.ClaimedRole,
		"exp":  time.Now().Add(ttl).Unix(),
	})
	return t.SignedString([]byte(secret))
}

// SetSessionCookies writes the three session cookies for a fresh login.
func SetSessionCookies(c echo.Context, claim domain.SessionClaim, ttl time.Duration) {
	for name, value := range map[string]string{
		CookieIdentity: claim.IdentityID,
		CookieMarker:   claim.SessionMarker,
		CookieRole:     claim.ClaimedRole,
	} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   int(ttl / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ClearSessionCookies expires all three session cookies. Callers pair this
// with a redirect in the same response so the clear is atomic with it.
func ClearSessionCookies(c echo.Context) {
	for _, name := range []string{CookieIdentity, CookieMarker, CookieRole} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
