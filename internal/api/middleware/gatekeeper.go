package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
)

const (
	loginPath = "/login"
	homePath  = "/"
)

// Gatekeeper runs the access decision engine on every request and enacts the
// outcome: continue, or redirect with the cookie clear in the same response.
// On Allow the verified identity id and role are injected into the echo
// context for downstream handlers.
// Paths under a skip prefix (health probes, metrics scrape, swagger UI)
// bypass the gate entirely.
func Gatekeeper(engine ports.AccessEngine, secret string, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skip {
				if path == p || strings.HasPrefix(path, p+"/") {
					return next(c)
				}
			}

			claim := ClaimFromRequest(c, secret)
			decision := engine.Decide(c.Request().Context(), path, claim)

			switch decision.Action {
			case domain.RedirectLogin:
				if decision.ClearCookies {
					ClearSessionCookies(c)
				}
				return c.Redirect(http.StatusFound, loginPath)
			case domain.RedirectHome:
				return c.Redirect(http.StatusFound, homePath)
			}

			// Only the identity id is injected; the role cookie is a claim
			// for display purposes and authorization never reads it.
			c.Set("identity_id", claim.IdentityID)
			return next(c)
		}
	}
}
