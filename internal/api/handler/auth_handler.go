package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/venueops/backoffice/internal/api/middleware"
	"github.com/venueops/backoffice/internal/core/domain"
	"github.com/venueops/backoffice/internal/core/ports"
)

const sessionTTL = 24 * time.Hour

type AuthHandler struct {
	authService ports.AuthService
	secret      string
}

func NewAuthHandler(authService ports.AuthService, secret string) *AuthHandler {
	return &AuthHandler{authService: authService, secret: secret}
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string                 `json:"token"`
	Identity *domain.IdentityRecord `json:"identity"`
}

// Login authenticates a credential submission and issues the session cookies
// plus a bearer token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, verdict, err := h.authService.Login(c.Request().Context(), c.RealIP(), req.Phone, req.Password)
	if err != nil {
		switch err {
		case domain.ErrThrottled:
			// Actionable and non-sensitive: tell the caller how long to wait.
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": fmt.Sprintf("too many attempts, try again in %d minutes", verdict.RetryAfterMinutes),
			})
		case domain.ErrIPBlocked:
			return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
		case domain.ErrInvalidCredentials:
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	claim := domain.SessionClaim{
		IdentityID:    result.Identity.ID,
		SessionMarker: result.Marker,
		ClaimedRole:   result.Identity.Role,
	}
	token, err := middleware.SignClaim(h.secret, claim, sessionTTL)
	if err != nil {
		return err
	}

	middleware.SetSessionCookies(c, claim, sessionTTL)
	return c.JSON(http.StatusOK, loginResponse{Token: token, Identity: result.Identity})
}

// Logout kills the active session marker, clears the cookies, and sends the
// caller back to the login page in one response.
//
// @Summary      Log out
// @Tags         auth
// @Success      302
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identityID, _ := c.Get("identity_id").(string)
	if err := h.authService.Logout(c.Request().Context(), identityID); err != nil {
		return err
	}
	middleware.ClearSessionCookies(c)
	return c.Redirect(http.StatusFound, "/login")
}
