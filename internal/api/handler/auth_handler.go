package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
	baseURL     string
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig, baseURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type userResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type loginResponse struct {
	Success     bool         `json:"success"`
	RedirectURL string       `json:"redirectUrl"`
	User        userResponse `json:"user"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	c.SetCookie(h.cookie.session(res.Cookie))
	return c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		RedirectURL: h.baseURL + res.RedirectPath,
		User:        toUserResponse(res.User),
	})
}

// Logout deletes the session and clears the cookie. It succeeds without a cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.cookie.Name); err == nil && ck.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), ck.Value); err != nil {
			return err
		}
	}
	c.SetCookie(h.cookie.cleared())
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Sesión cerrada"})
}

// Me returns the user behind the session cookie.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(p.User)})
}

func loginOutcome(err error) string {
	var lo *domain.LockoutError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &lo):
		return "locked"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}
