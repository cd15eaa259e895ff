package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/middleware"
	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// currentPrincipal returns the principal injected by RequireSession or the
// Gatekeeper. Its absence means the route was wired without a guard.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

// bindAndValidate decodes the JSON body and runs the struct rules.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Solicitud no válida")
	}
	return c.Validate(req)
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
