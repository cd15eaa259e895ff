package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// AdminHandler serves the admin panel data: dashboard stats, the customer
// list and the logged-in user's profile.
type AdminHandler struct {
	admin ports.AdminService
	auth  ports.AuthService
}

func NewAdminHandler(admin ports.AdminService, auth ports.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, auth: auth}
}

type statsResponse struct {
	Success bool                  `json:"success"`
	Stats   *ports.DashboardStats `json:"stats"`
}

type customersResponse struct {
	Success   bool                    `json:"success"`
	Customers []ports.CustomerSummary `json:"customers"`
}

type profileResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type updateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=500"`
	Email           *string `json:"email" validate:"omitempty,max=254"`
	CurrentPassword string  `json:"currentPassword" validate:"max=128"`
	NewPassword     string  `json:"newPassword" validate:"max=128"`
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	st, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{Success: true, Stats: st})
}

// Customers handles GET /api/admin/customers.
//
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Name or email fragment"
// @Success      200     {object}  customersResponse
// @Failure      400     {object}  map[string]string
// @Router       /api/admin/customers [get]
func (h *AdminHandler) Customers(c echo.Context) error {
	list, err := h.admin.Customers(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customersResponse{Success: true, Customers: list})
}

// Profile handles GET /api/admin/profile.
//
// @Summary      Current profile
// @Tags         admin
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/admin/profile [get]
func (h *AdminHandler) Profile(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, User: toUserResponse(p.User)})
}

// UpdateProfile handles PATCH /api/admin/profile.
//
// @Summary      Update name, email or password
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Profile changes"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/profile [patch]
func (h *AdminHandler) UpdateProfile(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.auth.UpdateProfile(c.Request().Context(), p.User.ID, ports.ProfileUpdate{
		Name:            req.Name,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Success: true, User: toUserResponse(u)})
}
