package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type createContactRequest struct {
	Name    string `json:"name" validate:"max=500"`
	Email   string `json:"email" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
	Service string `json:"service" validate:"max=100"`
	Message string `json:"message" validate:"max=10000"`
}

type updateContactRequest struct {
	Status string `json:"status" validate:"required"`
}

type contactResponse struct {
	Success bool            `json:"success"`
	Contact *domain.Contact `json:"contact"`
}

type contactListResponse struct {
	Success  bool              `json:"success"`
	Contacts []*domain.Contact `json:"contacts"`
}

// Create handles POST /api/contacts.
//
// @Summary      Submit the contact form
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        body  body      createContactRequest  true  "Contact message"
// @Success      201   {object}  contactResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c echo.Context) error {
	var req createContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ct, err := h.service.Create(c.Request().Context(), ports.CreateContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	metrics.ContactsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, contactResponse{Success: true, Contact: ct})
}

// List handles GET /api/contacts.
//
// @Summary      List contact messages
// @Tags         contacts
// @Produce      json
// @Param        status  query     string  false  "NEW, READ, REPLIED, ARCHIVED or ALL"
// @Success      200     {object}  contactListResponse
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactListResponse{Success: true, Contacts: list})
}

// Get handles GET /api/contacts/:id. Viewing a NEW message marks it READ.
//
// @Summary      Get a contact message
// @Tags         contacts
// @Produce      json
// @Param        id   path      string  true  "Contact id"
// @Success      200  {object}  contactResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	ct, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactResponse{Success: true, Contact: ct})
}

// Update handles PATCH /api/contacts/:id.
//
// @Summary      Change a contact message status
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Contact id"
// @Param        body  body      updateContactRequest  true  "New status"
// @Success      200   {object}  contactResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/contacts/{id} [patch]
func (h *ContactHandler) Update(c echo.Context) error {
	var req updateContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ct, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contactResponse{Success: true, Contact: ct})
}

// Delete handles DELETE /api/contacts/:id.
//
// @Summary      Delete a contact message
// @Tags         contacts
// @Produce      json
// @Param        id   path      string  true  "Contact id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Mensaje eliminado"})
}
