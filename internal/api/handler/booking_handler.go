package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

// BookingHandler handles public booking submission and staff booking management.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// --- Request / Response types ---

// Field rules here only bound the payload; business validation with the
// full message list happens in the service.
type createBookingRequest struct {
	Services []string `json:"services" validate:"max=10,dive,max=50"`
	Date     string   `json:"date" validate:"max=40"`
	Time     string   `json:"time" validate:"max=20"`
	Name     string   `json:"name" validate:"max=500"`
	Email    string   `json:"email" validate:"max=500"`
	Phone    string   `json:"phone" validate:"max=50"`
	Address  string   `json:"address" validate:"max=2000"`
	Notes    string   `json:"notes" validate:"max=5000"`
}

type signupBookingRequest struct {
	createBookingRequest
	Password string `json:"password" validate:"required,max=128"`
}

type updateBookingRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
}

type bookingResponse struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking"`
}

type bookingListResponse struct {
	Success  bool              `json:"success"`
	Bookings []*domain.Booking `json:"bookings"`
}

type signupResponse struct {
	Success bool            `json:"success"`
	User    userResponse    `json:"user"`
	Booking *domain.Booking `json:"booking"`
	Message string          `json:"message"`
}

func (r createBookingRequest) toInput() ports.CreateBookingInput {
	return ports.CreateBookingInput{
		Services: r.Services,
		Date:     r.Date,
		Time:     r.Time,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Notes:    r.Notes,
	}
}

// Create handles POST /api/bookings.
//
// @Summary      Submit a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      createBookingRequest  true  "Booking"
// @Success      201   {object}  bookingResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.BookingsCreatedTotal.WithLabelValues("public").Inc()
	return c.JSON(http.StatusCreated, bookingResponse{Success: true, Booking: b})
}

// CreateWithSignup handles POST /api/bookings/with-signup.
//
// @Summary      Create a customer account with its first booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      signupBookingRequest  true  "Booking plus password"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/bookings/with-signup [post]
func (h *BookingHandler) CreateWithSignup(c echo.Context) error {
	var req signupBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.CreateWithSignup(c.Request().Context(), ports.SignupBookingInput{
		Booking:  req.createBookingRequest.toInput(),
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	metrics.BookingsCreatedTotal.WithLabelValues("signup").Inc()
	return c.JSON(http.StatusCreated, signupResponse{
		Success: true,
		User:    toUserResponse(res.User),
		Booking: res.Booking,
		Message: "Cuenta creada y reserva registrada",
	})
}

// List handles GET /api/bookings.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Param        status    query     string  false  "PENDING, CONFIRMED, COMPLETED, CANCELLED or ALL"
// @Param        dateFrom  query     string  false  "YYYY-MM-DD"
// @Param        dateTo    query     string  false  "YYYY-MM-DD"
// @Success      200       {object}  bookingListResponse
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Router       /api/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context(), ports.ListBookingsInput{
		Status:   c.QueryParam("status"),
		DateFrom: c.QueryParam("dateFrom"),
		DateTo:   c.QueryParam("dateTo"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingListResponse{Success: true, Bookings: list})
}

// Mine handles GET /api/bookings/my.
//
// @Summary      Bookings of the logged-in user
// @Tags         bookings
// @Produce      json
// @Success      200  {object}  bookingListResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/bookings/my [get]
func (h *BookingHandler) Mine(c echo.Context) error {
	p, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	list, err := h.service.ListForUser(c.Request().Context(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingListResponse{Success: true, Bookings: list})
}

// Get handles GET /api/bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResponse{Success: true, Booking: b})
}

// Update handles PATCH /api/bookings/:id.
//
// @Summary      Update booking status, notes, date or time
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Booking id"
// @Param        body  body      updateBookingRequest  true  "Fields to change"
// @Success      200   {object}  bookingResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/bookings/{id} [patch]
func (h *BookingHandler) Update(c echo.Context) error {
	var req updateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateBookingInput{
		Status: req.Status,
		Notes:  req.Notes,
		Date:   req.Date,
		Time:   req.Time,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingResponse{Success: true, Booking: b})
}

// Delete handles DELETE /api/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Reserva eliminada"})
}
