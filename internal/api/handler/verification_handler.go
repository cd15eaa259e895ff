package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

type VerificationHandler struct {
	service ports.VerificationService
}

func NewVerificationHandler(service ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

type sendCodeRequest struct {
	Phone        string `json:"phone" validate:"required,max=20"`
	CaptchaToken string `json:"captchaToken" validate:"max=4096"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
	Code  string `json:"code" validate:"required"`
}

type verifyCodeResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// SendCode texts a six-digit code to the phone. Delivery happens in the
// background; the response never reveals whether the SMS went out.
//
// @Summary      Send a phone verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendCodeRequest  true  "Phone and captcha token"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/send-code [post]
func (h *VerificationHandler) SendCode(c echo.Context) error {
	var req sendCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.service.SendCode(c.Request().Context(), ports.SendCodeInput{
		Phone:        req.Phone,
		CaptchaToken: req.CaptchaToken,
		RemoteIP:     c.RealIP(),
	})
	if err != nil {
		return err
	}
	metrics.VerificationCodesTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Código enviado"})
}

// VerifyCode checks a code for the phone.
//
// @Summary      Verify a phone code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Phone and code"
// @Success      200   {object}  verifyCodeResponse
// @Failure      400   {object}  map[string]string
// @Failure      423   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/verify-code [post]
func (h *VerificationHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.VerifyCode(c.Request().Context(), req.Phone, req.Code); err != nil {
		metrics.VerificationCodesTotal.WithLabelValues(verifyOutcome(err)).Inc()
		return err
	}
	metrics.VerificationCodesTotal.WithLabelValues("verified").Inc()
	return c.JSON(http.StatusOK, verifyCodeResponse{Success: true, Verified: true, Message: "Teléfono verificado"})
}

func verifyOutcome(err error) string {
	var lo *domain.LockoutError
	var cm *domain.CodeMismatchError
	switch {
	case errors.As(err, &lo):
		return "locked"
	case errors.As(err, &cm):
		return "mismatch"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	default:
		return "invalid"
	}
}
