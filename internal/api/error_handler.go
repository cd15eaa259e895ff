package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error             string   `json:"error"`
	Details           []string `json:"details,omitempty"`
	AttemptsRemaining *int     `json:"attemptsRemaining,omitempty"`
	RetryAfter        int      `json:"retryAfter,omitempty"`
	LockoutMinutes    int      `json:"lockoutMinutes,omitempty"`
}

// NewHTTPErrorHandler maps domain errors onto status codes with a Spanish
// message. Anything unrecognised is logged and rendered as a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if body.RetryAfter > 0 {
			c.Response().Header().Set("Retry-After", strconv.Itoa(body.RetryAfter))
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var (
		ve *domain.ValidationError
		rl *domain.RateLimitError
		lo *domain.LockoutError
		cm *domain.CodeMismatchError
		ce *domain.CredentialsError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, errorResponse{Error: ve.Error(), Details: ve.Messages}
	case errors.As(err, &rl):
		msg := rl.Message
		if msg == "" {
			msg = fmt.Sprintf("Demasiadas solicitudes. Inténtalo de nuevo en %d segundos", rl.RetryAfter)
		}
		return http.StatusTooManyRequests, errorResponse{Error: msg, RetryAfter: rl.RetryAfter}
	case errors.As(err, &lo):
		return http.StatusLocked, errorResponse{
			Error:          fmt.Sprintf("Bloqueado temporalmente por demasiados intentos. Inténtalo de nuevo en %d minutos", lo.Minutes),
			LockoutMinutes: lo.Minutes,
		}
	case errors.As(err, &cm):
		return http.StatusBadRequest, errorResponse{Error: "Código incorrecto", AttemptsRemaining: &cm.AttemptsRemaining}
	case errors.As(err, &ce):
		return http.StatusUnauthorized, errorResponse{Error: "Credenciales inválidas", AttemptsRemaining: &ce.AttemptsRemaining}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Credenciales inválidas"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "No autenticado"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "No tienes permiso para esta acción"}
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, errorResponse{Error: "Reserva no encontrada"}
	case errors.Is(err, domain.ErrContactNotFound):
		return http.StatusNotFound, errorResponse{Error: "Mensaje no encontrado"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "Usuario no encontrado"}
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Error: "ID no válido"}
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, errorResponse{Error: "Rol no válido"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, errorResponse{Error: "Este email ya está registrado"}
	case errors.Is(err, domain.ErrCaptchaFailed):
		return http.StatusBadRequest, errorResponse{Error: "Verificación de seguridad fallida. Inténtalo de nuevo"}
	case errors.Is(err, domain.ErrCodeExpired):
		return http.StatusBadRequest, errorResponse{Error: "El código ha expirado. Solicita uno nuevo"}
	case errors.Is(err, domain.ErrPhoneNotVerified):
		return http.StatusBadRequest, errorResponse{Error: "Debes verificar tu teléfono antes de continuar"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"}
}
