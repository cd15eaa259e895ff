package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/api/middleware"
	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// PageHandler answers page routes with the bootstrap payload the front-end
// renders from. Internal pages are reached only through the Gatekeeper
// rewrite and re-check the namespace themselves.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type pageResponse struct {
	Page       string        `json:"page"`
	User       *userResponse `json:"user,omitempty"`
	AccessHash string        `json:"accessHash,omitempty"`
	BasePath   string        `json:"basePath,omitempty"`
}

// Public serves a page that needs no session.
func (h *PageHandler) Public(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pageResponse{Page: name})
	}
}

// Internal serves a page of the given namespace. A request that did not come
// through the Gatekeeper, or whose role belongs elsewhere, is redirected.
func (h *PageHandler) Internal(name string, ns domain.Namespace) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.PrincipalFrom(c)
		hash := middleware.AccessHashFrom(c)
		if !ok || hash == "" {
			return c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath)
		}
		own, ok := p.Role().Namespace()
		if !ok {
			return c.Redirect(http.StatusTemporaryRedirect, middleware.LoginPath)
		}
		if own != ns {
			return c.Redirect(http.StatusTemporaryRedirect, "/"+hash+own.HomePath())
		}

		u := toUserResponse(p.User)
		return c.JSON(http.StatusOK, pageResponse{
			Page:       name,
			User:       &u,
			AccessHash: hash,
			BasePath:   "/" + hash,
		})
	}
}
