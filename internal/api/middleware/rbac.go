package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind RequireSession.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[p.Role()]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// StaffOnly admits ADMIN and STAFF.
func StaffOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin, domain.RoleStaff)
}

// AdminOnly admits ADMIN.
func AdminOnly() echo.MiddlewareFunc {
	return RBAC(domain.RoleAdmin)
}
