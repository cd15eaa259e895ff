package domain

import (
	"strings"
	"time"
)

// Role is the closed set of actor kinds. Every role-gated decision switches
// over all three values.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole accepts the canonical upper-case names, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleCustomer:
		return RoleCustomer, nil
	default:
		return "", ErrInvalidRole
	}
}

// Namespace is the internal path area a role is allowed to browse.
type Namespace string

const (
	NamespaceAdmin     Namespace = "admin"
	NamespaceDashboard Namespace = "dashboard"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	default:
		return false
	}
}

// Namespace maps the role onto its page area. ok is false for a role outside
// the enum, which callers treat as a failed authentication.
func (r Role) Namespace() (Namespace, bool) {
	switch r {
	case RoleAdmin, RoleStaff:
		return NamespaceAdmin, true
	case RoleCustomer:
		return NamespaceDashboard, true
	default:
		return "", false
	}
}

// HomePath is the canonical landing page for the role, without access hash.
func (r Role) HomePath() (string, bool) {
	ns, ok := r.Namespace()
	if !ok {
		return "", false
	}
	return ns.HomePath(), true
}

var namespacePages = map[Namespace][]string{
	NamespaceAdmin:     {"dashboard", "bookings", "contacts", "customers", "settings"},
	NamespaceDashboard: {"dashboard"},
}

// Pages lists the page names served under the namespace.
func (ns Namespace) Pages() []string {
	return namespacePages[ns]
}

// PagePath is the internal path of a page, without access hash. The customer
// dashboard is the namespace root itself.
func (ns Namespace) PagePath(name string) string {
	if ns == NamespaceDashboard && name == "dashboard" {
		return "/dashboard"
	}
	return "/" + string(ns) + "/" + name
}

// HomePath is the namespace's dashboard page.
func (ns Namespace) HomePath() string {
	return ns.PagePath("dashboard")
}

// HasPage reports whether path is one of the namespace's pages.
func (ns Namespace) HasPage(path string) bool {
	for _, name := range ns.Pages() {
		if ns.PagePath(name) == path {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role may manage bookings and contacts.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	case RoleCustomer:
		return false
	default:
		return false
	}
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// NormalizeEmail lower-cases and trims an address before lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
