package domain

import (
	"strings"
	"time"
)

// ContactStatus tracks how far staff have processed an inbound message.
type ContactStatus string

const (
	ContactNew      ContactStatus = "NEW"
	ContactRead     ContactStatus = "READ"
	ContactReplied  ContactStatus = "REPLIED"
	ContactArchived ContactStatus = "ARCHIVED"
)

// ParseContactStatus validates a status sent by a client.
func ParseContactStatus(s string) (ContactStatus, error) {
	switch st := ContactStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return st, nil
	}
	return "", NewValidationError("Estado no válido")
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Phone     string        `json:"phone" bson:"phone"`
	Service   string        `json:"service,omitempty" bson:"service,omitempty"`
	Message   string        `json:"message" bson:"message"`
	Status    ContactStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}
