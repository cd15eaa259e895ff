package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

func contactInput() ports.CreateContactInput {
	return ports.CreateContactInput{
		Name:    "Mario",
		Email:   "mario@example.com",
		Phone:   "600111222",
		Service: domain.ServiceVehicles,
		Message: "<script>x</script>¿Hacéis tapicerías?",
	}
}

func TestContactService_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.contact.Create(ctx, contactInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != domain.ContactNew {
		t.Fatalf("expected NEW, got %s", c.Status)
	}
	if c.Message != "x¿Hacéis tapicerías?" {
		t.Errorf("expected tags stripped, got %q", c.Message)
	}

	viewed, err := f.contact.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if viewed.Status != domain.ContactRead {
		t.Errorf("expected first view to mark READ, got %s", viewed.Status)
	}

	archived, err := f.contact.UpdateStatus(ctx, c.ID, "ARCHIVED")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != domain.ContactArchived {
		t.Errorf("expected ARCHIVED, got %s", archived.Status)
	}

	again, err := f.contact.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Status != domain.ContactArchived {
		t.Errorf("expected later views to keep status, got %s", again.Status)
	}

	_, err = f.contact.UpdateStatus(ctx, c.ID, "SPAM")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for invalid status, got %v", err)
	}
}

func TestContactService_Create_Validation(t *testing.T) {
	f := newFixture()

	cases := map[string]func(*ports.CreateContactInput){
		"missing message": func(in *ports.CreateContactInput) { in.Message = "" },
		"missing phone":   func(in *ports.CreateContactInput) { in.Phone = "" },
		"bad email":       func(in *ports.CreateContactInput) { in.Email = "mario" },
		"long name":       func(in *ports.CreateContactInput) { in.Name = strings.Repeat("n", 101) },
		"long message":    func(in *ports.CreateContactInput) { in.Message = strings.Repeat("m", 2001) },
	}
	for name, mutate := range cases {
		in := contactInput()
		mutate(&in)
		_, err := f.contact.Create(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

func TestContactService_DeleteAndNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	c, err := f.contact.Create(ctx, contactInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.contact.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.contact.Get(ctx, c.ID); !errors.Is(err, domain.ErrContactNotFound) {
		t.Errorf("expected ErrContactNotFound, got %v", err)
	}
	if err := f.contact.Delete(ctx, "123"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
