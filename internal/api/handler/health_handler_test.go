package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Readiness(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("expected degraded, got %s", resp.Status)
	}
	if resp.Dependencies["mongodb"].Status != "ok" || resp.Dependencies["redis"].Error != "connection refused" {
		t.Errorf("unexpected dependencies: %+v", resp.Dependencies)
	}
}

func TestHealthHandler_Readiness_NoChecks(t *testing.T) {
	h := NewHealthHandler(nil)

	c, rec := newJSONContext(http.MethodGet, "/health/ready", "")
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
