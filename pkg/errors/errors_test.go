package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Reservation"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Room", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"room not available", RoomNotAvailable("closed"), CodeRoomNotAvailable, http.StatusConflict},
		{"reservation failed", ReservationFailed("already cancelled"), CodeReservationFailed, http.StatusConflict},
		{"conflict", Conflict("busy"), CodeConflict, http.StatusConflict},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to query", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to find AppError")
	}
	if appErr.Code != CodeInternal {
		t.Errorf("code = %s, want %s", appErr.Code, CodeInternal)
	}
}

func TestAsAppError(t *testing.T) {
	original := RoomNotAvailable("closed on Monday")
	if got := AsAppError(original); got != original {
		t.Error("expected the same AppError back")
	}

	plain := errors.New("timeout dialing mongo")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("code = %s, want %s", converted.Code, CodeInternal)
	}
	if converted.Message != "An unexpected error occurred" {
		t.Errorf("unclassified error leaked its message: %q", converted.Message)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected the cause to be preserved")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("bad input", nil).WithDetails(map[string]any{"field": "date"})
	if err.Details["field"] != "date" {
		t.Errorf("details = %v", err.Details)
	}
}
