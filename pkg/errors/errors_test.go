package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("slot taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal must preserve the cause for errors.Is")
	}
	if got := err.Error(); got != fmt.Sprintf("%s: query failed (caused by: %v)", CodeInternal, cause) {
		t.Errorf("unexpected Error(): %q", got)
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Room", "abc123")

	if err.Details["resource"] != "Room" || err.Details["id"] != "abc123" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	conflict := Conflict("slot taken")
	if got := AsAppError(conflict); got != conflict {
		t.Error("AppError must pass through unchanged")
	}

	got := AsAppError(errors.New("raw"))
	if got.Code != CodeInternal {
		t.Errorf("unknown error must map to internal, got %q", got.Code)
	}
}

func TestWithDetails(t *testing.T) {
	err := Conflict("room in use").WithDetails(map[string]any{"booking_count": int64(4)})

	if err.Details["booking_count"] != int64(4) {
		t.Errorf("details = %v", err.Details)
	}
	if err.StatusCode() != http.StatusConflict {
		t.Error("WithDetails must not change the status")
	}
}
