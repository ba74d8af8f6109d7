package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NotFound("Booking"), http.StatusNotFound},
		{"validation", Validation("bad input", nil), http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no identity"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden},
		{"conflict", Conflict("slot taken", ReasonSlotTaken), http.StatusConflict},
		{"invalid transition", InvalidTransition("pending", "completed"), http.StatusConflict},
		{"internal", Internal("boom", nil), http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), http.StatusGatewayTimeout},
		{"unavailable", Unavailable("booking store", nil), http.StatusServiceUnavailable},
		{"zero status defaults to 500", &AppError{Code: CodeInternal}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRetryable_OnlyUnavailable(t *testing.T) {
	if !Unavailable("booking store", nil).Retryable() {
		t.Error("unavailability must be retryable")
	}

	nonRetryable := []*AppError{
		Conflict("slot taken", ReasonSlotTaken),
		Conflict("concurrent write", ReasonConcurrentModification),
		InvalidTransition("pending", "completed"),
		Validation("bad input", nil),
		Internal("boom", nil),
		Timeout("too slow"),
	}
	for _, e := range nonRetryable {
		if e.Retryable() {
			t.Errorf("%s must not be retryable", e.Code)
		}
	}
}

func TestConflict_CarriesReason(t *testing.T) {
	err := Conflict("slot taken", ReasonSlotTaken)
	if err.Details["reason"] != ReasonSlotTaken {
		t.Errorf("expected reason %s, got %v", ReasonSlotTaken, err.Details["reason"])
	}
}

func TestInvalidTransition_CarriesFromTo(t *testing.T) {
	err := InvalidTransition("pending", "completed")
	if err.Code != CodeInvalidTransition {
		t.Errorf("expected %s, got %s", CodeInvalidTransition, err.Code)
	}
	if err.Details["from"] != "pending" || err.Details["to"] != "completed" {
		t.Errorf("expected from/to details, got %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	original := NotFound("Booking")
	if got := AsAppError(original); got != original {
		t.Error("an AppError must pass through unchanged")
	}

	plain := errors.New("plain failure")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("the cause must be preserved for unwrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := Unavailable("booking store", cause)
	if !errors.Is(err, cause) {
		t.Error("expected the cause to unwrap")
	}
}
