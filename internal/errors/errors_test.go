package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "organization not found"},
			want: "organization not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to load",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to load: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeUnavailable, "backend unreachable")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrapped, cause) = false, want true")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "x"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "email is required")
	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if GetField(err) != "email" {
		t.Errorf("GetField() = %v, want email", GetField(err))
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFound("x"), IsNotFound},
		{"conflict", Conflict("x"), IsConflict},
		{"validation", Validationf("bad %s", "x"), IsValidation},
		{"unauthorized", Unauthorized("x"), IsUnauthorized},
		{"forbidden", Forbidden("x"), IsForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("predicate did not match wrapped %s error", tt.name)
			}
			if tt.check(errors.New("plain")) {
				t.Errorf("predicate matched plain error")
			}
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	tests := map[int]ErrorCode{
		http.StatusNotFound:            ErrCodeNotFound,
		http.StatusConflict:            ErrCodeConflict,
		http.StatusBadRequest:          ErrCodeValidation,
		http.StatusUnauthorized:        ErrCodeUnauthorized,
		http.StatusForbidden:           ErrCodeForbidden,
		http.StatusBadGateway:          ErrCodeUnavailable,
		http.StatusInternalServerError: ErrCodeInternal,
	}
	for status, want := range tests {
		if got := CodeForStatus(status); got != want {
			t.Errorf("CodeForStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestStatusForCode_RoundTripsKnownCodes(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeNotFound, ErrCodeConflict, ErrCodeUnauthorized, ErrCodeForbidden} {
		if got := CodeForStatus(StatusForCode(code)); got != code {
			t.Errorf("CodeForStatus(StatusForCode(%v)) = %v", code, got)
		}
	}
	if got := StatusForCode(""); got != http.StatusInternalServerError {
		t.Errorf("StatusForCode(\"\") = %d, want 500", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(Wrap(errors.New("io"), ErrCodeInternal, "save failed")); got != "save failed" {
		t.Errorf("Message() = %q, want %q", got, "save failed")
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Errorf("Message() = %q, want plain", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q, want empty", got)
	}
	if GetCode(errors.New("plain")) != "" {
		t.Errorf("GetCode(plain) should be empty")
	}
}
