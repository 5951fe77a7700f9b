package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "resource not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "resource not found" {
		t.Errorf("expected message 'resource not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeProviderFailure, "failed to read processes", cause)

	if err.Code != ErrCodeProviderFailure {
		t.Errorf("expected code %s, got %s", ErrCodeProviderFailure, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("disk full")
	ctx := map[string]any{
		"path": "idle-log.txt",
	}

	err := WrapWithContext(ErrCodeIOFailure, "journal write failed", cause, ctx)

	if err.Code != ErrCodeIOFailure {
		t.Errorf("expected code %s, got %s", ErrCodeIOFailure, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["path"] != "idle-log.txt" {
		t.Errorf("expected path to be idle-log.txt")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeIOFailure, "write failed", errors.New("short write")),
			expected: "[IO_FAILURE] write failed: short write",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}
}

func TestHasCode(t *testing.T) {
	inner := Wrap(ErrCodeTimeout, "provider timed out", errors.New("deadline exceeded"))
	outer := Wrap(ErrCodeProviderFailure, "sample failed", inner)
	stdWrapped := fmt.Errorf("cycle: %w", outer)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"outer code", outer, ErrCodeProviderFailure, true},
		{"inner code", outer, ErrCodeTimeout, true},
		{"through fmt wrap", stdWrapped, ErrCodeTimeout, true},
		{"absent code", outer, ErrCodeIOFailure, false},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("context: %w", New(ErrCodeSerializationFailure, "bad record"))
	if got := CodeOf(err); got != ErrCodeSerializationFailure {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeSerializationFailure)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf() = %q, want empty", got)
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeProviderFailure,
		ErrCodeSerializationFailure,
		ErrCodeIOFailure,
		ErrCodeTimeout,
		ErrCodeNotFound,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeRateLimitExceeded,
		ErrCodeUnavailable,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
