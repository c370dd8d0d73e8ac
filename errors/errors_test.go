package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(401, "unauthorized access")
	if err.GetCode() != 401 {
		t.Errorf("expected code 401, got %d", err.GetCode())
	}
	if err.GetMessage() != "unauthorized access" {
		t.Errorf("expected message 'unauthorized access', got %s", err.GetMessage())
	}

	t.Logf("Error: %s", err.Error())
}

func TestWithMetadata(t *testing.T) {
	err := Unauthorized("unauthorized")

	// Empty metadata should return the same instance.
	same := err.WithMetadata(map[string]string{})
	if err != same {
		t.Error("WithMetadata with empty map should return same instance")
	}

	withMeta := err.WithMetadata(map[string]string{"username": "required"})
	if err == withMeta {
		t.Error("WithMetadata should return a new instance")
	}
	if withMeta.GetMetadata()["username"] != "required" {
		t.Errorf("metadata not set correctly: %v", withMeta.GetMetadata())
	}
}

func TestWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ServiceUnavailable("auth service unreachable").WithCause(cause)

	if err.GetCause() != cause {
		t.Error("cause not set correctly")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped cause should satisfy errors.Is")
	}
}

func TestFromError(t *testing.T) {
	stdErr := errors.New("plain error")
	converted := FromError(stdErr)
	if converted.GetCode() != UnknownCode {
		t.Errorf("expected code %d, got %d", UnknownCode, converted.GetCode())
	}

	existing := NotFound("flight not found")
	if FromError(existing) != existing {
		t.Error("FromError should return same instance for *Error")
	}

	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, 500, "ignored") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	cause := errors.New("timeout")
	err := Wrap(cause, 504, "ops service timeout")
	if err.GetCode() != 504 {
		t.Errorf("expected code 504, got %d", err.GetCode())
	}
	if errors.Unwrap(err) != cause {
		t.Error("Wrap should preserve the cause chain")
	}
}

func TestIsComparesCodeAndMessage(t *testing.T) {
	a := Unauthorized("unauthorized")
	b := Unauthorized("unauthorized")
	c := Unauthorized("token expired")

	if !errors.Is(a, b) {
		t.Error("same code and message should compare equal")
	}
	if errors.Is(a, c) {
		t.Error("different messages should not compare equal")
	}
}
