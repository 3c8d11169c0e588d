package errors

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to flatten")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedInvocation, "test"),
			code:     ErrCodeMalformedInvocation,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeCircularDependency,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeDocumentUnreadable, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeDocumentUnreadable,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", PathUnresolvable("x.glsl", errors.New("missing")), ErrCodePathUnresolvable},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"with cause", Wrap(ErrCodeInternal, errors.New("boom"), "flatten"), "flatten: boom"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDocumentUnreadable(t *testing.T) {
	cause := errors.New("permission denied")
	err := DocumentUnreadable("/shaders/main.glsl", cause)

	if err.Code != ErrCodeDocumentUnreadable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeDocumentUnreadable)
	}
	if err.Subject != "/shaders/main.glsl" {
		t.Errorf("Subject = %q", err.Subject)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable with errors.Is")
	}
	if !strings.Contains(err.Error(), "/shaders/main.glsl") {
		t.Errorf("Error() = %q, should mention the identifier", err.Error())
	}
}

func TestCircularDependency(t *testing.T) {
	path := []string{"a", "b", "a"}
	err := CircularDependency(path)
	path[0] = "mutated"

	if !Is(err, ErrCodeCircularDependency) {
		t.Fatalf("Is(err, CIRCULAR_DEPENDENCY) = false")
	}
	if got := CyclePath(err); !slices.Equal(got, []string{"a", "b", "a"}) {
		t.Errorf("CyclePath() = %v, want [a b a]", got)
	}
	want := "CIRCULAR_DEPENDENCY: circular dependency detected: a -> b -> a"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCyclePathWrapped(t *testing.T) {
	inner := CircularDependency([]string{"x", "x"})
	outer := Wrap(ErrCodeInternal, inner, "check main.glsl")

	if got := CyclePath(outer); !slices.Equal(got, []string{"x", "x"}) {
		t.Errorf("CyclePath() = %v, want [x x]", got)
	}
	if CyclePath(errors.New("plain")) != nil {
		t.Error("CyclePath() of plain error should be nil")
	}
}

func TestMaxDepthExceeded(t *testing.T) {
	err := MaxDepthExceeded("deep.glsl", 8)
	if err.Error() != "MAX_DEPTH_EXCEEDED: include depth exceeds 8 at deep.glsl" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeDocumentUnreadable,
		ErrCodePathUnresolvable,
		ErrCodeCircularDependency,
		ErrCodeMalformedInvocation,
		ErrCodeMaxDepthExceeded,
		ErrCodeInvalidInput,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
