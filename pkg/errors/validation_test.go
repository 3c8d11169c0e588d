package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "main.frag", false},
		{"valid nested", "shaders/lib/noise.glsl", false},
		{"valid dotted name", "v1..2/common.glsl", false},
		{"valid current dir", "./main.glsl", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateIncludeLiteral(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "./functions/rand.glsl", false},
		{"absolute", "/usr/share/shaders/common.glsl", false},
		{"parent", "../common.glsl", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"carriage return", "a\rb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIncludeLiteral(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIncludeLiteral(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
