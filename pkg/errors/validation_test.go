package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "root", false},
		{"valid with dash", "child1-1", false},
		{"valid unicode", "thème", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTree) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTree)
			}
		})
	}
}

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"notes", "Photosynthesis converts light into chemical energy.", false},

		{"empty", "", true},
		{"whitespace", "   \n\t", true},
		{"too long", strings.Repeat("x", MaxContentLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle(""); err != nil {
		t.Errorf("empty title should be allowed: %v", err)
	}
	if err := ValidateTitle("Cell Biology"); err != nil {
		t.Errorf("ValidateTitle() error = %v", err)
	}
	if err := ValidateTitle(strings.Repeat("t", MaxTitleLength+1)); err == nil {
		t.Error("overlong title should be rejected")
	}
	if err := ValidateTitle("a\x00b"); err == nil {
		t.Error("null byte should be rejected")
	}
}

func TestValidateContainerSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"default", 800, 600, false},
		{"small", 1, 1, false},

		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"NaN", math.NaN(), 600, true},
		{"Inf", 800, math.Inf(1), true},
		{"too large", MaxContainerPixel + 1, 600, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainerSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateContainerSize(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://api.groq.com/openai/v1/", false},
		{"http://localhost:8080/v1", false},
		{"", true},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
		{"https://", true},
		{"://broken", true},
	}
	for _, tt := range tests {
		err := ValidateBaseURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBaseURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateBaseURL(%q) code = %s, want INVALID_INPUT", tt.input, GetCode(err))
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidTree,
		ErrCodeInvalidFormat,
		ErrCodeInvalidSize,
		ErrCodeNoData,
		ErrCodeCyclicTree,
		ErrCodeTreeTooDeep,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
