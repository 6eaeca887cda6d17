package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidTree, "duplicate node id %q", "a"), `INVALID_TREE: duplicate node id "a"`},
		{"wrapped", Wrap(ErrCodeNetwork, cause, "generate mind map"), "NETWORK_ERROR: generate mind map: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "redis cache")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", New(ErrCodeNoData, "no mind map data available"), ErrCodeNoData, "no mind map data available"},
		{"fmt wrapped", fmt.Errorf("layout: %w", New(ErrCodeCyclicTree, "node %q reached twice", "b")), ErrCodeCyclicTree, `node "b" reached twice`},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodeNotFound, "gone"), "store"), ErrCodeInternal, "store"},
		{"uncoded", errors.New("boom"), "", "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage = %q, want %q", got, tt.msg)
			}
		})
	}
	if Is(nil, ErrCodeNotFound) {
		t.Error("Is(nil) should be false")
	}
}

func TestRetryAfter(t *testing.T) {
	limited := Wrap(ErrCodeRateLimited, errors.New("429"), "rate limited").WithRetryAfter(30 * time.Second)
	tests := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"set", limited, 30 * time.Second},
		{"fmt wrapped", fmt.Errorf("generate: %w", limited), 30 * time.Second},
		{"inner coded", Wrap(ErrCodeInternal, limited, "create mind map"), 30 * time.Second},
		{"unset", New(ErrCodeRateLimited, "rate limited"), 0},
		{"negative ignored", New(ErrCodeRateLimited, "x").WithRetryAfter(-time.Second), 0},
		{"uncoded", errors.New("boom"), 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryAfter(tt.err); got != tt.want {
				t.Errorf("RetryAfter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInvalidTree, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeInvalidSize, http.StatusBadRequest},
		{ErrCodeCyclicTree, http.StatusBadRequest},
		{ErrCodeTreeTooDeep, http.StatusBadRequest},
		{ErrCodeNoData, http.StatusUnprocessableEntity},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeFileNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTimeout, http.StatusGatewayTimeout},
		{ErrCodeNetwork, http.StatusBadGateway},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("uncoded HTTPStatus = %d, want 500", got)
	}
}
