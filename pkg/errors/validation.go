package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// Input limits shared by the CLI and the API.
const (
	MaxNodeIDLength   = 256
	MaxTitleLength    = 512
	MaxContentLength  = 200_000
	MaxContainerPixel = 20_000
)

// ValidateNodeID validates a mind map node identifier.
//
// The rules are conservative because ids end up in SVG element ids, cache
// keys and Graphviz DOT identifiers:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "node id cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidTree, "node id too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id %q contains invalid control characters", id)
		}
	}
	return nil
}

// ValidateTitle validates a mind map title. Empty titles are allowed; the
// generator substitutes a default.
func ValidateTitle(title string) error {
	if len(title) > MaxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", MaxTitleLength)
	}
	if strings.ContainsRune(title, '\x00') {
		return New(ErrCodeInvalidInput, "title contains null bytes")
	}
	return nil
}

// ValidateContent validates note content handed to the generator.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return New(ErrCodeInvalidInput, "Missing required field: content")
	}
	if len(content) > MaxContentLength {
		return New(ErrCodeInvalidInput, "content too long (max %d bytes)", MaxContentLength)
	}
	return nil
}

// ValidateContainerSize checks that a viewport size is finite, positive and
// within sane bounds.
func ValidateContainerSize(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidSize, "container size must be finite")
		}
		if v <= 0 {
			return New(ErrCodeInvalidSize, "container size must be positive (got %gx%g)", width, height)
		}
		if v > MaxContainerPixel {
			return New(ErrCodeInvalidSize, "container size too large (max %d px)", MaxContainerPixel)
		}
	}
	return nil
}

// ValidateBaseURL checks an API base URL: http or https with a host.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "base URL %q has no host", raw)
	}
	return nil
}
