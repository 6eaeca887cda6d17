// Package cache stores computed mind map artifacts.
//
// Three kinds of entries are cached, each under a key produced by a [Keyer]:
//
//   - generated trees, keyed by model and source content ([Keyer.GenerateKey])
//   - layouts, keyed by tree hash and layout options ([Keyer.LayoutKey])
//   - rendered artifacts, keyed by layout hash and render options
//     ([Keyer.ArtifactKey])
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
	GenerateTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys. All methods are deterministic.
type Keyer interface {
	// LayoutKey addresses a layout computed from a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey addresses a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// GenerateKey addresses a generated tree by model and content hash.
	GenerateKey(model, contentHash string) string
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	MaxDepth int     `json:"max_depth"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Fit        bool    `json:"fit,omitempty"`
	View       bool    `json:"view,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Title      string  `json:"title,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// GenerateKey implements [Keyer].
func (DefaultKeyer) GenerateKey(model, contentHash string) string {
	return hashKey("generate", model, contentHash)
}
