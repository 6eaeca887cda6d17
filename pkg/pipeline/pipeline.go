// Package pipeline runs the mind map parse → layout → render pipeline.
//
// The CLI and the HTTP server both go through this package so that options,
// defaults, caching and instrumentation behave the same everywhere.
//
// # Stages
//
//  1. Parse: decode the input tree (skipped when a tree is supplied)
//  2. Layout: position the tree with [mindmap.Build]
//  3. Render: produce artifacts (SVG, JSON, PNG, DOT, node-link SVG)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  data,
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lectura/mindmap/pkg/cache"
	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// Defaults shared by the CLI and the server.
const (
	DefaultWidth    = mindmap.DefaultContainerWidth
	DefaultHeight   = mindmap.DefaultContainerHeight
	DefaultMaxDepth = mindmap.DefaultMaxDepth
	DefaultPNGScale = 2.0
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatPNG      = "png"
	FormatDOT      = "dot"      // Graphviz source of the tree
	FormatNodelink = "nodelink" // Graphviz-rendered SVG of the tree
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// FormatExt maps a format to the file extension used when writing it.
var FormatExt = map[string]string{
	FormatSVG:      ".svg",
	FormatJSON:     ".layout.json",
	FormatPNG:      ".png",
	FormatDOT:      ".dot",
	FormatNodelink: ".nodelink.svg",
}

// Options configures a pipeline run. It is JSON-serializable for API use.
type Options struct {
	// Input. Tree wins over Source.
	Tree   *mindmap.Node `json:"tree,omitempty"`
	Source []byte        `json:"-"`
	Title  string        `json:"title,omitempty"`

	// Layout options
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	MaxDepth int     `json:"max_depth,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Fit        bool     `json:"fit,omitempty"`  // frame the SVG with fit-to-width
	View       bool     `json:"view,omitempty"` // frame the SVG with the automatic fit
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // ids in DOT labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Tree      *mindmap.Node
	TreeHash  string
	Layout    mindmap.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains tree shape and timing information.
type Stats struct {
	mindmap.Stats
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateAndSetDefaults validates the whole option set and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that an input is present.
func (o *Options) ValidateForParse() error {
	if o.Tree == nil && len(o.Source) == 0 {
		return apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}
	if o.Title != "" {
		if err := apperr.ValidateTitle(o.Title); err != nil {
			return err
		}
	}
	return nil
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
}

// ValidateForLayout applies layout defaults and checks the container size.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.MaxDepth < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "max depth must be positive, got %d", o.MaxDepth)
	}
	return apperr.ValidateContainerSize(o.Width, o.Height)
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
}

// ValidateForRender applies layout and render defaults and checks formats.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// NeedsTree reports whether any requested format is rendered from the tree
// rather than from the layout.
func (o *Options) NeedsTree() bool {
	return slices.Contains(o.Formats, FormatDOT) || slices.Contains(o.Formats, FormatNodelink)
}

// LayoutKeyOpts returns the cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		MaxDepth: o.MaxDepth,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Fit:        o.Fit,
		View:       o.View,
		Scale:      o.Scale,
		Background: o.Background,
		Title:      o.Title,
		Detailed:   o.Detailed,
	}
}

// logger returns o.Logger, or a logger that discards everything.
func (o *Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

// String summarises the options for log output.
func (o Options) String() string {
	return fmt.Sprintf("%.0fx%.0f formats=%s", o.Width, o.Height, strings.Join(o.Formats, ","))
}
