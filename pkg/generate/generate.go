// Package generate turns free-form notes into a mind map tree with a
// language model.
//
// The model is asked for the tree JSON directly. Its reply is cleaned of
// Markdown code fences and checked for a root id and text; anything
// unusable is replaced by a small placeholder tree ([FallbackTree]) so
// callers always get something to lay out.
//
// # Usage
//
//	gen, err := generate.NewOpenAIGenerator(generate.Config{APIKey: key})
//	if err != nil {
//	    return err
//	}
//	root, err := gen.Generate(ctx, generate.Request{Title: "Biology", Content: notes})
package generate

import (
	"context"
	"strings"

	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// DefaultTitle is used for the root when a request has no title.
const DefaultTitle = "Generated Notes"

// Request is the input of one generation.
type Request struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks the request fields.
func (r Request) Validate() error {
	if err := apperr.ValidateContent(r.Content); err != nil {
		return err
	}
	return apperr.ValidateTitle(r.Title)
}

// RootTitle returns the title the root node should carry.
func (r Request) RootTitle() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return DefaultTitle
}

// Generator produces mind map trees from notes.
type Generator interface {
	Generate(ctx context.Context, req Request) (*mindmap.Node, error)
}
