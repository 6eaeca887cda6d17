package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/lectura/mindmap/pkg/cache"
	apperr "github.com/lectura/mindmap/pkg/errors"
	"github.com/lectura/mindmap/pkg/mindmap"
)

// Parse returns the input tree of opts, decoding Source when no Tree is
// set.
func Parse(opts Options) (*mindmap.Node, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	if opts.Tree != nil {
		if opts.Tree.IsZero() {
			return nil, apperr.New(apperr.ErrCodeNoData, "no mind map data available")
		}
		return opts.Tree, nil
	}
	return mindmap.ParseTree(opts.Source)
}

// TreeHash is the content hash of a tree's compact JSON form. Equal trees
// hash equally regardless of how their source was formatted.
func TreeHash(root *mindmap.Node) (string, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("serialize tree: %w", err)
	}
	return cache.Hash(data), nil
}
