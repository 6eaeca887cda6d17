package mindmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

// envelope is the response shape of the mind map generation endpoint.
type envelope struct {
	MindMap *Node `json:"mindMap"`
}

// ParseTree decodes a mind map tree from JSON. Both a bare node and the
// generation endpoint's {"mindMap": {...}} envelope are accepted. JSON null
// or an empty object yields NO_DATA.
func ParseTree(data []byte) (*Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && !env.MindMap.IsZero() {
		return env.MindMap, nil
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidTree, err, "decode mind map")
	}
	if root.IsZero() {
		return nil, apperr.New(apperr.ErrCodeNoData, "no mind map data available")
	}
	return &root, nil
}

// ReadTree decodes a mind map tree from r. ReadTree does not close r.
func ReadTree(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseTree(data)
}

// ReadTreeFile reads a mind map tree from a JSON file.
func ReadTreeFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// MarshalTree serializes a tree as indented JSON.
func MarshalTree(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

// WriteTreeFile writes a tree as indented JSON to path.
func WriteTreeFile(root *Node, path string) error {
	data, err := MarshalTree(root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalLayout serializes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes a layout from JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// ReadLayoutFile reads a layout written by WriteLayoutFile.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a layout as indented JSON to path.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
