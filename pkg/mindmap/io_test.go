package mindmap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

func TestParseTree(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		code   apperr.Code
	}{
		{name: "bare node", input: `{"id":"root","text":"Topic"}`, wantID: "root"},
		{name: "envelope", input: `{"mindMap":{"id":"root","text":"Topic","children":[]}}`, wantID: "root"},
		{name: "surrounding whitespace", input: "\n  {\"id\":\"r\",\"text\":\"T\"}  \n", wantID: "r"},
		{name: "empty", input: "", code: apperr.ErrCodeNoData},
		{name: "null", input: "null", code: apperr.ErrCodeNoData},
		{name: "empty object", input: "{}", code: apperr.ErrCodeNoData},
		{name: "null envelope", input: `{"mindMap":null}`, code: apperr.ErrCodeNoData},
		{name: "malformed", input: `{"id":`, code: apperr.ErrCodeInvalidTree},
		{name: "array", input: `[{"id":"root"}]`, code: apperr.ErrCodeInvalidTree},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseTree([]byte(tt.input))
			if tt.code != "" {
				if !apperr.Is(err, tt.code) {
					t.Errorf("ParseTree() code = %s, want %s (%v)", apperr.GetCode(err), tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTree: %v", err)
			}
			if root.ID != tt.wantID {
				t.Errorf("root id = %q, want %q", root.ID, tt.wantID)
			}
		})
	}
}

func TestReadTree(t *testing.T) {
	root, err := ReadTree(strings.NewReader(`{"id":"root","text":"Topic","children":[{"id":"a","text":"A"}]}`))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].ID != "a" {
		t.Errorf("unexpected tree: %+v", root)
	}
}

func TestTreeFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	want := topicTree()

	if err := WriteTreeFile(want, path); err != nil {
		t.Fatalf("WriteTreeFile: %v", err)
	}
	got, err := ReadTreeFile(path)
	if err != nil {
		t.Fatalf("ReadTreeFile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTreeFileMissing(t *testing.T) {
	_, err := ReadTreeFile(filepath.Join(t.TempDir(), "nope.json"))
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("code = %s, want %s", apperr.GetCode(err), apperr.ErrCodeFileNotFound)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	want, err := Build(wideTree(), 900, 700)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(want, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"nodes"`, `"edges"`, `"from"`, `"c1x"`, `"total_width"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("layout JSON missing %s", key)
		}
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	if _, err := UnmarshalLayout([]byte("not json")); err == nil {
		t.Error("expected error")
	}
}
