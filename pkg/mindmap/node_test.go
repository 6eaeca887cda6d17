package mindmap

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

func TestNodeUnmarshalLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Node
	}{
		{
			name:  "well formed",
			input: `{"id":"root","text":"Topic","children":[{"id":"a","text":"A","children":[]}]}`,
			want:  &Node{ID: "root", Text: "Topic", Children: []*Node{{ID: "a", Text: "A"}}},
		},
		{
			name:  "missing children",
			input: `{"id":"root","text":"Topic"}`,
			want:  &Node{ID: "root", Text: "Topic"},
		},
		{
			name:  "non-array children",
			input: `{"id":"root","text":"Topic","children":"none"}`,
			want:  &Node{ID: "root", Text: "Topic"},
		},
		{
			name:  "null children entries",
			input: `{"id":"root","text":"Topic","children":[null,{"id":"a","text":"A"},null]}`,
			want:  &Node{ID: "root", Text: "Topic", Children: []*Node{{ID: "a", Text: "A"}}},
		},
		{
			name:  "non-string text",
			input: `{"id":"root","text":42}`,
			want:  &Node{ID: "root"},
		},
		{
			name:  "numeric id",
			input: `{"id":7,"text":"Seven"}`,
			want:  &Node{ID: "7", Text: "Seven"},
		},
		{
			name:  "object id",
			input: `{"id":{"x":1},"text":"T"}`,
			want:  &Node{Text: "T"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Node
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if diff := cmp.Diff(tt.want, &got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNodeUnmarshalRejectsNonObject(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`[1,2,3]`), &n); err == nil {
		t.Error("expected error for array input")
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name string
		root *Node
		code apperr.Code
	}{
		{name: "valid", root: topicTree()},
		{name: "nil", root: nil, code: apperr.ErrCodeNoData},
		{name: "empty id", root: &Node{Text: "No id"}, code: apperr.ErrCodeInvalidTree},
		{
			name: "duplicate id",
			root: &Node{ID: "root", Text: "R", Children: []*Node{{ID: "x", Text: "1"}, {ID: "x", Text: "2"}}},
			code: apperr.ErrCodeInvalidTree,
		},
		{name: "too deep", root: chain(DefaultMaxDepth + 1), code: apperr.ErrCodeTreeTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.root.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !apperr.Is(err, tt.code) {
				t.Errorf("Validate() code = %s, want %s (%v)", apperr.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestTreeStats(t *testing.T) {
	root := &Node{ID: "root", Text: "R", Children: []*Node{
		{ID: "a", Text: "A", Children: []*Node{{ID: "a1", Text: "A1"}}},
		{ID: "b", Text: "B"},
	}}

	got, err := TreeStats(root)
	if err != nil {
		t.Fatalf("TreeStats: %v", err)
	}
	want := Stats{Nodes: 4, Edges: 3, Depth: 2, Leaves: 2}
	if got != want {
		t.Errorf("TreeStats() = %+v, want %+v", got, want)
	}

	if s, err := TreeStats(nil); err != nil || s != (Stats{}) {
		t.Errorf("TreeStats(nil) = %+v, %v", s, err)
	}
}

func TestWalk(t *testing.T) {
	root := &Node{ID: "root", Text: "R", Children: []*Node{
		{ID: "a", Text: "A", Children: []*Node{{ID: "a1", Text: "A1"}}},
		{ID: "b", Text: "B"},
	}}

	var order []string
	var levels []int
	err := Walk(root, func(n *Node, level int) error {
		order = append(order, n.ID)
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if diff := cmp.Diff([]string{"root", "a", "a1", "b"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 1}, levels); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	var visited int
	err = Walk(root, func(*Node, int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || visited != 2 {
		t.Errorf("Walk stop: err=%v visited=%d", err, visited)
	}
}

func TestNodeIsZero(t *testing.T) {
	var nilNode *Node
	if !nilNode.IsZero() || !(&Node{}).IsZero() {
		t.Error("nil and empty nodes should be zero")
	}
	if (&Node{ID: "x"}).IsZero() {
		t.Error("node with id should not be zero")
	}
	if !nilNode.IsLeaf() || !(&Node{ID: "x"}).IsLeaf() || topicTree().IsLeaf() {
		t.Error("IsLeaf mismatch")
	}
}
