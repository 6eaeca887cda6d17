package generate

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/lectura/mindmap/pkg/mindmap"
)

var fenceRe = regexp.MustCompile("```(?:json)?\\n?")

// ParseTree extracts the mind map from a model reply. The reply may be
// wrapped in Markdown code fences. When it does not decode to a tree whose
// root has both an id and a text, ParseTree returns FallbackTree(title) and
// fallback=true. Missing or repeated ids below the root are replaced.
func ParseTree(reply, title string) (root *mindmap.Node, fallback bool) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(reply, ""))

	root, err := mindmap.ParseTree([]byte(cleaned))
	if err != nil || root.ID == "" || root.Text == "" {
		return FallbackTree(title), true
	}
	if _, err := EnsureIDs(root); err != nil {
		return FallbackTree(title), true
	}
	return root, false
}

// FallbackTree is the placeholder returned when generation output cannot
// be used: the title (or DefaultTitle) with two empty main topics.
func FallbackTree(title string) *mindmap.Node {
	return &mindmap.Node{
		ID:   "root",
		Text: Request{Title: title}.RootTitle(),
		Children: []*mindmap.Node{
			{ID: "main1", Text: "Main Topic 1", Children: []*mindmap.Node{}},
			{ID: "main2", Text: "Main Topic 2", Children: []*mindmap.Node{}},
		},
	}
}

// EnsureIDs gives every node with an empty or already used id a fresh UUID
// and reports how many ids it replaced. The first occurrence of an id keeps
// it. Cyclic or overly deep trees are rejected unchanged.
func EnsureIDs(root *mindmap.Node) (int, error) {
	seen := make(map[string]struct{})
	replaced := 0
	err := mindmap.Walk(root, func(n *mindmap.Node, _ int) error {
		if _, dup := seen[n.ID]; n.ID == "" || dup {
			n.ID = uuid.NewString()
			replaced++
		}
		seen[n.ID] = struct{}{}
		return nil
	})
	return replaced, err
}
