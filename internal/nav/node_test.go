package nav

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTree_NilNodesAreSkipped(t *testing.T) {
	tree := Tree{Nodes: []Node{
		nil,
		(*LinkNode)(nil),
		&GroupNode{Label: "G", Children: []Node{nil, (*GroupNode)(nil), &LinkNode{Label: "B", Slug: "b"}}},
		&LinkNode{Label: "A", Slug: "a"},
	}}

	require.NotPanics(t, func() { tree.Flatten() })
	require.Equal(t, []string{"b", "a"}, tree.Slugs())

	var paths [][]string
	tree.Visit(func(_ Node, path []string) bool {
		paths = append(paths, path)
		return true
	})
	require.Equal(t, [][]string{nil, {"G"}, nil}, paths)

	out, err := json.Marshal(tree)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"type":"group","label":"G","items":[{"type":"link","label":"B","slug":"b"}]},
		{"type":"link","label":"A","slug":"a"}
	]`, string(out))
}
