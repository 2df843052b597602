package nav

import (
	"encoding/json"
	"fmt"
)

// Node is one node of a resolved navigation tree: LinkNode or GroupNode.
type Node interface {
	isNode()
}

// LinkNode is a resolved link to an existing page.
type LinkNode struct {
	Label string
	Slug  string
}

// GroupNode is a resolved group; its children are fully expanded.
type GroupNode struct {
	Label     string
	Collapsed bool
	Children  []Node
}

func (*LinkNode) isNode()  {}
func (*GroupNode) isNode() {}

// Tree is a resolved navigation tree.
type Tree struct {
	Nodes []Node
}

// Visit walks the tree depth-first in order. path holds the labels of the enclosing groups.
// Returning false from fn stops the walk. Nil nodes, typed or untyped, are skipped.
func (t Tree) Visit(fn func(n Node, path []string) bool) {
	visit(t.Nodes, nil, fn)
}

func visit(nodes []Node, path []string, fn func(Node, []string) bool) bool {
	for _, n := range nodes {
		if isNil(n) {
			continue
		}
		if !fn(n, path) {
			return false
		}
		switch node := n.(type) {
		case *LinkNode:
		case *GroupNode:
			inner := append(append(make([]string, 0, len(path)+1), path...), node.Label)
			if !visit(node.Children, inner, fn) {
				return false
			}
		default:
			panic(fmt.Sprintf("nav: unhandled node type %T", n))
		}
	}
	return true
}

func isNil(n Node) bool {
	switch node := n.(type) {
	case nil:
		return true
	case *LinkNode:
		return node == nil
	case *GroupNode:
		return node == nil
	default:
		return false
	}
}

// Flatten returns every link in depth-first order, duplicates included.
func (t Tree) Flatten() []LinkNode {
	var out []LinkNode
	t.Visit(func(n Node, _ []string) bool {
		if link, ok := n.(*LinkNode); ok {
			out = append(out, *link)
		}
		return true
	})
	return out
}

// Slugs returns the slug of every link in depth-first order.
func (t Tree) Slugs() []string {
	flat := t.Flatten()
	out := make([]string, len(flat))
	for i, l := range flat {
		out[i] = l.Slug
	}
	return out
}

type jsonNode struct {
	Type      string     `json:"type"`
	Label     string     `json:"label"`
	Slug      string     `json:"slug,omitempty"`
	Collapsed bool       `json:"collapsed,omitempty"`
	Items     []jsonNode `json:"items,omitempty"`
}

// MarshalJSON renders the tree as the sidebar array a renderer consumes.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(t.Nodes))
}

func toJSON(nodes []Node) []jsonNode {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		if isNil(n) {
			continue
		}
		switch node := n.(type) {
		case *LinkNode:
			out = append(out, jsonNode{Type: "link", Label: node.Label, Slug: node.Slug})
		case *GroupNode:
			out = append(out, jsonNode{
				Type:      "group",
				Label:     node.Label,
				Collapsed: node.Collapsed,
				Items:     toJSON(node.Children),
			})
		default:
			panic(fmt.Sprintf("nav: unhandled node type %T", n))
		}
	}
	return out
}
