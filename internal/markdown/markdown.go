// Package markdown extracts links from Markdown bodies for analysis.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body (frontmatter already removed) and returns its links
// in document order, followed by reference definitions sorted by label.
//
// Links inside raw HTML are found with an HTML tokenizer. Code spans and code blocks
// never produce links.
func ExtractLinks(body []byte) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	lines := newLineIndex(body)

	links := make([]Link, 0)
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body)), Line: lines.of(offsetOf(node))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination), Line: lines.of(offsetOf(node))})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination), Line: lines.of(offsetOf(node))})
		case *gmast.HTMLBlock:
			var raw bytes.Buffer
			segs := node.Lines()
			for i := range segs.Len() {
				seg := segs.At(i)
				raw.Write(seg.Value(body))
			}
			if segs.Len() > 0 {
				links = append(links, htmlLinks(raw.Bytes(), lines.of(segs.At(0).Start))...)
			}
		case *gmast.RawHTML:
			var raw bytes.Buffer
			for i := range node.Segments.Len() {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(body))
			}
			if node.Segments.Len() > 0 {
				links = append(links, htmlLinks(raw.Bytes(), lines.of(node.Segments.At(0).Start))...)
			}
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{
			Kind:        LinkKindReferenceDefinition,
			Destination: string(ref.Destination()),
			Line:        lines.definition(ref.Label()),
		})
	}
	return links, nil
}

// offsetOf returns the source offset of an inline node, or -1.
// Inline nodes carry no position of their own, so the first text child is used and,
// failing that, the first line of the enclosing block.
func offsetOf(n gmast.Node) int {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			return t.Segment.Start
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock && p.Lines().Len() > 0 {
			return p.Lines().At(0).Start
		}
	}
	return -1
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{src: src, starts: starts}
}

func (l lineIndex) of(offset int) int {
	if offset < 0 {
		return 0
	}
	return sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset })
}

// definition finds the line declaring [label]: by a case-insensitive prefix match.
func (l lineIndex) definition(label []byte) int {
	prefix := append(append([]byte("["), bytes.ToLower(label)...), ']', ':')
	for i, start := range l.starts {
		end := len(l.src)
		if i+1 < len(l.starts) {
			end = l.starts[i+1]
		}
		line := bytes.ToLower(bytes.TrimLeft(l.src[start:end], " "))
		if bytes.HasPrefix(line, prefix) {
			return i + 1
		}
	}
	return 0
}
