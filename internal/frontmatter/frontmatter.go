// Package frontmatter splits and decodes the YAML header of Markdown pages.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML header but never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a page split into its YAML header and Markdown body.
type Document struct {
	Frontmatter []byte // raw YAML without delimiters
	Body        []byte
	Had         bool // the document carried a header block, possibly empty
	BodyLine    int  // 1-based line of the first body line in the original content
}

// Split separates `---` delimited YAML frontmatter from the body.
//
// Both LF and CRLF documents are accepted. A document that does not start with the
// delimiter has no header and its whole content is the body.
func Split(content []byte) (Document, error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Body: content, BodyLine: 1}, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Document{Frontmatter: []byte{}, Body: content[start+len(open):], Had: true, BodyLine: 3}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}

	fmEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return Document{
		Frontmatter: content[start:fmEnd],
		Body:        content[bodyStart:],
		Had:         true,
		BodyLine:    bytes.Count(content[:bodyStart], []byte("\n")) + 1,
	}, nil
}

// ParseYAML parses raw frontmatter into a generic map. Empty input yields an empty map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
