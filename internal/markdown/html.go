package markdown

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// htmlLinks tokenizes a raw HTML fragment and returns the href of every anchor and the
// src of every image. line is the line the fragment starts on.
func htmlLinks(fragment []byte, line int) []Link {
	var out []Link
	z := html.NewTokenizer(bytes.NewReader(fragment))
	current := line
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		newlines := bytes.Count(z.Raw(), []byte("\n"))
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			tok := z.Token()
			switch tok.Data {
			case "a":
				if href, ok := attr(tok, "href"); ok {
					out = append(out, Link{Kind: LinkKindHTML, Destination: href, Line: current})
				}
			case "img":
				if src, ok := attr(tok, "src"); ok {
					out = append(out, Link{Kind: LinkKindImage, Destination: src, Line: current})
				}
			}
		}
		if line > 0 {
			current += newlines
		}
	}
}

func attr(tok html.Token, name string) (string, bool) {
	for _, a := range tok.Attr {
		if a.Key == name {
			v := strings.TrimSpace(a.Val)
			return v, v != ""
		}
	}
	return "", false
}
