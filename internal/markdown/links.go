package markdown

// LinkKind identifies the construct a link was written with.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
	LinkKindHTML                LinkKind = "html"
)

// Link is a link-like construct found in a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
	Line        int // 1-based, relative to the body; 0 when unknown
}

// Navigational reports whether following the link leads to another page.
// Images and bare reference definitions do not.
func (l Link) Navigational() bool {
	switch l.Kind {
	case LinkKindInline, LinkKindAuto, LinkKindHTML:
		return true
	default:
		return false
	}
}
