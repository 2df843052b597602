package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PageMeta holds the frontmatter keys that influence navigation.
type PageMeta struct {
	Title   string      `yaml:"title"`
	Sidebar SidebarMeta `yaml:"sidebar"`
}

// SidebarMeta mirrors the `sidebar:` frontmatter block.
type SidebarMeta struct {
	Label  string `yaml:"label"`
	Order  *int   `yaml:"order"`
	Hidden bool   `yaml:"hidden"`
}

// DecodePage decodes the navigation keys of a page header. Unknown keys are ignored.
func DecodePage(frontmatter []byte) (PageMeta, error) {
	var meta PageMeta
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(frontmatter, &meta); err != nil {
		return PageMeta{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	return meta, nil
}
