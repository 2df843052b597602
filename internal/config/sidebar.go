package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Sidebar is the declarative navigation as written in the config file.
//
// Items take one of these forms:
//
//	- intro                                  # slug shorthand
//	- {label: Intro, slug: intro}            # link
//	- {label: Guides, items: [...]}          # group
//	- {autogenerate: {directory: guides}}    # spliced directory listing
//	- {label: Reference, autogenerate: {directory: ref}}  # group around a listing
type Sidebar []nav.Entry

// UnmarshalYAML decodes the sidebar sequence. Any entry that does not match exactly
// one form is rejected with its line and column.
func (s *Sidebar) UnmarshalYAML(node *yaml.Node) error {
	entries, err := decodeEntries(node)
	if err != nil {
		return err
	}
	*s = entries
	return nil
}

func decodeEntries(node *yaml.Node) ([]nav.Entry, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, sidebarError(node, "sidebar must be a list")
	}
	entries := make([]nav.Entry, 0, len(node.Content))
	for _, item := range node.Content {
		entry, err := decodeEntry(item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(node *yaml.Node) (nav.Entry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return nil, sidebarError(node, "empty sidebar entry")
		}
		return nav.Link("", node.Value), nil
	case yaml.MappingNode:
		return decodeMapping(node)
	default:
		return nil, sidebarError(node, "sidebar entry must be a slug or a mapping")
	}
}

type rawEntry struct {
	label        *yaml.Node
	slug         *yaml.Node
	items        *yaml.Node
	collapsed    *yaml.Node
	autogenerate *yaml.Node
}

func decodeMapping(node *yaml.Node) (nav.Entry, error) {
	var raw rawEntry
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "label":
			raw.label = value
		case "slug":
			raw.slug = value
		case "items":
			raw.items = value
		case "collapsed":
			raw.collapsed = value
		case "autogenerate":
			raw.autogenerate = value
		default:
			return nil, sidebarError(key, fmt.Sprintf("unknown sidebar key %q", key.Value))
		}
	}

	forms := 0
	for _, n := range []*yaml.Node{raw.slug, raw.items, raw.autogenerate} {
		if n != nil {
			forms++
		}
	}
	if forms != 1 {
		return nil, sidebarError(node, "sidebar entry needs exactly one of slug, items or autogenerate")
	}

	label, err := scalar(raw.label)
	if err != nil {
		return nil, err
	}
	collapsed := false
	if raw.collapsed != nil {
		if err := raw.collapsed.Decode(&collapsed); err != nil {
			return nil, sidebarError(raw.collapsed, "collapsed must be a boolean")
		}
	}

	switch {
	case raw.slug != nil:
		if raw.collapsed != nil {
			return nil, sidebarError(raw.collapsed, "collapsed only applies to groups")
		}
		slug, err := scalar(raw.slug)
		if err != nil {
			return nil, err
		}
		if slug == "" {
			return nil, sidebarError(raw.slug, "link slug is empty")
		}
		return nav.Link(label, slug), nil

	case raw.items != nil:
		if label == "" {
			return nil, sidebarError(node, "group needs a label")
		}
		items, err := decodeEntries(raw.items)
		if err != nil {
			return nil, err
		}
		group := nav.Group(label, items...)
		group.Collapsed = collapsed
		return group, nil

	default:
		auto, err := decodeAutogenerate(raw.autogenerate)
		if err != nil {
			return nil, err
		}
		if label == "" {
			if raw.collapsed != nil {
				return nil, sidebarError(raw.collapsed, "collapsed needs a labelled autogenerate group")
			}
			return auto, nil
		}
		group := nav.Group(label, auto)
		group.Collapsed = collapsed
		return group, nil
	}
}

func decodeAutogenerate(node *yaml.Node) (*nav.AutogenerateEntry, error) {
	var auto struct {
		Directory *string `yaml:"directory"`
	}
	if node.Kind != yaml.MappingNode {
		return nil, sidebarError(node, "autogenerate must be a mapping with a directory")
	}
	if err := node.Decode(&auto); err != nil {
		return nil, sidebarError(node, "invalid autogenerate entry")
	}
	if auto.Directory == nil || *auto.Directory == "" {
		return nil, sidebarError(node, "autogenerate needs a directory")
	}
	return nav.Autogenerate(*auto.Directory), nil
}

func scalar(node *yaml.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", sidebarError(node, "expected a string")
	}
	return node.Value, nil
}

func sidebarError(node *yaml.Node, msg string) error {
	return errors.ConfigError(msg).
		WithContext("line", node.Line).
		WithContext("column", node.Column).
		UserAction().
		Build()
}
