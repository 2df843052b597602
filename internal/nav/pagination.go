package nav

// Neighbors returns the links before and after the first occurrence of slug in
// sidebar order, the way a docs theme renders "previous" and "next" footers.
func Neighbors(tree Tree, slug string) (prev, next *LinkNode, found bool) {
	flat := tree.Flatten()
	for i := range flat {
		if flat[i].Slug != slug {
			continue
		}
		if i > 0 {
			p := flat[i-1]
			prev = &p
		}
		if i+1 < len(flat) {
			n := flat[i+1]
			next = &n
		}
		return prev, next, true
	}
	return nil, nil, false
}

// Breadcrumbs returns the labels of the groups enclosing the first occurrence of slug.
func Breadcrumbs(tree Tree, slug string) ([]string, bool) {
	var crumbs []string
	found := false
	tree.Visit(func(n Node, path []string) bool {
		if link, ok := n.(*LinkNode); ok && link.Slug == slug {
			crumbs = append([]string{}, path...)
			found = true
			return false
		}
		return true
	})
	return crumbs, found
}
