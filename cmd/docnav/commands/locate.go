package commands

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
)

// LocateCmd implements the 'locate' command.
type LocateCmd struct {
	Slug   string `arg:"" help:"Page slug, for example guides/install"`
	Locale string `short:"l" help:"Locale to search (defaults to the first configured locale)"`
}

func (l *LocateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	var opts []pipeline.Option
	switch {
	case l.Locale != "":
		opts = append(opts, pipeline.WithLocales(l.Locale))
	case len(cfg.Locales) > 0:
		opts = append(opts, pipeline.WithLocales(cfg.Locales[0].Code))
	}
	outcomes, err := pipeline.New(cfg, opts...).Run(context.Background())
	if err != nil {
		return err
	}
	o := outcomes[0]
	if !o.Resolved {
		return errors.NavigationError("sidebar does not resolve (run check for details)").
			WithContext("locale", localeName(o)).
			Build()
	}
	return locate(g, o.Tree, o.Index, nav.CleanSlug(l.Slug))
}

func locate(g *Global, tree nav.Tree, pages *nav.Index, slug string) error {
	prev, next, found := nav.Neighbors(tree, slug)
	if !found {
		msg := "page is not in the navigation"
		if !pages.Has(slug) {
			msg = "page does not exist"
		}
		return errors.NewError(errors.CategoryNotFound, msg).
			WithContext("slug", slug).
			Build()
	}
	crumbs, _ := nav.Breadcrumbs(tree, slug)
	label := slug
	for _, link := range tree.Flatten() {
		if link.Slug == slug {
			label = link.Label
			break
		}
	}

	_, _ = fmt.Fprintf(g.Out, "Page:     %s\n", strings.Join(append(crumbs, label), " > "))
	_, _ = fmt.Fprintf(g.Out, "Previous: %s\n", describe(prev))
	_, _ = fmt.Fprintf(g.Out, "Next:     %s\n", describe(next))
	return nil
}

func describe(link *nav.LinkNode) string {
	if link == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", link.Label, link.Slug)
}
