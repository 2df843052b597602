package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Locale []string `short:"l" help:"Only resolve these locales"`
}

type resolvedLocale struct {
	Locale   string              `json:"locale"`
	Resolved bool                `json:"resolved"`
	Tree     *nav.Tree           `json:"tree,omitempty"`
	Problems []linkcheck.Finding `json:"problems,omitempty"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	outcomes, err := pipeline.New(cfg, pipelineLocales(r.Locale)...).Run(context.Background())
	if err != nil {
		return err
	}

	failed := false
	results := make([]resolvedLocale, 0, len(outcomes))
	for _, o := range outcomes {
		res := resolvedLocale{Locale: localeName(o), Resolved: o.Resolved}
		if o.Resolved {
			tree := o.Tree
			res.Tree = &tree
		} else {
			res.Problems = treeFindings(o.Report)
			failed = true
		}
		results = append(results, res)
	}

	if r.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return errors.InternalError(err, "encode navigation").Build()
		}
	} else {
		for i, res := range results {
			if i > 0 {
				_, _ = fmt.Fprintln(g.Out)
			}
			_, _ = fmt.Fprintf(g.Out, "Sidebar for locale: %s\n", res.Locale)
			if res.Tree != nil {
				printTree(g.Out, res.Tree.Nodes, 1)
				continue
			}
			for _, p := range res.Problems {
				_, _ = fmt.Fprintf(g.Out, "  ✗ %s\n", p.Message)
			}
		}
	}

	if failed {
		return &ExitError{Code: 2}
	}
	return nil
}
