package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/store"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Number of runs to show"`
	Build string `short:"b" help:"Show the findings of one build"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	if h.Build != "" {
		findings, err := db.Findings(ctx, h.Build)
		if err != nil {
			return err
		}
		if len(findings) == 0 {
			_, _ = fmt.Fprintf(g.Out, "No findings recorded for build %s\n", h.Build)
			return nil
		}
		for _, f := range findings {
			_, _ = fmt.Fprintln(g.Out, f.String())
		}
		return nil
	}

	runs, err := db.Recent(ctx, h.Limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tBUILD\tLOCALE\tOUTCOME\tPAGES\tLINKS\tERRORS\tWARNINGS")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.StartedAt.Local().Format(time.DateTime), r.BuildID, localeOrDefault(r.Locale),
			r.Outcome, r.Pages, r.Links, r.Errors, r.Warnings)
	}
	return tw.Flush()
}

func openHistory(cfg *config.Config) (*store.SQLiteStore, error) {
	if cfg.Store.Path == "" {
		return nil, errors.ConfigError("no history store configured (set store.path)").
			UserAction().
			Build()
	}
	return store.NewSQLiteStore(cfg.Store.Path)
}

func localeOrDefault(code string) string {
	if code == "" {
		return "default"
	}
	return code
}
