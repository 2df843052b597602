package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Format      string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Strict      bool     `help:"Fail on warnings as well as errors"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics to this file (overrides metrics.file)" type:"path"`
	Locale      []string `short:"l" help:"Only check these locales"`
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if c.MetricsFile != "" {
		cfg.Metrics.File = c.MetricsFile
	}

	ctx := context.Background()
	svc, err := openServices(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer svc.close()

	outcomes, err := svc.runner(cfg, pipelineLocales(c.Locale)...).Run(ctx)
	if err != nil {
		return err
	}
	svc.writeMetrics(cfg)

	if err := report(g.Out, linkcheck.NewFormatter(c.Format), outcomes); err != nil {
		return err
	}

	failOnWarnings := c.Strict || cfg.Validation.FailOnWarnings
	if code := exitCodeFor(outcomes, failOnWarnings); code != 0 {
		slog.Debug("Check failed", slog.Int("exit_code", code))
		return &ExitError{Code: code}
	}
	return nil
}
