package linkcheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter renders a validation report.
type Formatter interface {
	Format(w io.Writer, report *Report, locale string) error
}

// TextFormatter renders reports for terminals.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format writes one block per finding followed by a summary.
func (f *TextFormatter) Format(w io.Writer, report *Report, locale string) error {
	p := &printer{w: w}
	if locale != "" {
		p.printf("Checking navigation for locale: %s\n", locale)
	} else {
		p.printf("Checking navigation\n")
	}
	p.printf("%s\n\n", strings.Repeat("━", 60))

	for _, finding := range report.Findings {
		f.formatFinding(p, finding)
		p.printf("\n")
	}

	p.printf("%s\n", strings.Repeat("━", 60))
	p.printf("Results:\n")
	p.printf("  %d page%s indexed\n", report.PagesTotal, pluralize(report.PagesTotal))
	p.printf("  %d navigation link%s\n", report.NavTotal, pluralize(report.NavTotal))
	p.printf("  %d content link%s checked\n", report.LinksTotal, pluralize(report.LinksTotal))
	if n := report.ErrorCount(); n > 0 {
		p.printf("  %d error%s (blocks build)\n", n, pluralize(n))
	}
	if n := report.WarningCount(); n > 0 {
		p.printf("  %d warning%s (should fix)\n", n, pluralize(n))
	}
	p.printf("\n")

	switch {
	case report.HasErrors():
		p.printf("❌ Navigation has errors that will prevent the build.\n")
	case report.HasWarnings():
		p.printf("⚠️  Navigation has warnings. Consider fixing before commit.\n")
	default:
		p.printf("✨ Navigation and links are valid!\n")
	}
	return p.err
}

func (f *TextFormatter) formatFinding(p *printer, finding Finding) {
	icon := "⚠"
	if finding.Severity == SeverityError {
		icon = "✗"
	}
	subject := finding.Slug
	if finding.Kind == KindBrokenLink {
		subject = finding.Source
		if finding.Line > 0 {
			subject = fmt.Sprintf("%s:%d", subject, finding.Line)
		}
	}
	p.printf("%s %s [%s]\n", icon, subject, finding.Kind)
	p.printf("  %s: %s\n", finding.Severity, finding.Message)
}

// printer keeps the first write error so Format can check it once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// JSONFormatter renders reports as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the JSON document written by JSONFormatter.
type JSONOutput struct {
	Locale       string    `json:"locale,omitempty"`
	PagesTotal   int       `json:"pages_total"`
	NavTotal     int       `json:"nav_total"`
	LinksTotal   int       `json:"links_total"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	Findings     []Finding `json:"findings"`
}

// Format writes the report as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, report *Report, locale string) error {
	output := JSONOutput{
		Locale:       locale,
		PagesTotal:   report.PagesTotal,
		NavTotal:     report.NavTotal,
		LinksTotal:   report.LinksTotal,
		ErrorCount:   report.ErrorCount(),
		WarningCount: report.WarningCount(),
		Findings:     report.Findings,
	}
	if output.Findings == nil {
		output.Findings = []Finding{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter returns the formatter for format; anything but "json" gets text.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewTextFormatter()
	}
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
