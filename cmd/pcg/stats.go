package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/pcgrand/internal/quality"
)

// reportStyles are bound to one renderer so the color profile follows the
// destination rather than the process's stdout.
type reportStyles struct {
	header lipgloss.Style
	name   lipgloss.Style
	value  lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
}

func newReportStyles(r *lipgloss.Renderer) reportStyles {
	return reportStyles{
		header: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),
		name: r.NewStyle().
			Foreground(lipgloss.Color("12")).
			Width(20),
		value: r.NewStyle().
			Width(14).
			Align(lipgloss.Right),
		pass: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10")),
		fail: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")),
	}
}

// StatsCmd runs the quality smoke tests.
type StatsCmd struct {
	GeneratorFlags

	Bytes int     `default:"1048576" help:"Sample size in bytes"`
	Alpha float64 `default:"0.0001" help:"Significance level per test"`
	Color string  `enum:"auto,always,never" default:"auto" help:"Colorize the report: auto, always or never"`
}

func (c *StatsCmd) Run(g *Globals) error {
	return c.run(g, os.Stdout)
}

func (c *StatsCmd) run(g *Globals, w io.Writer) error {
	logger := g.logger()
	src, _, err := c.source(g, logger)
	if err != nil {
		return err
	}

	report := quality.Analyze(src, quality.Options{Bytes: c.Bytes, Alpha: c.Alpha, Logger: &logger})
	fmt.Fprintln(w, renderReport(c.renderer(w), src.Variant().String(), report))

	if failed := report.Failures(); len(failed) > 0 {
		return fmt.Errorf("%d of %d tests failed", len(failed), len(report.Results))
	}
	return nil
}

func (c *StatsCmd) renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch c.Color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func renderReport(r *lipgloss.Renderer, variant string, report quality.Report) string {
	st := newReportStyles(r)

	var b strings.Builder
	b.WriteString(st.header.Render(fmt.Sprintf("%s: %d bytes, alpha %g", variant, report.Bytes, report.Alpha)))
	b.WriteString("\n")
	b.WriteString(st.name.Render("test") + st.value.Render("statistic") + st.value.Render("p-value") + "  result\n")
	for _, res := range report.Results {
		verdict := st.pass.Render("PASS")
		if !res.Pass {
			verdict = st.fail.Render("FAIL")
		}
		b.WriteString(st.name.Render(res.Name))
		b.WriteString(st.value.Render(fmt.Sprintf("%.4f", res.Statistic)))
		b.WriteString(st.value.Render(fmt.Sprintf("%.4g", res.PValue)))
		b.WriteString("  " + verdict + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
