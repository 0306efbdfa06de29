package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/logger"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/report"
	"github.com/harrison/adhdscreen/internal/scoring"
)

const (
	barWidth  = 20
	ruleWidth = 60
)

// Printer writes the questionnaire screens.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer that colors output when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, color: IsTerminal(w)}
}

// NewPlainPrinter creates a printer that never colors.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{out: w}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) paint(s string, attrs ...color.Attribute) string {
	if !p.color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func (p *Printer) rule() {
	fmt.Fprintln(p.out, strings.Repeat("─", ruleWidth))
}

// Welcome prints the title screen.
func (p *Printer) Welcome(cat *catalog.Catalog, analysis bool) {
	p.rule()
	fmt.Fprintln(p.out, p.paint(report.Title, color.Bold))
	p.rule()
	fmt.Fprintln(p.out, "This self-assessment walks through the following scales:")
	for i, s := range cat.Scales() {
		fmt.Fprintf(p.out, "  %d. %s (%d items)\n", i+1, s.Name, len(s.Questions))
	}
	fmt.Fprintln(p.out)
	if analysis {
		fmt.Fprintln(p.out, "An AI interpretation of your scores will be requested at the end.")
	}
	fmt.Fprintln(p.out, p.paint("This is a screening aid, not a diagnosis.", color.Faint))
	fmt.Fprintln(p.out)
}

// ScaleHeader prints the scale title, its position in the catalog and the
// answered-item bar.
func (p *Printer) ScaleHeader(index, count int, s *models.Scale, answered, total int) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "%s %s\n", p.paint(fmt.Sprintf("[%d/%d]", index+1, count), color.FgCyan), p.paint(s.Name, color.Bold))
	if s.Description != "" {
		fmt.Fprintln(p.out, s.Description)
	}
	bar := logger.NewProgressBar(total, barWidth, p.color)
	bar.Update(answered)
	fmt.Fprintln(p.out, bar.Render())
}

// Question prints one item with its numbered options. current marks the
// previously recorded answer, if any.
func (p *Printer) Question(pos, total int, q models.Question, options []models.Option, current *models.Response) {
	fmt.Fprintln(p.out)
	prefix := fmt.Sprintf("Q%d/%d", pos, total)
	if q.Domain != "" {
		prefix += " · " + q.Domain
	}
	fmt.Fprintf(p.out, "%s  %s\n", p.paint(prefix, color.Faint), q.Text)
	for i, o := range options {
		mark := " "
		if current != nil && current.NotApplicable == o.NotApplicable && (o.NotApplicable || current.Value == o.Value) {
			mark = "*"
		}
		fmt.Fprintf(p.out, "  %s[%d] %s\n", mark, i+1, o.Label)
	}
}

// Results prints the deterministic score panel.
func (p *Printer) Results(res models.Results, cat *catalog.Catalog, sessionID string) {
	fmt.Fprintln(p.out)
	p.rule()
	fmt.Fprintf(p.out, "%s  #%s\n", p.paint("Results", color.Bold), sessionID)
	fmt.Fprintf(p.out, "Age %d | %s", res.Profile.Age, res.Profile.Gender.Label())
	if res.Profile.IsStudent {
		fmt.Fprint(p.out, " | student")
	}
	fmt.Fprintln(p.out)
	p.rule()

	for _, s := range cat.Scales() {
		p.scoreLine(s, res)
		if means := res.Domains(s.ID); means != nil {
			p.domainChart(s, res.Profile, means)
		}
	}

	p.redFlags(res, cat)
}

func (p *Printer) scoreLine(s *models.Scale, res models.Results) {
	score := res.Score(s.ID)
	line := fmt.Sprintf("%-40s %s / %s", s.Name,
		report.FormatScore(s, score), report.FormatScore(s, scoring.MaxScore(s, res.Profile)))

	switch b := scoring.Classify(s, score); b {
	case scoring.BandAtOrAbove:
		line += "  " + p.paint(scoring.BandLabel(s, b), color.FgRed, color.Bold)
	case scoring.BandBelow:
		line += "  " + p.paint(scoring.BandLabel(s, b), color.FgGreen)
	}
	fmt.Fprintln(p.out, line)
}

func (p *Printer) domainChart(s *models.Scale, profile models.Profile, means map[string]float64) {
	top := s.MaxOptionValue()
	flagged := make(map[string]bool)
	for _, d := range scoring.FlaggedDomains(s, profile, means) {
		flagged[d.Domain] = true
	}

	for _, name := range scoring.DomainOrder(s, profile) {
		m := means[name]
		filled := 0
		if top > 0 {
			filled = int(m / top * barWidth)
		}
		if filled < 0 {
			filled = 0
		}
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled)
		if flagged[name] {
			bar = p.paint(bar, color.FgRed)
		}
		fmt.Fprintf(p.out, "    %-14s %s %.2f\n", name, bar, m)
	}
}

func (p *Printer) redFlags(res models.Results, cat *catalog.Catalog) {
	imp := cat.Impairment()
	if imp == nil {
		return
	}
	flagged := scoring.FlaggedDomains(imp, res.Profile, res.Domains(imp.ID))
	severe := scoring.SevereItems(imp, res.Profile, res.Answers)
	if len(flagged) == 0 && len(severe) == 0 {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint("Areas of notable impairment", color.FgRed, color.Bold))
	for _, d := range flagged {
		fmt.Fprintf(p.out, "  ! %s (%.2f)\n", d.Domain, d.Mean)
	}
	if len(severe) > 0 {
		fmt.Fprintf(p.out, "  %d item(s) rated at the highest level:\n", len(severe))
		for _, q := range severe {
			fmt.Fprintf(p.out, "    - %s\n", q.Text)
		}
	}
}

// Pending tells the respondent an interpretation is being prepared.
func (p *Printer) Pending(provider string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint(fmt.Sprintf("Requesting AI interpretation from %s...", provider), color.FgCyan))
}

// Interpretation prints a successful interpretation.
func (p *Printer) Interpretation(markdown string) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint("AI interpretation", color.Bold))
	p.rule()
	fmt.Fprintln(p.out, RenderMarkdown(markdown))
	p.rule()
}

// References prints the catalog's citations.
func (p *Printer) References(refs []models.Reference) {
	if len(refs) == 0 {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.paint("References", color.Faint))
	for _, r := range refs {
		fmt.Fprintf(p.out, "  %s: %s\n", r.Name, r.Source)
	}
}

// Scales lists the catalog.
func (p *Printer) Scales(cat *catalog.Catalog) {
	for _, s := range cat.Scales() {
		cutoff := "-"
		if s.Threshold != nil {
			cutoff = report.FormatScore(s, *s.Threshold)
		}
		fmt.Fprintf(p.out, "%-10s %-40s %-5s items=%-3d cutoff=%s\n", s.ID, s.Name, s.ScoringType, len(s.Questions), cutoff)
	}
}
