// Package report renders scored results for people and programs outside the
// interactive session: the plain-text share block and the JSON export.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

// Title heads the share block.
const Title = "Adult ADHD Self-Assessment Summary"

// Disclaimer closes the share block.
const Disclaimer = "This summary is for reference only and is not a diagnosis. " +
	"Discuss the full results with a qualified clinician."

// FormatScore renders a score the way every surface shows it: two decimals
// for mean scales, shortest exact form for sum scales.
func FormatScore(s *models.Scale, v float64) string {
	if s.ScoringType == models.ScoringMean {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScoreLine renders "name: score / max (label)". The label is omitted for
// scales without a threshold.
func ScoreLine(s *models.Scale, res models.Results) string {
	score := res.Score(s.ID)
	line := fmt.Sprintf("%s: %s / %s", s.Name, FormatScore(s, score), FormatScore(s, scoring.MaxScore(s, res.Profile)))
	if b := scoring.Classify(s, score); b != scoring.BandNone {
		line += " (" + scoring.BandLabel(s, b) + ")"
	}
	return line
}

// ShareText builds the fixed-order plain-text summary: title, session id,
// profile, one line per scale, flagged impairment domains, disclaimer.
func ShareText(res models.Results, cat *catalog.Catalog, sessionID string) string {
	var b strings.Builder

	b.WriteString(Title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Session: #%s\n", sessionID)
	fmt.Fprintf(&b, "Age: %d | Gender: %s\n", res.Profile.Age, res.Profile.Gender.Label())

	b.WriteString("\nScores:\n")
	for _, s := range cat.Scales() {
		b.WriteString("- ")
		b.WriteString(ScoreLine(s, res))
		b.WriteString("\n")
	}

	if imp := cat.Impairment(); imp != nil {
		b.WriteString("\nImpaired domains:\n")
		flagged := scoring.FlaggedDomains(imp, res.Profile, res.Domains(imp.ID))
		if len(flagged) == 0 {
			b.WriteString("- none flagged\n")
		}
		for _, d := range flagged {
			fmt.Fprintf(&b, "- %s: %.2f (significant)\n", d.Domain, d.Mean)
		}
	}

	b.WriteString("\n")
	b.WriteString(Disclaimer)
	return b.String()
}
