package display

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning is a user-facing notice printed in yellow.
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Details    []string // Supporting lines (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning to out.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for _, d := range w.Details {
		b.WriteString("      - ")
		b.WriteString(d)
		b.WriteString("\n")
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// AnalysisUnavailable is shown in place of an interpretation after a failed
// request. The scores on screen are unaffected.
func AnalysisUnavailable(canRetry bool) Warning {
	w := Warning{
		Title:   "AI interpretation unavailable",
		Message: "Your scores above are complete and were calculated locally.",
	}
	if canRetry {
		w.Suggestion = "Choose [r] to retry the interpretation, or save the summary and review it with a clinician."
	} else {
		w.Suggestion = "Save the summary and review it with a clinician."
	}
	return w
}

// AnalysisDisabled explains why no interpretation will be requested.
func AnalysisDisabled(reason string) Warning {
	return Warning{
		Title:      "AI interpretation disabled",
		Message:    reason,
		Suggestion: "Set GEMINI_API_KEY or OPENAI_API_KEY (or pick --provider claude) to enable it.",
	}
}
