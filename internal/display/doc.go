// Package display renders the questionnaire in a terminal.
//
// All output goes through a Printer bound to an io.Writer, so every screen can
// be captured in tests:
//
//	p := display.NewPrinter(os.Stdout)
//	p.Welcome(cat, true)
//	p.ScaleHeader(0, cat.Len(), scale, answered, total)
//	p.Question(1, len(questions), q, scale.Options, nil)
//
// The result screen combines the deterministic scores with the optional
// interpretation:
//
//	p.Results(res, cat, sessionID)
//	p.Interpretation(summaryText)
//	display.AnalysisUnavailable(canRetry).Display(os.Stdout)
//
// Color is enabled only when the writer is a terminal. Interpretation text
// arrives as markdown and is flattened to plain text with RenderMarkdown.
package display
