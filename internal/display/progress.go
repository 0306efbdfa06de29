package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ProgressIndicator prints one line per completed scale.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgressIndicator creates an indicator for total scales.
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Step records one finished scale: [N/Total] name
func (p *ProgressIndicator) Step(name string) {
	p.current++
	color.New(color.FgCyan).Fprintf(p.writer, "  [%d/%d] %s\n", p.current, p.total, name)
}

// Current returns how many steps have been recorded.
func (p *ProgressIndicator) Current() int {
	return p.current
}

// Complete prints the closing line with a green check.
func (p *ProgressIndicator) Complete() {
	check := color.New(color.FgGreen).Sprint("✓")
	fmt.Fprintf(p.writer, "%s Completed %d of %d scales\n", check, p.current, p.total)
}
