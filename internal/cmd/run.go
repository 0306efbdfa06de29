package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/display"
	"github.com/harrison/adhdscreen/internal/flow"
	"github.com/harrison/adhdscreen/internal/logger"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/report"
)

// MenuReader defines interface for reading user input (for testing)
type MenuReader interface {
	ReadString(delim byte) (string, error)
}

// DefaultMenuReader wraps bufio.Reader
type DefaultMenuReader struct {
	reader *bufio.Reader
}

// NewDefaultMenuReader reads lines from r.
func NewDefaultMenuReader(r io.Reader) *DefaultMenuReader {
	return &DefaultMenuReader{reader: bufio.NewReader(r)}
}

func (d *DefaultMenuReader) ReadString(delim byte) (string, error) {
	return d.reader.ReadString(delim)
}

// errQuit ends the interactive session without an error.
var errQuit = errors.New("quit")

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Take the questionnaire interactively",
		Long: `Take the questionnaire interactively in the terminal.

You enter a short profile, answer each scale in turn (you can go back at
any time), and see your scores. If an interpretation provider is configured,
an AI interpretation is requested at the end; if it fails, your scores are
still shown and you can retry.

Configuration is loaded from .adhdscreen/config.yaml if present.
CLI flags override configuration file settings. API keys are read from the
environment or a .env file.

Examples:
  adhdscreen run
  adhdscreen run --provider openai --model gpt-4o-mini
  adhdscreen run --no-analysis --out summary.txt
  adhdscreen run --catalog my-scales.yaml`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	addRunFlags(cmd)
	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	req, reason := newRequestor(ctx, cfg, cat, log)

	opts := sessionOptions{Output: cfg.Output, Provider: "none"}
	var sum flow.Summarizer
	if req != nil {
		defer req.Close()
		sum = req
		opts.Provider = req.ProviderName()
	} else if cfg.AnalysisActive() {
		// Analysis was requested but the provider could not be built.
		opts.Disabled = reason
	}

	ctl := flow.New(cat, sum, flow.WithLogger(log), flow.WithContext(ctx))
	in := NewDefaultMenuReader(cmd.InOrStdin())
	return runSession(ctx, in, cmd.OutOrStdout(), ctl, cat, opts)
}

type sessionOptions struct {
	// Output saves the share summary automatically when set.
	Output string
	// Provider names the interpretation provider for progress messages.
	Provider string
	// Disabled explains why analysis is unavailable despite being requested.
	Disabled string
}

type interactive struct {
	ctx  context.Context
	ctl  *flow.Controller
	cat  *catalog.Catalog
	in   MenuReader
	out  io.Writer
	p    *display.Printer
	opts sessionOptions

	// fromBack starts the next scale at its last question.
	fromBack bool
	saved    map[string]bool

	// progress reports each scale the first time it is finished.
	progress *display.ProgressIndicator
	finished map[string]bool
}

// runSession drives the controller from user input until the user quits or
// input ends.
func runSession(ctx context.Context, in MenuReader, out io.Writer, ctl *flow.Controller, cat *catalog.Catalog, opts sessionOptions) error {
	s := &interactive{
		ctx:   ctx,
		ctl:   ctl,
		cat:   cat,
		in:    in,
		out:   out,
		p:     display.NewPrinter(out),
		opts:  opts,
		saved: make(map[string]bool),
	}

	for {
		var err error
		switch ctl.State() {
		case flow.StateStart:
			err = s.welcome()
		case flow.StateProfiling:
			err = s.profile()
		case flow.StateAssessment:
			err = s.scale()
		case flow.StateAnalyzing:
			err = s.analyzing()
		case flow.StateResult:
			err = s.result()
		}

		if errors.Is(err, errQuit) {
			fmt.Fprintln(out, "Goodbye.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// prompt reads one trimmed line. End of input and "q" both quit.
func (s *interactive) prompt(msg string) (string, error) {
	fmt.Fprint(s.out, msg)
	line, err := s.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			fmt.Fprintln(s.out)
			return "", errQuit
		}
	}
	if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
		return "", errQuit
	}
	return line, nil
}

func (s *interactive) welcome() error {
	s.progress = nil
	v := s.ctl.View()
	s.p.Welcome(s.cat, v.Analysis && v.AnalysisAvailable)
	if s.opts.Disabled != "" {
		display.AnalysisDisabled(s.opts.Disabled).Display(s.out)
	}
	if _, err := s.prompt("Press Enter to begin (q to quit): "); err != nil {
		return err
	}
	s.ctl.Begin()
	return nil
}

func (s *interactive) profile() error {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "About you")

	var p models.Profile
	for {
		line, err := s.prompt(fmt.Sprintf("Age (%d-%d): ", models.MinAge, models.MaxAge))
		if err != nil {
			return err
		}
		age, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(s.out, "Please enter your age as a whole number.")
			continue
		}
		p.Age = age
		break
	}

	for {
		line, err := s.prompt("Gender [m]ale / [f]emale / [o]ther: ")
		if err != nil {
			return err
		}
		g, parseErr := models.ParseGender(line)
		if parseErr != nil {
			fmt.Fprintln(s.out, "Please enter m, f or o.")
			continue
		}
		p.Gender = g
		break
	}

	line, err := s.prompt("Are you currently a student? [y/N]: ")
	if err != nil {
		return err
	}
	p.IsStudent = yes(line, false)

	if s.ctl.AnalysisAvailable() {
		line, err := s.prompt("Request an AI interpretation at the end? [Y/n]: ")
		if err != nil {
			return err
		}
		s.ctl.SetAnalysis(yes(line, true))
	}

	if err := s.ctl.SubmitProfile(p); err != nil {
		fmt.Fprintf(s.out, "Invalid profile: %s\n", strings.TrimPrefix(err.Error(), "session: invalid profile: "))
	}
	return nil
}

func yes(line string, def bool) bool {
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}

func (s *interactive) scale() error {
	v := s.ctl.View()
	answered, total := s.ctl.Progress()
	s.p.ScaleHeader(v.ScaleIndex, v.ScaleCount, v.Scale, answered, total)

	questions := v.Questions
	options := v.Scale.Options
	i := s.startIndex(v)

	for i < len(questions) {
		q := questions[i]
		var current *models.Response
		if r, ok := s.ctl.View().Answers[q.ID]; ok {
			current = &r
		}
		s.p.Question(i+1, len(questions), q, options, current)

		hint := fmt.Sprintf("Choice [1-%d], b=back, q=quit: ", len(options))
		if current != nil {
			hint = fmt.Sprintf("Choice [1-%d], Enter=keep, b=back, q=quit: ", len(options))
		}
		line, err := s.prompt(hint)
		if err != nil {
			return err
		}

		switch {
		case strings.EqualFold(line, "b"):
			if i > 0 {
				i--
				continue
			}
			if s.ctl.Back() && s.ctl.State() == flow.StateAssessment {
				s.fromBack = true
			}
			return nil
		case line == "" && current != nil:
			i++
			continue
		}

		n, convErr := strconv.Atoi(line)
		if convErr != nil || n < 1 || n > len(options) {
			fmt.Fprintf(s.out, "Please choose a number from 1 to %d.\n", len(options))
			continue
		}
		opt := options[n-1]
		value := opt.Value
		if opt.NotApplicable {
			value = models.NotApplicableValue
		}
		if _, err := s.ctl.Answer(q.ID, value); err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		i++
	}

	last := v.ScaleIndex == v.ScaleCount-1
	if !s.ctl.Advance() {
		return fmt.Errorf("scale %s could not be completed", v.Scale.ID)
	}
	s.finish(v, last)
	return nil
}

// startIndex picks the first unanswered question, or the last question when
// the respondent stepped back into this scale.
func (s *interactive) startIndex(v flow.View) int {
	if s.fromBack {
		s.fromBack = false
		if len(v.Questions) > 0 {
			return len(v.Questions) - 1
		}
	}
	for i, q := range v.Questions {
		if _, ok := v.Answers[q.ID]; !ok {
			return i
		}
	}
	return len(v.Questions)
}

// finish steps the progress indicator for a scale just advanced past. A
// scale revisited with b=back is only counted once.
func (s *interactive) finish(v flow.View, last bool) {
	if s.progress == nil {
		s.progress = display.NewProgressIndicator(s.out, v.ScaleCount)
		s.finished = make(map[string]bool)
	}
	fmt.Fprintln(s.out)
	if !s.finished[v.Scale.ID] {
		s.finished[v.Scale.ID] = true
		s.progress.Step(v.Scale.Name)
	}
	if last {
		s.progress.Complete()
	}
}

func (s *interactive) analyzing() error {
	s.p.Pending(s.opts.Provider)
	return s.ctl.Wait(s.ctx)
}

func (s *interactive) result() error {
	v := s.ctl.View()
	res := *v.Results

	s.p.Results(res, s.cat, v.ShortID)
	switch v.Summary.Status {
	case flow.SummarySuccess:
		s.p.Interpretation(v.Summary.Text)
	case flow.SummaryFailed:
		fmt.Fprintln(s.out)
		display.AnalysisUnavailable(v.CanRetry).Display(s.out)
	}
	s.p.References(s.cat.References())

	if s.opts.Output != "" && !s.saved[v.SessionID] {
		s.save(s.opts.Output, res, v.ShortID)
		s.saved[v.SessionID] = true
	}

	for {
		fmt.Fprintln(s.out)
		if v.CanRetry {
			fmt.Fprintln(s.out, "[r] retry AI interpretation")
		}
		fmt.Fprintln(s.out, "[s] save summary  [t] show summary  [n] new assessment  [q] quit")
		line, err := s.prompt("> ")
		if err != nil {
			return err
		}

		switch strings.ToLower(line) {
		case "r":
			if !s.ctl.Retry() {
				fmt.Fprintln(s.out, "Retry is not available.")
				continue
			}
			s.p.Pending(s.opts.Provider)
			return s.ctl.Wait(s.ctx)
		case "s":
			path := s.opts.Output
			if path == "" {
				path = fmt.Sprintf("adhd-summary-%s.txt", v.ShortID)
			}
			s.save(path, res, v.ShortID)
		case "t":
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, report.ShareText(res, s.cat, v.ShortID))
		case "n":
			s.ctl.Reset()
			return nil
		default:
			fmt.Fprintln(s.out, "Unknown choice.")
		}
	}
}

func (s *interactive) save(path string, res models.Results, shortID string) {
	if err := report.WriteFile(path, []byte(report.ShareText(res, s.cat, shortID)+"\n")); err != nil {
		fmt.Fprintf(s.out, "Could not save summary: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Summary saved to %s\n", path)
}

