package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/display"
	"github.com/harrison/adhdscreen/internal/logger"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/report"
	"github.com/harrison/adhdscreen/internal/session"
	"github.com/harrison/adhdscreen/internal/summary"
)

// answerSheet is a completed questionnaire read from a file.
//
//	profile: {age: 34, gender: female, is_student: false}
//	answers:
//	  asrs: {1: 3, 2: 4}
//	  wfirs: {1: 2, 2: -1}
type answerSheet struct {
	Profile struct {
		Age       int    `yaml:"age"`
		Gender    string `yaml:"gender"`
		IsStudent bool   `yaml:"is_student"`
	} `yaml:"profile"`
	Answers map[string]map[int]float64 `yaml:"answers"`
}

// NewScoreCommand creates the score command
func NewScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <answers.yaml>",
		Short: "Score a completed answer sheet",
		Long: `Score a completed answer sheet without prompting.

The sheet is YAML with a profile and the answers per scale, keyed by
question id. Use -1 for a "not applicable" answer:

  profile: {age: 34, gender: female, is_student: false}
  answers:
    asrs: {1: 3, 2: 4, 3: 2}
    wfirs: {1: 2, 2: -1}

Incomplete scales are scored from the answers given and reported.

Examples:
  adhdscreen score answers.yaml
  adhdscreen score answers.yaml --json --out result.json
  adhdscreen score answers.yaml --analyze --provider openai`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.Flags().Bool("analyze", false, "Request an AI interpretation of the scores")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read answer sheet: %w", err)
	}
	sess, incomplete, err := scoreSheet(data, cat)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	res := sess.Results()

	asJSON, _ := cmd.Flags().GetBool("json")
	analyze, _ := cmd.Flags().GetBool("analyze")
	out := cmd.OutOrStdout()

	if asJSON {
		doc, err := report.JSON(res, cat, sess.ShortID())
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if _, err := out.Write(doc); err != nil {
			return err
		}
	} else {
		p := display.NewPrinter(out)
		p.Results(res, cat, sess.ShortID())
		for _, id := range incomplete {
			fmt.Fprintf(out, "Note: scale %s is incomplete and was scored from the answers given.\n", id)
		}
	}

	if analyze {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		req, reason := newRequestor(ctx, cfg, cat, log)
		if req == nil {
			display.AnalysisDisabled(reason).Display(cmd.ErrOrStderr())
		} else {
			defer req.Close()
			target := out
			if asJSON {
				target = cmd.ErrOrStderr()
			}
			interpret(ctx, req, res, target, cmd.ErrOrStderr())
		}
	}

	if cfg.Output != "" {
		var payload []byte
		if asJSON {
			payload, err = report.JSON(res, cat, sess.ShortID())
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		} else {
			payload = []byte(report.ShareText(res, cat, sess.ShortID()) + "\n")
		}
		if err := report.WriteFile(cfg.Output, payload); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved to %s\n", cfg.Output)
	}
	return nil
}

func interpret(ctx context.Context, req *summary.Requestor, res models.Results, out, errOut io.Writer) {
	p := display.NewPrinter(errOut)
	p.Pending(req.ProviderName())

	outcome := req.Request(ctx, res)
	if outcome.Failed() {
		display.AnalysisUnavailable(false).Display(errOut)
		return
	}
	display.NewPrinter(out).Interpretation(outcome.Text)
}

// scoreSheet records every answer of the sheet into a new session. It
// returns the ids of scales left incomplete.
func scoreSheet(data []byte, cat *catalog.Catalog) (*session.Session, []string, error) {
	var sheet answerSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, nil, fmt.Errorf("invalid answer sheet: %w", err)
	}

	gender, err := models.ParseGender(sheet.Profile.Gender)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", session.ErrInvalidProfile, err)
	}
	sess := session.New(cat)
	profile := models.Profile{Age: sheet.Profile.Age, Gender: gender, IsStudent: sheet.Profile.IsStudent}
	if err := sess.SetProfile(profile); err != nil {
		return nil, nil, err
	}

	scaleIDs := make([]string, 0, len(sheet.Answers))
	for id := range sheet.Answers {
		scaleIDs = append(scaleIDs, id)
	}
	sort.Strings(scaleIDs)

	for _, scaleID := range scaleIDs {
		answers := sheet.Answers[scaleID]
		qids := make([]int, 0, len(answers))
		for q := range answers {
			qids = append(qids, q)
		}
		sort.Ints(qids)
		for _, q := range qids {
			if _, err := sess.Record(scaleID, q, answers[q]); err != nil {
				return nil, nil, err
			}
		}
	}

	var incomplete []string
	for _, s := range cat.Scales() {
		if !sess.IsComplete(s.ID) {
			incomplete = append(incomplete, s.ID)
		}
	}
	return sess, incomplete, nil
}

// sheetTemplate renders an answer sheet for the catalog, with every
// question a non-student adult sees set to the lowest option.
func sheetTemplate(cat *catalog.Catalog) ([]byte, error) {
	var sheet answerSheet
	sheet.Profile.Age = 30
	sheet.Profile.Gender = "other"
	profile := models.Profile{Age: 30, Gender: models.GenderOther}

	sheet.Answers = make(map[string]map[int]float64, cat.Len())
	for _, s := range cat.Scales() {
		low, found := 0.0, false
		for _, o := range s.Options {
			if o.NotApplicable {
				continue
			}
			if !found || o.Value < low {
				low, found = o.Value, true
			}
		}
		questions := s.EffectiveQuestions(profile)
		m := make(map[int]float64, len(questions))
		for _, q := range questions {
			m[q.ID] = low
		}
		sheet.Answers[s.ID] = m
	}
	data, err := yaml.Marshal(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return data, nil
}
