package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

const displayCatalog = `
impairment: impair
scales:
  - id: core
    name: Core Screen
    description: Six questions.
    scoring: sum
    threshold: 4
    threshold_labels: {at_or_above: high risk, below: low risk}
    options: [{label: never, value: 0}, {label: always, value: 4}]
    questions: [{id: 1, text: Fidgets}, {id: 2, text: Forgets}]
  - id: impair
    name: Impairment
    scoring: mean
    domain_flag_threshold: 1.5
    options: [{label: never, value: 0}, {label: very often, value: 3}, {label: n/a, value: -1}]
    questions:
      - {id: 1, text: Late for work, domain: Work}
      - {id: 2, text: Argues at home, domain: Home}
`

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(displayCatalog))
	require.NoError(t, err)
	return cat
}

func TestWelcome(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Welcome(loadCatalog(t), true)

	out := buf.String()
	assert.Contains(t, out, "1. Core Screen (2 items)")
	assert.Contains(t, out, "2. Impairment (2 items)")
	assert.Contains(t, out, "AI interpretation")
	assert.NotContains(t, out, "\x1b[")
}

func TestWelcome_NoAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Welcome(loadCatalog(t), false)
	assert.NotContains(t, buf.String(), "AI interpretation")
}

func TestScaleHeader(t *testing.T) {
	cat := loadCatalog(t)
	s, _ := cat.Get("core")

	var buf bytes.Buffer
	NewPlainPrinter(&buf).ScaleHeader(0, 2, s, 1, 2)

	out := buf.String()
	assert.Contains(t, out, "[1/2] Core Screen")
	assert.Contains(t, out, "Six questions.")
	assert.Contains(t, out, "1/2 (50%)")
}

func TestQuestion_MarksCurrentAnswer(t *testing.T) {
	cat := loadCatalog(t)
	s, _ := cat.Get("impair")
	na := models.NotApplicable()

	var buf bytes.Buffer
	NewPlainPrinter(&buf).Question(2, 2, s.Questions[1], s.Options, &na)

	out := buf.String()
	assert.Contains(t, out, "Q2/2 · Home  Argues at home")
	assert.Contains(t, out, "   [1] never")
	assert.Contains(t, out, "  *[3] n/a")
}

func TestResults(t *testing.T) {
	cat := loadCatalog(t)
	answers := models.AnswerMap{}
	answers.Set("core", 1, models.Answered(4))
	answers.Set("core", 2, models.Answered(0))
	answers.Set("impair", 1, models.Answered(3))
	answers.Set("impair", 2, models.Answered(0))
	res := scoring.ComputeResults(models.Profile{Age: 25, Gender: models.GenderOther, IsStudent: true}, answers, cat)

	var buf bytes.Buffer
	NewPlainPrinter(&buf).Results(res, cat, "ABCD1234")

	out := buf.String()
	assert.Contains(t, out, "#ABCD1234")
	assert.Contains(t, out, "Age 25 | Other | student")
	assert.Contains(t, out, "4 / 8  high risk")
	assert.Contains(t, out, "1.50 / 3.00")
	assert.Contains(t, out, "Work           "+strings.Repeat("█", 20)+" 3.00")
	assert.Contains(t, out, "Home           "+strings.Repeat("·", 20)+" 0.00")
	assert.Contains(t, out, "! Work (3.00)")
	assert.Contains(t, out, "1 item(s) rated at the highest level")
	assert.Contains(t, out, "- Late for work")
}

func TestResults_NoRedFlags(t *testing.T) {
	cat := loadCatalog(t)
	res := scoring.ComputeResults(models.Profile{Age: 40, Gender: models.GenderMale}, models.AnswerMap{}, cat)

	var buf bytes.Buffer
	NewPlainPrinter(&buf).Results(res, cat, "X")

	out := buf.String()
	assert.Contains(t, out, "0 / 8  low risk")
	assert.NotContains(t, out, "Areas of notable impairment")
}

func TestDomainChart_ClampsBar(t *testing.T) {
	s := &models.Scale{
		ID:          "impair",
		ScoringType: models.ScoringMean,
		Options:     []models.Option{{Label: "low", Value: -2}, {Label: "high", Value: 3}},
		Questions: []models.Question{
			{ID: 1, Text: "a", Domain: "Work"},
			{ID: 2, Text: "b", Domain: "Home"},
		},
	}
	means := map[string]float64{"Work": -2, "Home": 9}

	var buf bytes.Buffer
	require.NotPanics(t, func() {
		NewPlainPrinter(&buf).domainChart(s, models.Profile{Age: 30}, means)
	})
	out := buf.String()
	assert.Contains(t, out, "Work           "+strings.Repeat("·", 20)+" -2.00")
	assert.Contains(t, out, "Home           "+strings.Repeat("█", 20)+" 9.00")
}

func TestReferences(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlainPrinter(&buf)
	p.References(nil)
	assert.Empty(t, buf.String())

	p.References([]models.Reference{{Name: "ASRS", Source: "WHO"}})
	assert.Contains(t, buf.String(), "ASRS: WHO")
}

func TestScales(t *testing.T) {
	var buf bytes.Buffer
	NewPlainPrinter(&buf).Scales(loadCatalog(t))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "cutoff=4")
	assert.Contains(t, lines[1], "cutoff=-")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestWarningDisplay(t *testing.T) {
	tests := []struct {
		name     string
		warning  Warning
		contains []string
		absent   []string
	}{
		{
			name:     "title only",
			warning:  Warning{Title: "Something"},
			contains: []string{"Warning: Something"},
			absent:   []string{"Suggestion:"},
		},
		{
			name: "all fields",
			warning: Warning{
				Title:      "Config",
				Message:    "bad value",
				Details:    []string{"one", "two"},
				Suggestion: "fix it",
			},
			contains: []string{"    bad value\n", "      - one\n", "      - two\n", "    Suggestion:\n    fix it\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.warning.Display(&buf)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestAnalysisUnavailable(t *testing.T) {
	assert.Contains(t, AnalysisUnavailable(true).Suggestion, "retry")
	assert.NotContains(t, AnalysisUnavailable(false).Suggestion, "retry")
	assert.Contains(t, AnalysisUnavailable(false).Message, "complete")
}

func TestProgressIndicator(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressIndicator(&buf, 3)
	p.Step("ASRS-5")
	p.Step("WFIRS-S")
	p.Complete()

	out := buf.String()
	assert.Equal(t, 2, p.Current())
	assert.Contains(t, out, "[1/3] ASRS-5")
	assert.Contains(t, out, "[2/3] WFIRS-S")
	assert.Contains(t, out, "Completed 2 of 3 scales")
}
