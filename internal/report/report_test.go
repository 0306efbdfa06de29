package report

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

const reportCatalog = `
impairment: impair
scales:
  - id: core
    name: Core Screen
    scoring: sum
    threshold: 6
    threshold_labels: {at_or_above: high risk, below: low risk}
    options: [{label: never, value: 0}, {label: often, value: 2}, {label: always, value: 4}]
    questions: [{id: 1, text: a}, {id: 2, text: b}]
  - id: impair
    name: Impairment
    scoring: mean
    student_only_domain: School
    domain_flag_threshold: 1.5
    options: [{label: never, value: 0}, {label: sometimes, value: 1}, {label: often, value: 2}, {label: n/a, value: -1}]
    questions:
      - {id: 1, text: c, domain: Work}
      - {id: 2, text: d, domain: Work}
      - {id: 3, text: e, domain: Home}
      - {id: 4, text: f, domain: School}
  - id: extra
    name: Extra
    scoring: sum
    options: [{label: no, value: 0}, {label: yes, value: 1}]
    questions: [{id: 1, text: g}]
`

func sampleResults(t *testing.T) (models.Results, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Parse([]byte(reportCatalog))
	require.NoError(t, err)

	answers := models.AnswerMap{}
	answers.Set("core", 1, models.Answered(4))
	answers.Set("core", 2, models.Answered(2))
	answers.Set("impair", 1, models.Answered(2))
	answers.Set("impair", 2, models.Answered(2))
	answers.Set("impair", 3, models.NotApplicable())
	answers.Set("extra", 1, models.Answered(1))

	profile := models.Profile{Age: 29, Gender: models.GenderFemale}
	return scoring.ComputeResults(profile, answers, cat), cat
}

func TestShareText_FieldOrder(t *testing.T) {
	res, cat := sampleResults(t)

	text := ShareText(res, cat, "AB12CD34")
	lines := strings.Split(text, "\n")

	require.GreaterOrEqual(t, len(lines), 10)
	assert.Equal(t, Title, lines[0])
	assert.Equal(t, "Session: #AB12CD34", lines[1])
	assert.Equal(t, "Age: 29 | Gender: Female", lines[2])
	assert.Contains(t, text, "- Core Screen: 6 / 8 (high risk)\n")
	assert.Contains(t, text, "- Impairment: 2.00 / 2.00\n")
	assert.Contains(t, text, "- Extra: 1 / 1\n")
	assert.Contains(t, text, "- Work: 2.00 (significant)\n")
	assert.NotContains(t, text, "Home")
	assert.True(t, strings.HasSuffix(text, Disclaimer))

	assert.Less(t, strings.Index(text, "Core Screen"), strings.Index(text, "Impairment:"))
	assert.Less(t, strings.Index(text, "Impairment:"), strings.Index(text, "Extra"))
}

func TestShareText_NoFlaggedDomains(t *testing.T) {
	cat, err := catalog.Parse([]byte(reportCatalog))
	require.NoError(t, err)
	res := scoring.ComputeResults(models.Profile{Age: 40, Gender: models.GenderOther}, models.AnswerMap{}, cat)

	text := ShareText(res, cat, "X")
	assert.Contains(t, text, "- none flagged")
	assert.Contains(t, text, "- Core Screen: 0 / 8 (low risk)")
}

func TestShareText_Stable(t *testing.T) {
	res, cat := sampleResults(t)
	assert.Equal(t, ShareText(res, cat, "ID"), ShareText(res, cat, "ID"))
}

func TestShareText_DefaultCatalog(t *testing.T) {
	cat := catalog.Default()
	res := scoring.ComputeResults(models.Profile{Age: 30, Gender: models.GenderMale}, models.AnswerMap{}, cat)

	text := ShareText(res, cat, "S")
	for _, s := range cat.Scales() {
		assert.Contains(t, text, s.Name)
	}
}

func TestJSON(t *testing.T) {
	res, cat := sampleResults(t)

	data, err := JSON(res, cat, "AB12")
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "AB12", doc.SessionID)
	assert.Equal(t, 29, doc.Profile.Age)
	require.Len(t, doc.Scales, 3)

	core := doc.Scales[0]
	assert.Equal(t, "core", core.ID)
	assert.Equal(t, 6.0, core.Score)
	assert.Equal(t, 8.0, core.Max)
	assert.Equal(t, "at_or_above", core.Band)
	assert.Equal(t, "high risk", core.Label)
	assert.Equal(t, 2, core.Answered)

	impair := doc.Scales[1]
	assert.Equal(t, 3, impair.Items, "school item excluded for non-students")
	assert.Equal(t, -1.0, impair.Answers[3])
	require.Len(t, impair.Domains, 2)
	assert.Equal(t, Domain{Name: "Work", Mean: 2, Flagged: true}, impair.Domains[0])
	assert.Equal(t, Domain{Name: "Home", Mean: 0, Flagged: false}, impair.Domains[1])

	assert.Equal(t, "none", doc.Scales[2].Band)
	assert.Empty(t, doc.Scales[2].Domains)
}

func TestNewDocument_DropsStaleSchoolAnswer(t *testing.T) {
	res, cat := sampleResults(t)
	res.Answers.Set("impair", 4, models.Answered(2))

	doc := NewDocument(res, cat, "AB12")
	impair := doc.Scales[1]
	assert.Equal(t, map[int]float64{1: 2, 2: 2, 3: -1}, impair.Answers)
	assert.NotContains(t, ShareText(res, cat, "AB12"), "School")
}

func TestFormatScore(t *testing.T) {
	sum := &models.Scale{ScoringType: models.ScoringSum}
	mean := &models.Scale{ScoringType: models.ScoringMean}

	assert.Equal(t, "12", FormatScore(sum, 12))
	assert.Equal(t, "2.5", FormatScore(sum, 2.5))
	assert.Equal(t, "1.67", FormatScore(mean, 5.0/3))
	assert.Equal(t, "0.00", FormatScore(mean, 0))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "summary.txt")

	require.NoError(t, WriteFile(path, []byte("first")))
	require.NoError(t, WriteFile(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestWriteFile_NoPath(t *testing.T) {
	assert.ErrorIs(t, WriteFile("", []byte("x")), ErrNoPath)
}

func TestWriteFile_Concurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	payloads := []string{"alpha", "bravo", "charlie", "delta", "echo"}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, WriteFile(path, []byte(strings.Repeat(p, 100))))
		}(p)
	}
	wg.Wait()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	whole := false
	for _, p := range payloads {
		if string(got) == strings.Repeat(p, 100) {
			whole = true
		}
	}
	assert.True(t, whole, "file holds exactly one complete payload")
}
