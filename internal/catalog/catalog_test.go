package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/adhdscreen/internal/models"
)

func TestDefault_BuiltinScales(t *testing.T) {
	c := Default()
	require.NotNil(t, c)

	ids := make([]string, 0, c.Len())
	for _, s := range c.Scales() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"asrs5", "wfirs_s", "bdefs_sf", "aamm", "wurs25"}, ids)

	tests := []struct {
		id        string
		scoring   models.ScoringType
		questions int
		threshold *float64
	}{
		{"asrs5", models.ScoringSum, 6, ptr(14)},
		{"wfirs_s", models.ScoringMean, 29, nil},
		{"bdefs_sf", models.ScoringSum, 12, nil},
		{"aamm", models.ScoringSum, 7, nil},
		{"wurs25", models.ScoringSum, 17, ptr(46)},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, ok := c.Get(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.scoring, s.ScoringType)
			assert.Len(t, s.Questions, tt.questions)
			assert.Equal(t, tt.threshold, s.Threshold)
		})
	}
}

func TestDefault_ImpairmentScale(t *testing.T) {
	imp := Default().Impairment()
	require.NotNil(t, imp)
	assert.Equal(t, "wfirs_s", imp.ID)
	assert.Equal(t, "School", imp.StudentOnlyDomain)
	require.NotNil(t, imp.DomainFlagThreshold)
	assert.Equal(t, 1.5, *imp.DomainFlagThreshold)

	na, ok := imp.OptionByValue(models.NotApplicableValue)
	require.True(t, ok)
	assert.True(t, na.NotApplicable)
	assert.Equal(t, 0.0, na.Value, "not-applicable carries no score")

	nonStudent := imp.EffectiveQuestions(models.Profile{Age: 35, Gender: models.GenderFemale})
	student := imp.EffectiveQuestions(models.Profile{Age: 20, Gender: models.GenderFemale, IsStudent: true})
	assert.Len(t, nonStudent, 25)
	assert.Len(t, student, 29)
}

func TestDefault_References(t *testing.T) {
	refs := Default().References()
	require.Len(t, refs, 5)
	assert.Equal(t, "ASRS-5", refs[0].Name)
}

func TestDefault_SameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestCatalog_At(t *testing.T) {
	c := Default()
	s, ok := c.At(0)
	require.True(t, ok)
	assert.Equal(t, "asrs5", s.ID)

	_, ok = c.At(c.Len())
	assert.False(t, ok)
	_, ok = c.At(-1)
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "scales: [",
			wantErr: "failed to parse catalog YAML",
		},
		{
			name:    "empty catalog",
			yaml:    "scales: []",
			wantErr: "no scales",
		},
		{
			name: "unknown scoring type",
			yaml: `
scales:
  - id: a
    scoring: median
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q}]
`,
			wantErr: "unknown scoring type",
		},
		{
			name: "duplicate question id",
			yaml: `
scales:
  - id: a
    scoring: sum
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q}, {id: 1, text: r}]
`,
			wantErr: "duplicate question id 1",
		},
		{
			name: "duplicate scale id",
			yaml: `
scales:
  - id: a
    scoring: sum
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q}]
  - id: a
    scoring: sum
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q}]
`,
			wantErr: `duplicate scale id "a"`,
		},
		{
			name: "only not-applicable option",
			yaml: `
scales:
  - id: a
    scoring: mean
    options: [{label: n/a, value: -1}]
    questions: [{id: 1, text: q}]
`,
			wantErr: "at least one scored option",
		},
		{
			name: "negative scored option",
			yaml: `
scales:
  - id: a
    scoring: mean
    options: [{label: x, value: 1}, {label: y, value: -2}, {label: n/a, value: -1}]
    questions: [{id: 1, text: q}]
`,
			wantErr: "negative value -2",
		},
		{
			name: "student domain without questions",
			yaml: `
scales:
  - id: a
    scoring: mean
    student_only_domain: School
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q, domain: Work}]
`,
			wantErr: "student-only domain",
		},
		{
			name: "unknown impairment scale",
			yaml: `
impairment: missing
scales:
  - id: a
    scoring: sum
    options: [{label: x, value: 1}]
    questions: [{id: 1, text: q}]
`,
			wantErr: `impairment scale "missing"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_PromotesNotApplicable(t *testing.T) {
	c, err := Parse([]byte(`
scales:
  - id: a
    scoring: mean
    options:
      - {label: none, value: 0}
      - {label: n/a, value: -1}
    questions: [{id: 1, text: q}]
`))
	require.NoError(t, err)
	s, _ := c.Get("a")
	require.Len(t, s.Options, 2)
	assert.False(t, s.Options[0].NotApplicable)
	assert.True(t, s.Options[1].NotApplicable)
	assert.Nil(t, c.Impairment())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scales.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scales:
  - id: only
    scoring: sum
    options: [{label: no, value: 0}, {label: yes, value: 1}]
    questions: [{id: 1, text: q}]
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Same(t, Default(), c)
}

func ptr(v float64) *float64 { return &v }
