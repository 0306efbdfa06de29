package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func impairmentScale() *Scale {
	flag := 1.5
	return &Scale{
		ID:          "impair",
		ScoringType: ScoringMean,
		Options: []Option{
			{Label: "Never", Value: 0},
			{Label: "Sometimes", Value: 1},
			{Label: "Often", Value: 2},
			{Label: "Very often", Value: 3},
			{Label: "Not applicable", NotApplicable: true},
		},
		Questions: []Question{
			{ID: 1, Text: "family", Domain: "Family"},
			{ID: 21, Text: "school", Domain: "School"},
			{ID: 22, Text: "school", Domain: "School"},
			{ID: 31, Text: "life", Domain: "Life Skills"},
		},
		StudentOnlyDomain:   "School",
		DomainFlagThreshold: &flag,
	}
}

func questionIDs(qs []Question) []int {
	ids := make([]int, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

func TestScale_EffectiveQuestions(t *testing.T) {
	s := impairmentScale()

	tests := []struct {
		name    string
		profile Profile
		want    []int
	}{
		{"non-student drops school items", Profile{Age: 30, Gender: GenderMale}, []int{1, 31}},
		{"student keeps every item", Profile{Age: 20, Gender: GenderFemale, IsStudent: true}, []int{1, 21, 22, 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, questionIDs(s.EffectiveQuestions(tt.profile)))
		})
	}
}

func TestScale_EffectiveQuestionsWithoutStudentDomain(t *testing.T) {
	s := impairmentScale()
	s.StudentOnlyDomain = ""
	assert.Len(t, s.EffectiveQuestions(Profile{Age: 40}), 4)
}

func TestScale_EffectiveQuestion(t *testing.T) {
	s := impairmentScale()

	_, ok := s.EffectiveQuestion(Profile{Age: 30}, 21)
	assert.False(t, ok, "school item must not resolve for non-students")

	q, ok := s.EffectiveQuestion(Profile{Age: 30, IsStudent: true}, 21)
	require.True(t, ok)
	assert.Equal(t, "School", q.Domain)
}

func TestScale_OptionByValue(t *testing.T) {
	s := impairmentScale()

	o, ok := s.OptionByValue(-1)
	require.True(t, ok)
	assert.True(t, o.NotApplicable)
	assert.Equal(t, NotApplicable(), o.Response())

	o, ok = s.OptionByValue(2)
	require.True(t, ok)
	assert.Equal(t, "Often", o.Label)
	assert.Equal(t, Answered(2), o.Response())

	_, ok = s.OptionByValue(7)
	assert.False(t, ok)
}

func TestScale_OptionByValueWithoutNotApplicable(t *testing.T) {
	s := &Scale{Options: []Option{{Label: "Never", Value: 0}, {Label: "Often", Value: 4}}}
	_, ok := s.OptionByValue(-1)
	assert.False(t, ok)
}

func TestScale_OptionFor(t *testing.T) {
	s := impairmentScale()

	o, ok := s.OptionFor(NotApplicable())
	require.True(t, ok)
	assert.Equal(t, "Not applicable", o.Label)

	o, ok = s.OptionFor(Answered(0))
	require.True(t, ok)
	assert.Equal(t, "Never", o.Label)
}

func TestScale_MaxOptionValue(t *testing.T) {
	assert.Equal(t, 3.0, impairmentScale().MaxOptionValue())
	assert.Equal(t, 0.0, (&Scale{}).MaxOptionValue())
}

func TestAnswerMap(t *testing.T) {
	m := AnswerMap{}
	m.Set("impair", 1, Answered(2))
	m.Set("impair", 21, NotApplicable())
	m.Set("impair", 1, Answered(3))

	r, ok := m.Get("impair", 1)
	require.True(t, ok)
	assert.Equal(t, 3.0, r.Value, "later answer overwrites")

	_, ok = m.Get("other", 1)
	assert.False(t, ok)

	s := impairmentScale()
	assert.Equal(t, map[int]float64{1: 3, 21: -1}, m.WireValues(s, Profile{Age: 20, IsStudent: true}))
	assert.Equal(t, map[int]float64{1: 3}, m.WireValues(s, Profile{Age: 20}), "school answer dropped for a non-student")
	assert.Equal(t, []int{1, 21}, m.QuestionIDs("impair"))

	cp := m.Clone()
	cp.Set("impair", 1, Answered(0))
	r, _ = m.Get("impair", 1)
	assert.Equal(t, 3.0, r.Value, "clone must not alias the original")
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		in      string
		want    Gender
		wantErr bool
	}{
		{"MALE", GenderMale, false},
		{"f", GenderFemale, false},
		{"other", GenderOther, false},
		{"x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGender(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
