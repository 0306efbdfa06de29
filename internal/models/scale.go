package models

// ScoringType selects how a scale aggregates its item values.
type ScoringType string

const (
	ScoringSum  ScoringType = "sum"
	ScoringMean ScoringType = "mean"
)

// NotApplicableValue is the wire encoding of a "not applicable" answer.
// Inside the program the choice is carried as Option.NotApplicable and
// Response.NotApplicable instead.
const NotApplicableValue = -1

// Option is one legal response to a scale item.
type Option struct {
	Label         string  `yaml:"label" json:"label"`
	Value         float64 `yaml:"value" json:"value"`
	NotApplicable bool    `yaml:"not_applicable,omitempty" json:"not_applicable,omitempty"`
}

// Response converts the option into the value recorded in an AnswerMap.
func (o Option) Response() Response {
	if o.NotApplicable {
		return NotApplicable()
	}
	return Answered(o.Value)
}

// Question is a single scale item. IDs are unique within a scale only.
type Question struct {
	ID     int    `yaml:"id" json:"id"`
	Text   string `yaml:"text" json:"text"`
	Domain string `yaml:"domain,omitempty" json:"domain,omitempty"`
}

// ThresholdLabels names the two sides of a clinical cutoff.
type ThresholdLabels struct {
	AtOrAbove string `yaml:"at_or_above" json:"at_or_above"`
	Below     string `yaml:"below" json:"below"`
}

// Scale is a static questionnaire definition from the catalog.
type Scale struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	ScoringType ScoringType `yaml:"scoring" json:"scoring"`
	Options     []Option    `yaml:"options" json:"options"`
	Questions   []Question  `yaml:"questions" json:"questions"`

	// Threshold is the optional clinical cutoff compared with >=.
	Threshold       *float64        `yaml:"threshold,omitempty" json:"threshold,omitempty"`
	ThresholdLabels ThresholdLabels `yaml:"threshold_labels,omitempty" json:"threshold_labels,omitempty"`

	// StudentOnlyDomain marks a domain whose items apply only to students.
	StudentOnlyDomain string `yaml:"student_only_domain,omitempty" json:"student_only_domain,omitempty"`

	// DomainFlagThreshold flags domains whose mean meets or exceeds it.
	DomainFlagThreshold *float64 `yaml:"domain_flag_threshold,omitempty" json:"domain_flag_threshold,omitempty"`
}

// EffectiveQuestions returns the items that apply to the respondent, in
// catalog order. Student-only items are dropped for non-students. Every
// consumer of a scale's item set (validation, navigation, scoring) goes
// through this method.
func (s *Scale) EffectiveQuestions(p Profile) []Question {
	out := make([]Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		if !p.IsStudent && s.StudentOnlyDomain != "" && q.Domain == s.StudentOnlyDomain {
			continue
		}
		out = append(out, q)
	}
	return out
}

// EffectiveQuestion looks up an item by ID within the effective set.
func (s *Scale) EffectiveQuestion(p Profile, id int) (Question, bool) {
	for _, q := range s.EffectiveQuestions(p) {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// OptionFor finds the option a recorded response corresponds to.
func (s *Scale) OptionFor(r Response) (Option, bool) {
	for _, o := range s.Options {
		if r.NotApplicable && o.NotApplicable {
			return o, true
		}
		if !r.NotApplicable && !o.NotApplicable && o.Value == r.Value {
			return o, true
		}
	}
	return Option{}, false
}

// OptionByValue resolves a raw numeric answer. The wire value -1 selects
// the scale's not-applicable option when it has one.
func (s *Scale) OptionByValue(v float64) (Option, bool) {
	if v == NotApplicableValue {
		for _, o := range s.Options {
			if o.NotApplicable {
				return o, true
			}
		}
	}
	for _, o := range s.Options {
		if !o.NotApplicable && o.Value == v {
			return o, true
		}
	}
	return Option{}, false
}

// MaxOptionValue is the highest applicable option value, or 0.
func (s *Scale) MaxOptionValue() float64 {
	var hi float64
	seen := false
	for _, o := range s.Options {
		if o.NotApplicable {
			continue
		}
		if !seen || o.Value > hi {
			hi = o.Value
			seen = true
		}
	}
	return hi
}

// HasThreshold reports whether the scale carries a clinical cutoff.
func (s *Scale) HasThreshold() bool {
	return s.Threshold != nil
}

// Reference is a citation for a scale shown on the results screen.
type Reference struct {
	Name   string `yaml:"name" json:"name"`
	Source string `yaml:"source" json:"source"`
}
