package summary

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

// ScaleScore is one scale's aggregate as sent to the interpreter.
type ScaleScore struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Scoring   string   `json:"scoring"`
	Score     float64  `json:"score"`
	Max       float64  `json:"max"`
	Threshold *float64 `json:"threshold,omitempty"`
	Band      string   `json:"band,omitempty"`
}

// Impairment carries the functional-impairment scale detail.
type Impairment struct {
	ScaleID      string             `json:"scale_id"`
	DomainMeans  map[string]float64 `json:"domain_means"`
	FlagAt       *float64           `json:"flag_threshold,omitempty"`
	Flagged      []string           `json:"flagged_domains"`
	Items        map[int]float64    `json:"items"`
	SevereCount  int                `json:"severe_item_count"`
	SevereValue  float64            `json:"severe_value"`
	SevereLabels []string           `json:"severe_items"`
}

// Request is the structured payload for one interpretation call.
type Request struct {
	Age        int                `json:"age"`
	Gender     models.Gender      `json:"gender"`
	IsStudent  bool               `json:"is_student"`
	Scores     map[string]float64 `json:"scores"`
	Scales     []ScaleScore       `json:"scales"`
	Impairment *Impairment        `json:"impairment,omitempty"`
}

// BuildRequest projects scored results into the interpreter payload. Raw
// impairment answers are included with not-applicable as -1 so the
// interpreter can count maximum-severity items itself.
func BuildRequest(res models.Results, cat *catalog.Catalog) Request {
	req := Request{
		Age:       res.Profile.Age,
		Gender:    res.Profile.Gender,
		IsStudent: res.Profile.IsStudent,
		Scores:    make(map[string]float64, len(res.Scores)),
	}
	for id, v := range res.Scores {
		req.Scores[id] = v
	}

	for _, s := range cat.Scales() {
		score := res.Scores[s.ID]
		ss := ScaleScore{
			ID:        s.ID,
			Name:      s.Name,
			Scoring:   string(s.ScoringType),
			Score:     score,
			Max:       scoring.MaxScore(s, res.Profile),
			Threshold: s.Threshold,
		}
		if b := scoring.Classify(s, score); b != scoring.BandNone {
			ss.Band = scoring.BandLabel(s, b)
		}
		req.Scales = append(req.Scales, ss)
	}

	if imp := cat.Impairment(); imp != nil {
		means := res.DomainMeans[imp.ID]
		detail := &Impairment{
			ScaleID:     imp.ID,
			DomainMeans: make(map[string]float64, len(means)),
			FlagAt:      imp.DomainFlagThreshold,
			Flagged:     []string{},
			Items:       res.Answers.WireValues(imp, res.Profile),
			SevereValue: imp.MaxOptionValue(),
		}
		for d, m := range means {
			detail.DomainMeans[d] = m
		}
		for _, f := range scoring.FlaggedDomains(imp, res.Profile, means) {
			detail.Flagged = append(detail.Flagged, f.Domain)
		}
		severe := scoring.SevereItems(imp, res.Profile, res.Answers)
		detail.SevereCount = len(severe)
		for _, q := range severe {
			detail.SevereLabels = append(detail.SevereLabels, q.Text)
		}
		req.Impairment = detail
	}
	return req
}

// SystemPrompt frames the interpreter's role.
const SystemPrompt = `You are an experienced adult ADHD clinician reviewing self-report screening results.
Write a careful, warm and well-organized interpretation in English using short markdown sections.
You are not making a diagnosis. Never invent scores that are not in the data.`

// Prompt renders the request as the user prompt, embedding the payload as JSON.
func (r Request) Prompt() (string, error) {
	payload, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary request: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Respondent: age %d, gender %s", r.Age, r.Gender.Label())
	if r.IsStudent {
		b.WriteString(", currently a student")
	}
	b.WriteString(".\n\nScale results:\n")
	for i, s := range r.Scales {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, s.Name, formatScore(s))
		if s.Threshold != nil {
			fmt.Fprintf(&b, " (cutoff %g, %s)", *s.Threshold, s.Band)
		}
		b.WriteString("\n")
	}
	if imp := r.Impairment; imp != nil {
		fmt.Fprintf(&b, "\nThe respondent rated %d impairment item(s) at the maximum value %g, indicating severe functional breakdown.\n",
			imp.SevereCount, imp.SevereValue)
	}

	b.WriteString(`
Interpretation guidance:
- Developmental continuity: a childhood retrospective score above its cutoff together with a high current symptom score suggests a neurodevelopmental pattern. A high current symptom score with a childhood score below 30 should raise anxiety, depression or lifestyle factors as alternative explanations.
- Functional impairment: focus on domains whose mean is at or above the flag threshold and treat maximum-severity items as priorities.
- Masking: comment on whether the masking score suggests the respondent maintains function through costly compensation.
- Recommendations: suggest practical supports (external structure, environment changes) and state how urgently a professional evaluation should be sought.

Structured data:
`)
	b.Write(payload)
	b.WriteString("\n")
	return b.String(), nil
}

func formatScore(s ScaleScore) string {
	if s.Scoring == string(models.ScoringMean) {
		return fmt.Sprintf("%.2f / %g", s.Score, s.Max)
	}
	return fmt.Sprintf("%g / %g", s.Score, s.Max)
}
