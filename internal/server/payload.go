package server

import (
	"github.com/harrison/adhdscreen/internal/flow"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/report"
)

type optionPayload struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type questionPayload struct {
	ID     int      `json:"id"`
	Text   string   `json:"text"`
	Domain string   `json:"domain,omitempty"`
	Answer *float64 `json:"answer,omitempty"`
}

type scalePayload struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Position    int               `json:"position"`
	Count       int               `json:"count"`
	Options     []optionPayload   `json:"options"`
	Questions   []questionPayload `json:"questions"`
	Complete    bool              `json:"complete"`
}

type summaryPayload struct {
	Status   flow.SummaryStatus `json:"status"`
	Text     string             `json:"text,omitempty"`
	Provider string             `json:"provider,omitempty"`
	Attempts int                `json:"attempts"`
}

type statusPayload struct {
	State     flow.State      `json:"state"`
	SessionID string          `json:"session_id"`
	Profile   *models.Profile `json:"profile,omitempty"`
	Analysis  bool            `json:"analysis"`
	Scale     *scalePayload   `json:"scale,omitempty"`
	Summary   summaryPayload  `json:"summary"`
	CanRetry  bool            `json:"can_retry"`
	Next      string          `json:"next"`
}

type resultsPayload struct {
	State    flow.State      `json:"state"`
	Report   report.Document `json:"report"`
	Summary  summaryPayload  `json:"summary"`
	CanRetry bool            `json:"can_retry"`
}

func newSummary(s flow.SummaryState) summaryPayload {
	return summaryPayload{Status: s.Status, Text: s.Text, Provider: s.Provider, Attempts: s.Attempts}
}

func newStatus(v flow.View) statusPayload {
	st := statusPayload{
		State:     v.State,
		SessionID: v.ShortID,
		Analysis:  v.Analysis && v.AnalysisAvailable,
		Summary:   newSummary(v.Summary),
		CanRetry:  v.CanRetry,
		Next:      nextHint(v),
	}
	if v.State != flow.StateStart && v.State != flow.StateProfiling {
		p := v.Profile
		st.Profile = &p
	}

	if v.Scale != nil {
		sp := &scalePayload{
			ID:          v.Scale.ID,
			Name:        v.Scale.Name,
			Description: v.Scale.Description,
			Position:    v.ScaleIndex + 1,
			Count:       v.ScaleCount,
			Complete:    v.Complete,
		}
		for _, o := range v.Scale.Options {
			value := o.Value
			if o.NotApplicable {
				value = models.NotApplicableValue
			}
			sp.Options = append(sp.Options, optionPayload{Label: o.Label, Value: value})
		}
		for _, q := range v.Questions {
			qp := questionPayload{ID: q.ID, Text: q.Text, Domain: q.Domain}
			if r, ok := v.Answers[q.ID]; ok {
				w := r.WireValue()
				qp.Answer = &w
			}
			sp.Questions = append(sp.Questions, qp)
		}
		st.Scale = sp
	}
	return st
}

func nextHint(v flow.View) string {
	switch v.State {
	case flow.StateStart:
		return "assessment_begin"
	case flow.StateProfiling:
		return "assessment_profile"
	case flow.StateAssessment:
		if v.Complete {
			return "assessment_next"
		}
		return "assessment_answer"
	case flow.StateAnalyzing:
		return "assessment_results"
	default:
		if v.CanRetry {
			return "assessment_retry_summary"
		}
		return "assessment_share"
	}
}
