package flow

import (
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/scoring"
)

// SummaryStatus tracks the interpretation for the current session.
type SummaryStatus string

const (
	SummaryNone    SummaryStatus = "none"
	SummaryPending SummaryStatus = "pending"
	SummarySuccess SummaryStatus = "success"
	SummaryFailed  SummaryStatus = "failed"
)

// SummaryState is the interpretation as seen by the result screen.
type SummaryState struct {
	Status   SummaryStatus
	Text     string
	Provider string
	Attempts int
}

// View is an immutable snapshot of the controller for rendering.
type View struct {
	State     State
	SessionID string
	ShortID   string
	Profile   models.Profile

	// Current scale, set during ASSESSMENT.
	ScaleIndex int
	ScaleCount int
	Scale      *models.Scale
	Questions  []models.Question
	Answers    map[int]models.Response
	Complete   bool

	Analysis          bool
	AnalysisAvailable bool

	// Results is set in ANALYZING and RESULT.
	Results *models.Results

	Summary  SummaryState
	CanRetry bool
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:             c.state,
		SessionID:         c.sess.ID(),
		ShortID:           c.sess.ShortID(),
		Profile:           c.sess.Profile(),
		ScaleIndex:        c.index,
		ScaleCount:        c.catalog.Len(),
		Analysis:          c.analysis,
		AnalysisAvailable: c.summarizer != nil,
		Summary:           c.summary,
	}
	if v.Summary.Status == "" {
		v.Summary.Status = SummaryNone
	}

	if c.state == StateAssessment {
		scale, _ := c.catalog.At(c.index)
		v.Scale = scale
		v.Questions = scale.EffectiveQuestions(v.Profile)
		v.Answers = make(map[int]models.Response, len(v.Questions))
		for _, q := range v.Questions {
			if r, ok := c.sess.Answer(scale.ID, q.ID); ok {
				v.Answers[q.ID] = r
			}
		}
		v.Complete = c.sess.IsComplete(scale.ID)
	}

	if c.state == StateAnalyzing || c.state == StateResult {
		res := c.sess.Results()
		v.Results = &res
	}
	v.CanRetry = c.state == StateResult && !c.inflight && c.summarizer != nil && c.summary.Status == SummaryFailed
	return v
}

// Results scores the current session regardless of state.
func (c *Controller) Results() models.Results {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Results()
}

// Progress reports answered and total effective items of the current scale.
func (c *Controller) Progress() (answered, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	scale, ok := c.catalog.At(c.index)
	if !ok {
		return 0, 0
	}
	return scoring.Progress(scale, c.sess.Profile(), c.sess.Answers())
}
