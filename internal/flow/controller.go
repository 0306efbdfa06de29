// Package flow sequences a respondent through profile entry, the scales of
// the catalog, an optional interpretation request and the result screen.
//
// The Controller owns the session. Every operation is safe to call from any
// goroutine; illegal operations leave the state unchanged and report false
// (or ErrIllegalTransition). The interpretation call runs on its own
// goroutine and its outcome is applied only if the session it was issued
// for is still current.
package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/session"
	"github.com/harrison/adhdscreen/internal/summary"
)

var (
	// ErrIllegalTransition is returned when an operation is not allowed in
	// the current state.
	ErrIllegalTransition = errors.New("flow: operation not allowed in current state")
	// ErrNotAnswering is returned by Answer outside the ASSESSMENT state.
	ErrNotAnswering = errors.New("flow: answers are only accepted during the assessment")
)

// Summarizer issues one interpretation call and always settles.
type Summarizer interface {
	Request(ctx context.Context, res models.Results) summary.Outcome
}

// Logger is the subset of logger.ConsoleLogger the controller uses.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogTransition(from, to string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithAnalysis sets the default interpretation preference for new sessions.
func WithAnalysis(enabled bool) Option {
	return func(c *Controller) { c.analysisDefault = enabled }
}

// WithContext sets the parent context for interpretation calls.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// Controller is the assessment state machine.
type Controller struct {
	mu sync.Mutex

	catalog    *catalog.Catalog
	summarizer Summarizer
	logger     Logger
	ctx        context.Context

	analysisDefault bool

	state    State
	sess     *session.Session
	index    int
	analysis bool
	summary  SummaryState

	// generation increments on every reset. A settling call whose
	// generation no longer matches belongs to a discarded session.
	generation uint64
	inflight   bool
	settled    chan struct{}
}

// New creates a controller in START with a fresh session. A nil summarizer
// disables interpretation.
func New(cat *catalog.Catalog, s Summarizer, opts ...Option) *Controller {
	c := &Controller{
		catalog:         cat,
		summarizer:      s,
		ctx:             context.Background(),
		analysisDefault: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

func (c *Controller) resetLocked() {
	c.state = StateStart
	c.sess = session.New(c.catalog)
	c.index = 0
	c.analysis = c.analysisDefault
	c.summary = SummaryState{}
	c.generation++
	c.inflight = false
	c.settled = nil
}

// move applies a transition if the table allows it from the current state.
func (c *Controller) move(ev Event) bool {
	t, ok := lookup(c.state, ev)
	if !ok {
		return false
	}
	if t.To != c.state && c.logger != nil {
		c.logger.LogTransition(string(c.state), string(t.To))
	}
	c.state = t.To
	return true
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Begin moves START to PROFILING.
func (c *Controller) Begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.move(EventBegin)
}

// SubmitProfile validates p and starts the first scale. An invalid profile
// leaves the controller in PROFILING.
func (c *Controller) SubmitProfile(p models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := lookup(c.state, EventSubmitProfile); !ok {
		return fmt.Errorf("%w: cannot submit profile in %s", ErrIllegalTransition, c.state)
	}
	if err := c.sess.SetProfile(p); err != nil {
		return err
	}
	c.index = 0
	c.move(EventSubmitProfile)
	return nil
}

// SetAnalysis sets this session's interpretation preference. It has no
// effect once the assessment has been completed.
func (c *Controller) SetAnalysis(enabled bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateStart, StateProfiling, StateAssessment:
		c.analysis = enabled
		return true
	default:
		return false
	}
}

// AnalysisAvailable reports whether a summarizer is configured.
func (c *Controller) AnalysisAvailable() bool {
	return c.summarizer != nil
}

// Answer records a value for a question of the current scale. The value -1
// selects the scale's not-applicable option.
func (c *Controller) Answer(questionID int, value float64) (models.Option, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAssessment {
		return models.Option{}, ErrNotAnswering
	}
	scale, _ := c.catalog.At(c.index)
	opt, err := c.sess.Record(scale.ID, questionID, value)
	if err != nil {
		return models.Option{}, err
	}
	c.move(EventAnswer)
	return opt, nil
}

// Advance moves past the current scale once it is complete. Past the last
// scale the assessment ends: with analysis on the controller enters
// ANALYZING and issues the interpretation call, otherwise it enters RESULT.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAssessment {
		return false
	}
	scale, _ := c.catalog.At(c.index)
	if !c.sess.IsComplete(scale.ID) {
		return false
	}

	if c.index < c.catalog.Len()-1 {
		c.index++
		return c.move(EventAdvance)
	}

	if c.analysis && c.summarizer != nil {
		c.move(EventFinishAnalyze)
		c.startSummaryLocked()
		return true
	}
	return c.move(EventFinish)
}

// Back returns to the previous scale, or to PROFILING from the first one.
// Recorded answers are kept.
func (c *Controller) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAssessment {
		return false
	}
	if c.index > 0 {
		c.index--
		return c.move(EventBack)
	}
	return c.move(EventBackToProfile)
}

// Retry re-issues a failed interpretation call without leaving RESULT. It is
// refused while a call is outstanding or after a successful one.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateResult || c.inflight || c.summarizer == nil {
		return false
	}
	if c.summary.Status != SummaryFailed {
		return false
	}
	c.move(EventRetry)
	c.startSummaryLocked()
	return true
}

// Reset discards the session and returns to START. An interpretation call
// still in flight is abandoned; its outcome will be dropped.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.move(EventReset) {
		return false
	}
	if c.logger != nil {
		c.logger.LogInfo(fmt.Sprintf("session %s discarded", c.sess.ShortID()))
	}
	c.resetLocked()
	return true
}

// Wait blocks until no interpretation call is outstanding or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	ch := c.settled
	inflight := c.inflight
	c.mu.Unlock()

	if !inflight || ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) startSummaryLocked() {
	gen := c.generation
	res := c.sess.Results()
	done := make(chan struct{})

	c.inflight = true
	c.settled = done
	c.summary = SummaryState{Status: SummaryPending, Attempts: c.summary.Attempts + 1}
	if c.logger != nil {
		c.logger.LogDebug(fmt.Sprintf("interpretation attempt %d issued", c.summary.Attempts))
	}

	go func() {
		defer close(done)
		out := c.summarizer.Request(c.ctx, res)
		c.settle(gen, out)
	}()
}

func (c *Controller) settle(gen uint64, out summary.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		if c.logger != nil {
			c.logger.LogDebug("dropping interpretation outcome for a discarded session")
		}
		return
	}
	c.inflight = false
	c.summary.Text = out.Text
	c.summary.Provider = out.Provider
	if out.Failed() {
		c.summary.Status = SummaryFailed
	} else {
		c.summary.Status = SummarySuccess
	}
	if c.state == StateAnalyzing {
		c.move(EventSummarySettled)
	}
}
