// Package summary requests a natural-language interpretation of scored
// results from an external text-generation service.
//
// Every call settles exactly once into an Outcome. Transport errors, timeouts,
// provider panics, empty replies and replies carrying FailureMarker all become
// StatusFailed with FallbackText, so callers never see an error value.
package summary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/models"
)

// DefaultTimeout bounds a single interpretation call.
const DefaultTimeout = 60 * time.Second

// FailureMarker is the phrase a provider (or a proxy in front of one) returns
// when it declines to analyze. A reply containing it is a soft failure.
const FailureMarker = "AI interpretation service is temporarily unavailable"

// FallbackText is shown in place of an interpretation after any failure.
const FallbackText = FailureMarker + ". Your scores above are complete and unaffected; " +
	"consider saving them and discussing them with a qualified clinician. You can retry the interpretation."

// Status is the normalized result of a request.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// FailureKind records why a request failed, for logging only.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureTransport FailureKind = "transport"
	FailureTimeout   FailureKind = "timeout"
	FailureDeclined  FailureKind = "declined"
	FailureEmpty     FailureKind = "empty"
	FailurePanic     FailureKind = "panic"
)

// Outcome is what the flow controller receives.
type Outcome struct {
	Status   Status
	Text     string
	Kind     FailureKind
	Detail   string
	Provider string
	Elapsed  time.Duration
}

// Failed reports whether the outcome should offer a retry.
func (o Outcome) Failed() bool {
	return o.Status != StatusSuccess
}

// IsFallback reports whether text is the fixed failure message.
func IsFallback(text string) bool {
	return strings.Contains(text, FailureMarker)
}

// Provider generates text from a system prompt and a user prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Logger is the subset of logger.ConsoleLogger the requestor uses.
type Logger interface {
	LogDebug(message string)
	LogSummaryOutcome(provider string, ok bool, elapsed time.Duration, detail string)
}

// Requestor issues interpretation calls through a Provider.
type Requestor struct {
	provider Provider
	catalog  *catalog.Catalog
	timeout  time.Duration
	logger   Logger
}

// NewRequestor creates a Requestor. A non-positive timeout uses DefaultTimeout.
func NewRequestor(p Provider, cat *catalog.Catalog, timeout time.Duration, logger Logger) *Requestor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Requestor{provider: p, catalog: cat, timeout: timeout, logger: logger}
}

// Timeout returns the per-call bound.
func (r *Requestor) Timeout() time.Duration {
	return r.timeout
}

// ProviderName names the configured provider.
func (r *Requestor) ProviderName() string {
	if r.provider == nil {
		return "none"
	}
	return r.provider.Name()
}

// Close releases the provider's client if it holds one.
func (r *Requestor) Close() error {
	if c, ok := r.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Request performs one interpretation call. It returns by the timeout even
// if the provider ignores its context.
func (r *Requestor) Request(ctx context.Context, res models.Results) Outcome {
	start := time.Now()
	out := r.request(ctx, res)
	out.Provider = r.ProviderName()
	out.Elapsed = time.Since(start)
	if out.Failed() {
		out.Status = StatusFailed
		out.Text = FallbackText
	}
	if r.logger != nil {
		r.logger.LogSummaryOutcome(out.Provider, !out.Failed(), out.Elapsed, out.Detail)
	}
	return out
}

type generation struct {
	text string
	err  error
}

func (r *Requestor) request(ctx context.Context, res models.Results) Outcome {
	if r.provider == nil {
		return Outcome{Kind: FailureTransport, Detail: "no provider configured"}
	}

	prompt, err := BuildRequest(res, r.catalog).Prompt()
	if err != nil {
		return Outcome{Kind: FailureTransport, Detail: err.Error()}
	}
	if r.logger != nil {
		r.logger.LogDebug(fmt.Sprintf("requesting interpretation from %s (%d byte prompt)", r.provider.Name(), len(prompt)))
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Buffered so a provider that returns after the deadline never blocks.
	done := make(chan generation, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- generation{err: &panicError{value: p}}
			}
		}()
		text, err := r.provider.Generate(ctx, SystemPrompt, prompt)
		done <- generation{text: text, err: err}
	}()

	select {
	case g := <-done:
		return classify(g)
	case <-ctx.Done():
		return Outcome{Kind: FailureTimeout, Detail: ctx.Err().Error()}
	}
}

type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("provider panicked: %v", e.value)
}

func classify(g generation) Outcome {
	if g.err != nil {
		var pe *panicError
		switch {
		case errors.As(g.err, &pe):
			return Outcome{Kind: FailurePanic, Detail: g.err.Error()}
		case errors.Is(g.err, context.DeadlineExceeded):
			return Outcome{Kind: FailureTimeout, Detail: g.err.Error()}
		default:
			return Outcome{Kind: FailureTransport, Detail: g.err.Error()}
		}
	}
	text := strings.TrimSpace(g.text)
	if text == "" {
		return Outcome{Kind: FailureEmpty, Detail: "empty response"}
	}
	if IsFallback(text) {
		return Outcome{Kind: FailureDeclined, Detail: "service declined to analyze"}
	}
	return Outcome{Status: StatusSuccess, Text: text}
}
