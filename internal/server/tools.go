package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/flow"
	"github.com/harrison/adhdscreen/internal/models"
	"github.com/harrison/adhdscreen/internal/report"
)

// waitLimit bounds how long a tool call blocks on an interpretation.
const waitLimit = 2 * time.Minute

// Tools handles the assessment_* tool calls.
type Tools struct {
	ctl     *flow.Controller
	catalog *catalog.Catalog
	log     Logger
}

// NewTools binds the tool handlers to a controller.
func NewTools(ctl *flow.Controller, cat *catalog.Catalog, log Logger) *Tools {
	return &Tools{ctl: ctl, catalog: cat, log: log}
}

// All returns every tool with its handler, in workflow order.
func (t *Tools) All() []server.ServerTool {
	return []server.ServerTool{
		{Tool: mcp.NewTool("assessment_status",
			mcp.WithDescription("Show the current state, the current scale's questions and options, and recorded answers."),
		), Handler: t.Status},
		{Tool: mcp.NewTool("assessment_begin",
			mcp.WithDescription("Start the assessment from the welcome screen."),
			mcp.WithBoolean("analysis",
				mcp.Description("Request an AI interpretation at the end (default: server setting)."),
			),
		), Handler: t.Begin},
		{Tool: mcp.NewTool("assessment_profile",
			mcp.WithDescription("Submit the respondent profile and start the first scale. Can be resubmitted after going back."),
			mcp.WithNumber("age",
				mcp.Required(),
				mcp.Description(fmt.Sprintf("Age in years (%d-%d).", models.MinAge, models.MaxAge)),
			),
			mcp.WithString("gender",
				mcp.Required(),
				mcp.Enum(string(models.GenderMale), string(models.GenderFemale), string(models.GenderOther)),
				mcp.Description("Gender."),
			),
			mcp.WithBoolean("is_student",
				mcp.Description("Whether the respondent is currently a student. Students also answer school items."),
			),
		), Handler: t.Profile},
		{Tool: mcp.NewTool("assessment_answer",
			mcp.WithDescription("Record or change the answer to a question of the current scale."),
			mcp.WithNumber("question_id",
				mcp.Required(),
				mcp.Description("Question id from assessment_status."),
			),
			mcp.WithNumber("value",
				mcp.Required(),
				mcp.Description("Option value from assessment_status; -1 selects \"not applicable\" where offered."),
			),
		), Handler: t.Answer},
		{Tool: mcp.NewTool("assessment_next",
			mcp.WithDescription("Move to the next scale once the current one is complete. After the last scale, scores are computed."),
		), Handler: t.Next},
		{Tool: mcp.NewTool("assessment_back",
			mcp.WithDescription("Return to the previous scale, or to the profile from the first scale. Answers are kept."),
		), Handler: t.Back},
		{Tool: mcp.NewTool("assessment_results",
			mcp.WithDescription("Return the scores, domain means and the interpretation status."),
			mcp.WithBoolean("wait",
				mcp.Description("Block until a pending interpretation settles (default true)."),
			),
		), Handler: t.Results},
		{Tool: mcp.NewTool("assessment_retry_summary",
			mcp.WithDescription("Retry a failed AI interpretation. Refused while one is pending or after success."),
			mcp.WithBoolean("wait",
				mcp.Description("Block until the retry settles (default true)."),
			),
		), Handler: t.Retry},
		{Tool: mcp.NewTool("assessment_reset",
			mcp.WithDescription("Discard the finished session and return to the welcome screen."),
		), Handler: t.Reset},
		{Tool: mcp.NewTool("assessment_share",
			mcp.WithDescription("Return the plain-text summary for sharing."),
		), Handler: t.Share},
	}
}

// Status handles assessment_status.
func (t *Tools) Status(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.status()
}

// Begin handles assessment_begin.
func (t *Tools) Begin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.ctl.Begin() {
		return t.illegal("begin")
	}
	if v, ok := req.GetArguments()["analysis"].(bool); ok {
		t.ctl.SetAnalysis(v)
	}
	return t.status()
}

// Profile handles assessment_profile.
func (t *Tools) Profile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	age, err := wholeArg(req, "age")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	gender, err := models.ParseGender(req.GetString("gender", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p := models.Profile{Age: age, Gender: gender, IsStudent: boolArg(req, "is_student", false)}

	if err := t.ctl.SubmitProfile(p); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.status()
}

// Answer handles assessment_answer.
func (t *Tools) Answer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qid, err := wholeArg(req, "question_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, ok := req.GetArguments()["value"].(float64)
	if !ok {
		return mcp.NewToolResultError("'value' is required"), nil
	}

	opt, err := t.ctl.Answer(qid, value)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	done, total := t.ctl.Progress()
	return mcp.NewToolResultText(fmt.Sprintf("Recorded question %d: %s (%d/%d answered)", qid, opt.Label, done, total)), nil
}

// Next handles assessment_next.
func (t *Tools) Next(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.ctl.Advance() {
		if t.ctl.State() == flow.StateAssessment {
			done, total := t.ctl.Progress()
			return mcp.NewToolResultError(fmt.Sprintf("current scale is incomplete: %d of %d questions answered", done, total)), nil
		}
		return t.illegal("next")
	}
	return t.status()
}

// Back handles assessment_back.
func (t *Tools) Back(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.ctl.Back() {
		return t.illegal("back")
	}
	return t.status()
}

// Results handles assessment_results.
func (t *Tools) Results(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := t.ctl.State()
	if state != flow.StateAnalyzing && state != flow.StateResult {
		return t.illegal("results")
	}
	if boolArg(req, "wait", true) {
		if err := t.wait(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return t.results()
}

// Retry handles assessment_retry_summary.
func (t *Tools) Retry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.ctl.Retry() {
		return mcp.NewToolResultError("retry not available: the interpretation is pending, already succeeded, or the assessment is not finished"), nil
	}
	if t.log != nil {
		t.log.LogInfo("interpretation retry requested")
	}
	if boolArg(req, "wait", true) {
		if err := t.wait(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return t.results()
}

// Reset handles assessment_reset.
func (t *Tools) Reset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !t.ctl.Reset() {
		return t.illegal("reset")
	}
	return t.status()
}

// Share handles assessment_share.
func (t *Tools) Share(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v := t.ctl.View()
	if v.State != flow.StateResult || v.Results == nil {
		return t.illegal("share")
	}
	return mcp.NewToolResultText(report.ShareText(*v.Results, t.catalog, v.ShortID)), nil
}

func (t *Tools) wait(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, waitLimit)
	defer cancel()
	if err := t.ctl.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("interpretation still pending; call assessment_results again later")
		}
		return err
	}
	return nil
}

func (t *Tools) illegal(action string) (*mcp.CallToolResult, error) {
	state := t.ctl.State()
	if t.log != nil {
		t.log.LogWarn(fmt.Sprintf("refused %s in state %s", action, state))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s is not allowed in state %s", action, state)), nil
}

func (t *Tools) status() (*mcp.CallToolResult, error) {
	return jsonResult(newStatus(t.ctl.View()))
}

func (t *Tools) results() (*mcp.CallToolResult, error) {
	v := t.ctl.View()
	if v.Results == nil {
		return t.illegal("results")
	}
	doc := report.NewDocument(*v.Results, t.catalog, v.ShortID)
	if v.Summary.Status == flow.SummarySuccess {
		doc.Summary = v.Summary.Text
	}
	return jsonResult(resultsPayload{
		State:    v.State,
		Report:   doc,
		Summary:  newSummary(v.Summary),
		CanRetry: v.CanRetry,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// wholeArg extracts a required integer argument. Fractional, non-finite and
// out-of-range numbers are rejected, never truncated.
func wholeArg(req mcp.CallToolRequest, key string) (int, error) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return 0, fmt.Errorf("'%s' is required", key)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("'%s' must be a whole number, got %v", key, v)
	}
	return int(v), nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
