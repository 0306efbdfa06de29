// Package server exposes the assessment flow as MCP tools so an assistant
// can walk a respondent through the questionnaire.
//
// All tools share one flow.Controller. Operations that are not legal in the
// current state come back as tool error results, never protocol errors.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/harrison/adhdscreen/internal/catalog"
	"github.com/harrison/adhdscreen/internal/flow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Logger is the subset of the logger package the tools use.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
}

// New creates the MCP server with every assessment tool registered.
func New(ctl *flow.Controller, cat *catalog.Catalog, log Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"adhdscreen",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	s.AddTools(NewTools(ctl, cat, log).All()...)
	return s
}

const instructions = `adhdscreen administers an adult ADHD self-assessment.

Call assessment_begin, then assessment_profile with the respondent's age,
gender and student status. For each scale, read the questions from
assessment_status, ask the respondent, and record each choice with
assessment_answer using the option value (-1 for "not applicable").
Call assessment_next once every question of the scale is answered.
After the last scale, assessment_results returns the scores and, when
enabled, an AI interpretation. Results are a screening aid, not a diagnosis.`
